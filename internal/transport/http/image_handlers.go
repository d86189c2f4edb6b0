package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"garage/internal/dto"
	"garage/internal/observability/metrics"
	"garage/internal/observability/middleware"
	"garage/internal/service"
)

// readImagePayload accepts the two intake shapes the mobile client uses: a
// multipart file under the given field name, or a JSON body with a base64
// data URI.
func readImagePayload(r *http.Request, field string) ([]byte, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(service.MaxImageBytes + 1<<20); err != nil {
			return nil, service.ErrInvalidRequest
		}
		f, _, err := r.FormFile(field)
		if err != nil {
			return nil, service.ErrInvalidRequest
		}
		defer f.Close()
		data, err := io.ReadAll(io.LimitReader(f, service.MaxImageBytes+1))
		if err != nil {
			return nil, err
		}
		return data, nil
	}

	var req dto.ImageUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, service.ErrInvalidRequest
	}
	return service.DecodeDataURI(req.Image)
}

func (h *handlers) uploadCarImage(w http.ResponseWriter, r *http.Request) {
	carID, ok := carIDParam(w, r)
	if !ok {
		return
	}
	data, err := readImagePayload(r, "car_image")
	if err != nil {
		metrics.ImageOperationsTotal.WithLabelValues("car_attach", "failure").Inc()
		writeImageError(w, err)
		return
	}
	res, err := h.images.AttachCarImage(r.Context(), userID(r), carID, data)
	if err != nil {
		metrics.ImageOperationsTotal.WithLabelValues("car_attach", "failure").Inc()
		slog.Warn("car image upload failed", "car_id", carID, "error", err,
			"request_id", middleware.RequestIDFromContext(r.Context()))
		writeImageError(w, err)
		return
	}
	metrics.ImageOperationsTotal.WithLabelValues("car_attach", "success").Inc()
	writeJSON(w, http.StatusOK, res)
}

func (h *handlers) deleteCarImage(w http.ResponseWriter, r *http.Request) {
	carID, ok := carIDParam(w, r)
	if !ok {
		return
	}
	res, err := h.images.DeleteCarImage(r.Context(), userID(r), carID)
	if err != nil {
		metrics.ImageOperationsTotal.WithLabelValues("car_detach", "failure").Inc()
		writeImageError(w, err)
		return
	}
	metrics.ImageOperationsTotal.WithLabelValues("car_detach", "success").Inc()
	writeJSON(w, http.StatusOK, res)
}

func (h *handlers) uploadProfileImage(w http.ResponseWriter, r *http.Request) {
	data, err := readImagePayload(r, "profile_image")
	if err != nil {
		metrics.ImageOperationsTotal.WithLabelValues("profile_attach", "failure").Inc()
		writeImageError(w, err)
		return
	}
	res, err := h.images.AttachProfileImage(r.Context(), userID(r), data)
	if err != nil {
		metrics.ImageOperationsTotal.WithLabelValues("profile_attach", "failure").Inc()
		slog.Warn("profile image upload failed", "error", err,
			"request_id", middleware.RequestIDFromContext(r.Context()))
		writeImageError(w, err)
		return
	}
	metrics.ImageOperationsTotal.WithLabelValues("profile_attach", "success").Inc()
	writeJSON(w, http.StatusOK, res)
}

func (h *handlers) deleteProfileImage(w http.ResponseWriter, r *http.Request) {
	res, err := h.images.DeleteProfileImage(r.Context(), userID(r))
	if err != nil {
		metrics.ImageOperationsTotal.WithLabelValues("profile_detach", "failure").Inc()
		writeImageError(w, err)
		return
	}
	metrics.ImageOperationsTotal.WithLabelValues("profile_detach", "success").Inc()
	writeJSON(w, http.StatusOK, res)
}
