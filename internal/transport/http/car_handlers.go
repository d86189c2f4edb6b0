package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"garage/internal/auth"
	"garage/internal/domain"
	"garage/internal/dto"
	"garage/internal/observability/metrics"
	"garage/internal/observability/middleware"
)

func userID(r *http.Request) domain.UserID {
	// RequireUser runs before every car handler; a missing ID is a wiring bug
	// and the nil UUID will match no rows.
	id, _ := auth.UserIDFromContext(r.Context())
	return id
}

func carIDParam(w http.ResponseWriter, r *http.Request) (domain.CarID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "carID"))
	if err != nil {
		http.Error(w, "invalid carId", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func (h *handlers) listUserCars(w http.ResponseWriter, r *http.Request) {
	res, err := h.garage.ListUserCars(r.Context(), userID(r))
	if err != nil {
		writeCarError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handlers) linkCar(w http.ResponseWriter, r *http.Request) {
	var req dto.LinkCarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		metrics.CarsLinkedTotal.WithLabelValues("failure").Inc()
		return
	}
	res, err := h.links.LinkCar(r.Context(), userID(r), req)
	if err != nil {
		metrics.CarsLinkedTotal.WithLabelValues("failure").Inc()
		slog.Warn("car claim failed", "error", err,
			"request_id", middleware.RequestIDFromContext(r.Context()))
		writeCarError(w, err)
		return
	}
	metrics.CarsLinkedTotal.WithLabelValues("success").Inc()
	slog.Info("car linked", "car_id", res.Car.ID, "is_primary", res.IsPrimary,
		"request_id", middleware.RequestIDFromContext(r.Context()))
	writeJSON(w, http.StatusCreated, res)
}

func (h *handlers) createCar(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		metrics.CarsCreatedTotal.WithLabelValues("failure").Inc()
		return
	}
	res, err := h.links.CreateCar(r.Context(), userID(r), req)
	if err != nil {
		metrics.CarsCreatedTotal.WithLabelValues("failure").Inc()
		slog.Warn("car creation failed", "error", err,
			"request_id", middleware.RequestIDFromContext(r.Context()))
		writeCarError(w, err)
		return
	}
	metrics.CarsCreatedTotal.WithLabelValues("success").Inc()
	slog.Info("car created", "car_id", res.Car.ID, "is_primary", res.IsPrimary,
		"has_image", res.ImageURL != nil,
		"request_id", middleware.RequestIDFromContext(r.Context()))
	writeJSON(w, http.StatusCreated, res)
}

func (h *handlers) setPrimary(w http.ResponseWriter, r *http.Request) {
	carID, ok := carIDParam(w, r)
	if !ok {
		return
	}
	res, err := h.garage.SetPrimary(r.Context(), userID(r), carID)
	if err != nil {
		metrics.PrimaryChangesTotal.WithLabelValues("failure").Inc()
		writeCarError(w, err)
		return
	}
	metrics.PrimaryChangesTotal.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusOK, res)
}

func (h *handlers) setLastUsed(w http.ResponseWriter, r *http.Request) {
	carID, ok := carIDParam(w, r)
	if !ok {
		return
	}
	res, err := h.garage.SetLastUsed(r.Context(), userID(r), carID)
	if err != nil {
		writeCarError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handlers) unlink(w http.ResponseWriter, r *http.Request) {
	carID, ok := carIDParam(w, r)
	if !ok {
		return
	}
	if err := h.garage.Unlink(r.Context(), userID(r), carID); err != nil {
		metrics.CarsUnlinkedTotal.WithLabelValues("failure").Inc()
		slog.Warn("unlink failed", "car_id", carID, "error", err,
			"request_id", middleware.RequestIDFromContext(r.Context()))
		writeCarError(w, err)
		return
	}
	metrics.CarsUnlinkedTotal.WithLabelValues("success").Inc()
	slog.Info("car unlinked", "car_id", carID,
		"request_id", middleware.RequestIDFromContext(r.Context()))
	writeJSON(w, http.StatusOK, map[string]bool{"unlinked": true})
}
