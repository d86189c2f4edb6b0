package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"garage/internal/domain"
	"garage/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

// writeCarError maps the business error kinds onto the statuses the mobile
// client expects. A plate miss reads as 404 and a PIN miss as 401, so the
// client can tell the two claim failures apart.
func writeCarError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		status = http.StatusUnprocessableEntity
		msg = err.Error()
	case errors.Is(err, domain.ErrCarNotFound):
		status = http.StatusNotFound
		msg = err.Error()
	case errors.Is(err, domain.ErrInvalidPIN):
		status = http.StatusUnauthorized
		msg = err.Error()
	case errors.Is(err, domain.ErrAlreadyLinked):
		status = http.StatusConflict
		msg = err.Error()
	case errors.Is(err, domain.ErrDuplicatePlate), errors.Is(err, domain.ErrDuplicateVIN):
		status = http.StatusConflict
		msg = err.Error()
	case errors.Is(err, domain.ErrNotLinked):
		status = http.StatusForbidden
		msg = err.Error()
	case errors.Is(err, domain.ErrSoleCar):
		status = http.StatusUnprocessableEntity
		msg = err.Error()
	}
	writeJSON(w, status, errorBody{Error: msg})
}

// writeImageError is writeCarError with the one difference the image
// endpoints carry: an unlinked car reads as not found, not forbidden.
func writeImageError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrNotLinked) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "no access to this car"})
		return
	}
	writeCarError(w, err)
}

func writeAuthError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		status = http.StatusUnprocessableEntity
		msg = err.Error()
	case errors.Is(err, domain.ErrEmailTaken):
		status = http.StatusConflict
		msg = err.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		msg = err.Error()
	}
	writeJSON(w, status, errorBody{Error: msg})
}
