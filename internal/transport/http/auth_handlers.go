package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"garage/internal/dto"
	"garage/internal/observability/middleware"
)

func (h *handlers) register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	res, err := h.auth.Register(r.Context(), req)
	if err != nil {
		slog.Warn("registration failed", "error", err,
			"request_id", middleware.RequestIDFromContext(r.Context()))
		writeAuthError(w, err)
		return
	}
	slog.Info("user registered", "user_id", res.UserID,
		"request_id", middleware.RequestIDFromContext(r.Context()))
	writeJSON(w, http.StatusCreated, res)
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	res, err := h.auth.Login(r.Context(), req)
	if err != nil {
		writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
