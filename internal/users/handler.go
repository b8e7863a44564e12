package users

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/httpx"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/transport"
)

type Handler struct {
	service *Service
	log     *slog.Logger
}

func NewHandler(service *Service, log *slog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log,
	}
}

type loginResponse struct {
	Success bool            `json:"success"`
	User    *auth.Principal `json:"user"`
	Token   string          `json:"token"`
}

type meResponse struct {
	Success bool            `json:"success"`
	User    *auth.Principal `json:"user"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)

	var req LoginRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("auth login: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := h.service.Authenticate(ctx, req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			log.Warn("auth login: invalid credentials")
			transport.WriteError(w, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}
		if httpx.WriteServiceError(w, log, "auth login", err) {
			return
		}
		httpx.WriteStoreError(w, log, "auth login", err)
		return
	}

	log.Info("auth login: ok", slog.String("user_id", result.User.ID))
	transport.WriteJSON(w, http.StatusOK, loginResponse{Success: true, User: result.User, Token: result.Token})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())
	if principal == nil {
		transport.WriteError(w, http.StatusUnauthorized, "not authorized to access this route", nil)
		return
	}
	transport.WriteJSON(w, http.StatusOK, meResponse{Success: true, User: principal})
}
