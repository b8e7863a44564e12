package projects

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/httpx"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/transport"

	"github.com/go-chi/chi/v5"
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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	filter := ListFilter{
		FeaturedOnly: strings.EqualFold(strings.TrimSpace(r.URL.Query().Get("featured")), "true"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.List(ctx, filter)
	if err != nil {
		httpx.WriteStoreError(w, log, "projects list", err)
		return
	}

	log.Info("projects list: ok", slog.Int("count", len(items)))
	transport.WriteList(w, items, len(items), nil)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("projects get: not found", slog.String("project_id", id))
			transport.WriteError(w, http.StatusNotFound, "Project not found", nil)
			return
		}
		httpx.WriteStoreError(w, log, "projects get", err)
		return
	}

	transport.WriteData(w, http.StatusOK, item)
}

func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)

	var req UpsertRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin projects create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.Create(ctx, auth.PrincipalFromContext(r.Context()), req)
	if err != nil {
		h.writeMutationError(w, log, "admin projects create", err)
		return
	}

	log.Info("admin projects create: ok", slog.String("project_id", item.ID))
	transport.WriteData(w, http.StatusCreated, item)
}

func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var req UpsertRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin projects update: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.Update(ctx, auth.PrincipalFromContext(r.Context()), id, req)
	if err != nil {
		h.writeMutationError(w, log, "admin projects update", err)
		return
	}

	log.Info("admin projects update: ok", slog.String("project_id", id))
	transport.WriteData(w, http.StatusOK, item)
}

func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, auth.PrincipalFromContext(r.Context()), id); err != nil {
		h.writeMutationError(w, log, "admin projects delete", err)
		return
	}

	log.Info("admin projects delete: ok", slog.String("project_id", id))
	transport.WriteMessage(w, http.StatusOK, "Project deleted successfully", nil)
}

func (h *Handler) writeMutationError(w http.ResponseWriter, log *slog.Logger, area string, err error) {
	if errors.Is(err, ErrNotFound) {
		log.Warn(area + ": not found")
		transport.WriteError(w, http.StatusNotFound, "Project not found", nil)
		return
	}
	if httpx.WriteServiceError(w, log, area, err) {
		return
	}
	httpx.WriteStoreError(w, log, area, err)
}
