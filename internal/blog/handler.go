package blog

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
	"portfolio-backend/internal/validation"

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

func (h *Handler) PublicList(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	page, limit, err := httpx.ParsePage(r.URL.Query(), 10, 100)
	if err != nil {
		log.Warn("blog public list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	filter := PublicListFilter{
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
		Tag:      strings.TrimSpace(r.URL.Query().Get("tag")),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := h.service.ListPublished(ctx, filter, page, limit)
	if err != nil {
		httpx.WriteStoreError(w, log, "blog public list", err)
		return
	}

	log.Info("blog public list: ok", slog.Int("count", len(result.Items)))
	transport.WriteList(w, result.Items, len(result.Items), &transport.Page{
		Total: result.Total,
		Page:  result.Page,
		Pages: httpx.Pages(result.Total, result.Limit),
	})
}

func (h *Handler) PublicGetBySlug(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	slug := strings.TrimSpace(chi.URLParam(r, "slug"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	post, err := h.service.ViewPublished(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("blog public get: not found", slog.String("slug", slug))
			transport.WriteError(w, http.StatusNotFound, "Blog post not found", nil)
			return
		}
		httpx.WriteStoreError(w, log, "blog public get", err)
		return
	}

	log.Info("blog public get: ok", slog.String("slug", slug), slog.Int64("views", post.Views))
	transport.WriteData(w, http.StatusOK, post)
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	posts, err := h.service.ListAll(ctx, auth.PrincipalFromContext(r.Context()))
	if err != nil {
		if httpx.WriteServiceError(w, log, "admin blog list", err) {
			return
		}
		httpx.WriteStoreError(w, log, "admin blog list", err)
		return
	}

	log.Info("admin blog list: ok", slog.Int("count", len(posts)))
	transport.WriteList(w, posts, len(posts), nil)
}

func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)

	var req CreateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin blog create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	post, err := h.service.Create(ctx, auth.PrincipalFromContext(r.Context()), req)
	if err != nil {
		h.writeMutationError(w, log, "admin blog create", err)
		return
	}

	log.Info("admin blog create: ok", slog.String("post_id", post.ID), slog.String("slug", post.Slug))
	transport.WriteData(w, http.StatusCreated, post)
}

func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var req UpdateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin blog update: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	post, err := h.service.Update(ctx, auth.PrincipalFromContext(r.Context()), id, req)
	if err != nil {
		h.writeMutationError(w, log, "admin blog update", err)
		return
	}

	log.Info("admin blog update: ok", slog.String("post_id", post.ID), slog.String("slug", post.Slug))
	transport.WriteData(w, http.StatusOK, post)
}

func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, auth.PrincipalFromContext(r.Context()), id); err != nil {
		h.writeMutationError(w, log, "admin blog delete", err)
		return
	}

	log.Info("admin blog delete: ok", slog.String("post_id", id))
	transport.WriteMessage(w, http.StatusOK, "Blog post deleted successfully", nil)
}

func (h *Handler) writeMutationError(w http.ResponseWriter, log *slog.Logger, area string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		log.Warn(area + ": not found")
		transport.WriteError(w, http.StatusNotFound, "Blog post not found", nil)
	case errors.Is(err, ErrDuplicateSlug):
		log.Warn(area + ": slug exists")
		transport.WriteError(w, http.StatusBadRequest, ErrDuplicateSlug.Error(), validation.Field("slug", "already exists"))
	default:
		if httpx.WriteServiceError(w, log, area, err) {
			return
		}
		httpx.WriteStoreError(w, log, area, err)
	}
}
