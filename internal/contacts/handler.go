package contacts

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

const createdMessage = "Thank you for your message! I will get back to you soon."

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

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)

	var req CreateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("contact create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	contact, err := h.service.Create(ctx, req)
	if err != nil {
		if httpx.WriteServiceError(w, log, "contact create", err) {
			return
		}
		httpx.WriteStoreError(w, log, "contact create", err)
		return
	}

	go func(created Contact) {
		notifyCtx, notifyCancel := context.WithTimeout(context.Background(), 8*time.Second)
		defer notifyCancel()
		if err := h.service.NotifyNewContact(notifyCtx, created); err != nil {
			h.log.Warn("contact create: notification failed",
				slog.String("contact_id", created.ID),
				slog.String("error", err.Error()),
			)
		}
	}(contact)

	log.Info("contact create: stored", slog.String("contact_id", contact.ID))
	transport.WriteMessage(w, http.StatusCreated, createdMessage, contact)
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	filter := ListFilter{Status: Status(r.URL.Query().Get("status"))}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, err := h.service.List(ctx, auth.PrincipalFromContext(r.Context()), filter)
	if err != nil {
		h.writeError(w, log, "admin contact list", err)
		return
	}

	log.Info("admin contact list: ok", slog.Int("count", len(items)))
	transport.WriteList(w, items, len(items), nil)
}

func (h *Handler) AdminGet(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	contact, err := h.service.GetForAdmin(ctx, auth.PrincipalFromContext(r.Context()), id)
	if err != nil {
		h.writeError(w, log, "admin contact get", err)
		return
	}

	transport.WriteData(w, http.StatusOK, contact)
}

func (h *Handler) AdminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var req StatusRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin contact status: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	contact, err := h.service.UpdateStatus(ctx, auth.PrincipalFromContext(r.Context()), id, req.Status)
	if err != nil {
		h.writeError(w, log, "admin contact status", err)
		return
	}

	log.Info("admin contact status: updated",
		slog.String("contact_id", contact.ID),
		slog.String("status", string(contact.Status)),
	)
	transport.WriteData(w, http.StatusOK, contact)
}

func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, auth.PrincipalFromContext(r.Context()), id); err != nil {
		h.writeError(w, log, "admin contact delete", err)
		return
	}

	log.Info("admin contact delete: ok", slog.String("contact_id", id))
	transport.WriteMessage(w, http.StatusOK, "Contact submission deleted successfully", nil)
}

func (h *Handler) writeError(w http.ResponseWriter, log *slog.Logger, area string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		log.Warn(area + ": not found")
		transport.WriteError(w, http.StatusNotFound, "Contact submission not found", nil)
	case errors.Is(err, ErrInvalidStatus):
		log.Warn(area + ": invalid status")
		transport.WriteError(w, http.StatusBadRequest, "validation error", validation.Field("status", "must be one of: new read replied"))
	default:
		if httpx.WriteServiceError(w, log, area, err) {
			return
		}
		httpx.WriteStoreError(w, log, area, err)
	}
}
