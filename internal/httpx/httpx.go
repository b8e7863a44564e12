package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/db"
	"portfolio-backend/internal/transport"
	"portfolio-backend/internal/validation"
)

const maxBodyBytes = 1 << 20

func DecodeJSON(body io.Reader, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain a single JSON object")
	}
	return nil
}

// ParsePage reads page/limit query parameters (1-based page). page is capped
// so that (page-1)*limit always fits in an int64 skip.
func ParsePage(values url.Values, defaultLimit, maxLimit int64) (int64, int64, error) {
	page := int64(1)
	limit := defaultLimit

	rawPage := strings.TrimSpace(values.Get("page"))
	if rawPage != "" {
		parsed, err := strconv.ParseInt(rawPage, 10, 64)
		if err != nil || parsed <= 0 || (maxLimit > 0 && parsed > math.MaxInt64/maxLimit) {
			return 0, 0, errors.New("invalid page")
		}
		page = parsed
	}

	rawLimit := strings.TrimSpace(values.Get("limit"))
	if rawLimit != "" {
		parsed, err := strconv.ParseInt(rawLimit, 10, 64)
		if err != nil || parsed <= 0 {
			return 0, 0, errors.New("invalid limit")
		}
		limit = parsed
	}

	if limit > maxLimit {
		limit = maxLimit
	}

	return page, limit, nil
}

// Pages is ceil(total/limit).
func Pages(total, limit int64) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// WriteServiceError maps the errors shared by every resource service
// (authorization, validation, store) onto the response envelope. It reports
// false when err is none of those so the caller can handle it.
func WriteServiceError(w http.ResponseWriter, log *slog.Logger, area string, err error) bool {
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		log.Warn(area + ": unauthenticated")
		transport.WriteError(w, http.StatusUnauthorized, "not authorized to access this route", nil)
	case errors.Is(err, auth.ErrForbidden):
		log.Warn(area + ": forbidden")
		transport.WriteError(w, http.StatusForbidden, "user role is not authorized to access this route", nil)
	default:
		if errs, ok := validation.AsErrors(err); ok {
			log.Warn(area+": validation error", slog.String("error", errs.Error()))
			transport.WriteError(w, http.StatusBadRequest, "validation error", errs)
			return true
		}
		return false
	}
	return true
}

// WriteStoreError answers an unexpected failure without leaking its detail.
func WriteStoreError(w http.ResponseWriter, log *slog.Logger, area string, err error) {
	if errors.Is(err, db.ErrUnavailable) {
		log.Error(area+": store unavailable", slog.String("error", err.Error()))
	} else {
		log.Error(area+": database error", slog.String("error", err.Error()))
	}
	transport.WriteError(w, http.StatusInternalServerError, "server error", nil)
}
