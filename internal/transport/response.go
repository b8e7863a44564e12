package transport

import (
	"encoding/json"
	"net/http"

	"portfolio-backend/internal/validation"
)

// Envelope is the shape of every API response.
type Envelope struct {
	Success bool                    `json:"success"`
	Data    interface{}             `json:"data,omitempty"`
	Message string                  `json:"message,omitempty"`
	Errors  []validation.FieldError `json:"errors,omitempty"`
	Count   *int                    `json:"count,omitempty"`
	Total   *int64                  `json:"total,omitempty"`
	Page    *int64                  `json:"page,omitempty"`
	Pages   *int64                  `json:"pages,omitempty"`
}

// Page carries list metadata for paginated responses.
type Page struct {
	Total int64
	Page  int64
	Pages int64
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteData(w http.ResponseWriter, status int, data interface{}) {
	WriteJSON(w, status, Envelope{Success: true, Data: data})
}

func WriteMessage(w http.ResponseWriter, status int, message string, data interface{}) {
	WriteJSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

// WriteList writes a counted list; page may be nil for unpaginated lists.
func WriteList(w http.ResponseWriter, data interface{}, count int, page *Page) {
	env := Envelope{Success: true, Data: data, Count: &count}
	if page != nil {
		env.Total = &page.Total
		env.Page = &page.Page
		env.Pages = &page.Pages
	}
	WriteJSON(w, http.StatusOK, env)
}

func WriteError(w http.ResponseWriter, status int, message string, errs []validation.FieldError) {
	WriteJSON(w, status, Envelope{
		Success: false,
		Message: message,
		Errors:  errs,
	})
}
