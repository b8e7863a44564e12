package health

import (
	"net/http"
	"time"

	"portfolio-backend/internal/transport"
)

type response struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Handler reports liveness. now defaults to time.Now.
func Handler(now func() time.Time) http.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		transport.WriteJSON(w, http.StatusOK, response{
			Success:   true,
			Message:   "Server is running",
			Timestamp: now().UTC(),
		})
	}
}
