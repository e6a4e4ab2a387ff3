package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/atinyakov/LangHelper/internal/ai"
	"github.com/atinyakov/LangHelper/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps domain errors to HTTP status codes. Anything unknown is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrEmptyWord),
		errors.Is(err, models.ErrEmptyUsername),
		errors.Is(err, models.ErrEmptyPassword),
		errors.Is(err, models.ErrLongPassword),
		errors.Is(err, models.ErrMissingUser),
		errors.Is(err, models.ErrEmptyText):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNoStarred):
		return http.StatusConflict
	case errors.Is(err, ai.ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the error text for client errors and a generic
// message for server-side failures.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	http.Error(w, msg, status)
}

// Healthz answers liveness probes.
func Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
