package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/osse101/zombie-showcase-server/internal/domain"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// respondError maps domain errors onto their fixed HTTP statuses and
// messages. Anything unrecognized is a 500 with a generic body.
func respondError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrZombieNotFound),
		errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrZombieItemNotFound),
		errors.Is(err, domain.ErrRateNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrTooManyItems):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Error("Request failed", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
