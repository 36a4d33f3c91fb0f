package audit

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
)

// Router creates a chi.Router for the audit API.
func Router(store *Store, logger *slog.Logger) chi.Router {
	if logger == nil {
		logger = slog.Default()
	}
	r := chi.NewRouter()
	r.Get("/events", ListEventsHandler(store, logger))
	r.Get("/events/{eventId}", GetEventHandler(store, logger))
	return r
}
