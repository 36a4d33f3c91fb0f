package audit

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// ListEventsHandler handles GET /audit/events.
// Query params: action, outcome, resourceId, pageSize, pageToken.
func ListEventsHandler(store *Store, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := ListFilter{
			Action:     q.Get("action"),
			Outcome:    q.Get("outcome"),
			ResourceID: q.Get("resourceId"),
		}

		pageSize := defaultPageSize
		if ps := q.Get("pageSize"); ps != "" {
			v, err := strconv.Atoi(ps)
			if err != nil || v <= 0 {
				writeError(w, http.StatusBadRequest, "pageSize must be a positive integer")
				return
			}
			pageSize = v
		}

		events, next, total, err := store.List(r.Context(), filter, pageSize, q.Get("pageToken"))
		if errors.Is(err, ErrInvalidPageToken) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err != nil {
			logger.Error("failed to list audit events", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to list audit events")
			return
		}
		if events == nil {
			events = []Event{}
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"events":        events,
			"nextPageToken": next,
			"totalSize":     total,
		})
	}
}

// GetEventHandler handles GET /audit/events/{eventId}.
func GetEventHandler(store *Store, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID := chi.URLParam(r, "eventId")
		if eventID == "" {
			writeError(w, http.StatusBadRequest, "missing event ID")
			return
		}

		event, err := store.Get(r.Context(), eventID)
		if err != nil {
			logger.Error("failed to get audit event", "error", err, "eventID", eventID)
			writeError(w, http.StatusInternalServerError, "failed to get audit event")
			return
		}
		if event == nil {
			writeError(w, http.StatusNotFound, "audit event not found")
			return
		}

		writeJSON(w, http.StatusOK, event)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
