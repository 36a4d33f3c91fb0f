package audit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAppender struct {
	mu     sync.Mutex
	events []*Event
	err    error
}

func (a *recordingAppender) Append(_ context.Context, event *Event) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, event)
	return a.err
}

func statusHandler(code int, location string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if location != "" {
			w.Header().Set("Location", location)
		}
		w.WriteHeader(code)
	})
}

func TestMiddleware_CreateRecordsEvent(t *testing.T) {
	app := &recordingAppender{}
	handler := middleware.RequestID(Middleware(app, nil)(statusHandler(http.StatusCreated, "/api/v1/assets/42")))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assets", nil)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, app.events, 1)
	e := app.events[0]
	assert.NotEmpty(t, e.ID)
	assert.NotEmpty(t, e.RequestID)
	assert.Equal(t, "create", e.Action)
	assert.Equal(t, "assets", e.ResourceType)
	assert.Equal(t, "42", e.ResourceID)
	assert.Equal(t, OutcomeSuccess, e.Outcome)
	assert.Equal(t, http.StatusCreated, e.StatusCode)
	assert.Equal(t, "application/json", e.Metadata["contentType"])
}

func TestMiddleware_FailureOutcome(t *testing.T) {
	app := &recordingAppender{}
	handler := Middleware(app, nil)(statusHandler(http.StatusNotFound, ""))

	req := httptest.NewRequest(http.MethodPut, "/api/v1/assets/9", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.Len(t, app.events, 1)
	assert.Equal(t, "update", app.events[0].Action)
	assert.Equal(t, "9", app.events[0].ResourceID)
	assert.Equal(t, OutcomeFailure, app.events[0].Outcome)
}

func TestMiddleware_ReadsAndHealthSkipped(t *testing.T) {
	app := &recordingAppender{}
	handler := Middleware(app, nil)(statusHandler(http.StatusOK, ""))

	for _, r := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/v1/assets", nil),
		httptest.NewRequest(http.MethodGet, "/api/v1/assets/1", nil),
		httptest.NewRequest(http.MethodGet, "/healthz", nil),
		httptest.NewRequest(http.MethodGet, "/readyz", nil),
	} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Empty(t, app.events)
}

func TestMiddleware_NilStorePassesThrough(t *testing.T) {
	handler := Middleware(nil, nil)(statusHandler(http.StatusNoContent, ""))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/assets/1", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestMiddleware_AppendFailureDoesNotFailRequest(t *testing.T) {
	app := &recordingAppender{err: errors.New("database is locked")}
	handler := Middleware(app, nil)(statusHandler(http.StatusNoContent, ""))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/assets/1", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Len(t, app.events, 1)
}

func TestResponseCapture_StatusCode(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
	}{
		{"200 OK", http.StatusOK},
		{"400 Bad Request", http.StatusBadRequest},
		{"500 Internal Error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			capture := &responseCapture{ResponseWriter: rec, statusCode: http.StatusOK}

			capture.WriteHeader(tt.statusCode)
			capture.WriteHeader(http.StatusTeapot)

			if capture.statusCode != tt.statusCode {
				t.Errorf("expected captured status %d, got %d", tt.statusCode, capture.statusCode)
			}
		})
	}
}

func TestResponseCapture_WriteImpliesOK(t *testing.T) {
	rec := httptest.NewRecorder()
	capture := &responseCapture{ResponseWriter: rec}

	_, err := capture.Write([]byte("ok"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, capture.statusCode)
}
