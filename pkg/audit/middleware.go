package audit

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Appender persists audit events.
type Appender interface {
	Append(ctx context.Context, event *Event) error
}

// responseCapture wraps http.ResponseWriter to capture the status code.
type responseCapture struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rc *responseCapture) WriteHeader(code int) {
	if !rc.written {
		rc.statusCode = code
		rc.written = true
	}
	rc.ResponseWriter.WriteHeader(code)
}

func (rc *responseCapture) Write(b []byte) (int, error) {
	if !rc.written {
		rc.statusCode = http.StatusOK
		rc.written = true
	}
	return rc.ResponseWriter.Write(b)
}

// Middleware records an Event after every mutating API request. Writes are
// best-effort: a failed append is logged and the response is unaffected.
// A nil store disables auditing.
func Middleware(store Appender, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if store == nil || !isAuditedRequest(r.Method, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			capture := &responseCapture{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(capture, r)

			requestID := middleware.GetReqID(r.Context())
			event := &Event{
				ID:           uuid.New().String(),
				RequestID:    requestID,
				Method:       r.Method,
				Path:         r.URL.Path,
				ResourceType: extractResourceType(r.URL.Path),
				ResourceID:   extractResourceID(r.URL.Path, capture.Header()),
				Action:       extractActionVerb(r.Method, r.URL.Path),
				Outcome:      outcomeFromStatus(capture.statusCode),
				StatusCode:   capture.statusCode,
				DurationMs:   time.Since(start).Milliseconds(),
				CreatedAt:    start.UTC(),
				Metadata: datatypes.JSONMap{
					"remoteAddr":  r.RemoteAddr,
					"userAgent":   r.UserAgent(),
					"contentType": r.Header.Get("Content-Type"),
				},
			}

			// The request context may already be cancelled by the time the
			// handler returns.
			if err := store.Append(context.WithoutCancel(r.Context()), event); err != nil {
				logger.Error("failed to write audit event", "error", err, "requestID", requestID)
			}
		})
	}
}
