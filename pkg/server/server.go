// Package server exposes the asset catalog over HTTP.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"gorm.io/gorm"

	"github.com/excelra/asset-scout/pkg/asset"
	"github.com/excelra/asset-scout/pkg/audit"
	"github.com/excelra/asset-scout/pkg/database"
)

// BasePath is the prefix of every API route.
const BasePath = "/api/v1"

// Server wires the asset service, the audit log and the operational
// endpoints into one chi router.
type Server struct {
	service     *asset.Service
	db          *gorm.DB
	auditStore  *audit.Store
	metrics     *Metrics
	corsOrigins []string
	logger      *slog.Logger
	startedAt   time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithDB sets the database checked by /readyz.
func WithDB(db *gorm.DB) Option {
	return func(s *Server) { s.db = db }
}

// WithAuditStore enables the audit middleware and the audit API.
func WithAuditStore(store *audit.Store) Option {
	return func(s *Server) { s.auditStore = store }
}

// WithMetrics enables request metrics and the /metrics endpoint.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithCORSOrigins sets the allowed CORS origins.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) { s.corsOrigins = origins }
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a new Server.
func New(service *asset.Service, opts ...Option) *Server {
	s := &Server{
		service:     service,
		corsOrigins: []string{"*"},
		logger:      slog.Default(),
		startedAt:   time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the HTTP handler.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route(BasePath, func(r chi.Router) {
		if s.auditStore != nil {
			r.Use(audit.Middleware(s.auditStore, s.logger))
			r.Mount("/audit", audit.Router(s.auditStore, s.logger))
		}

		r.Route("/assets", func(r chi.Router) {
			r.Get("/", s.listAssets)
			r.Post("/", s.createAsset)
			r.Get("/{id}", s.getAsset)
			r.Put("/{id}", s.updateAsset)
			r.Delete("/{id}", s.deleteAsset)
		})
		r.Get("/vocabulary", s.getVocabulary)
		r.Post("/seed", s.seed)
	})

	r.Get("/healthz", s.healthHandler)
	r.Get("/livez", s.healthHandler)
	r.Get("/readyz", s.readyHandler)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	return r
}

func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "alive",
		"uptime": time.Since(s.startedAt).Round(time.Second).String(),
	})
}

// readyHandler reports whether the database answers.
func (s *Server) readyHandler(w http.ResponseWriter, r *http.Request) {
	dbStatus := map[string]string{"status": "up"}
	ready := true
	if s.db == nil {
		dbStatus["status"] = "not_configured"
	} else if err := database.Ping(r.Context(), s.db); err != nil {
		dbStatus["status"] = "down"
		dbStatus["error"] = err.Error()
		ready = false
	}

	status, code := "ready", http.StatusOK
	if !ready {
		status, code = "not_ready", http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{
		"status":   status,
		"database": dbStatus,
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
