package server

import (
	"log/slog"
	"net/http"

	"sales-dashboard/internal/handlers"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/ui/templates"
)

type Server struct {
	mux          *http.ServeMux
	logger       *slog.Logger
	metrics      *observability.Metrics
	pageHandlers *handlers.PageHandlers
	apiHandlers  *handlers.APIHandlers
	sseHandlers  *handlers.SSEHandlers
}

func NewServer(dashboard handlers.DashboardBuilder, logger *slog.Logger, metrics *observability.Metrics, opts templates.Options) *Server {
	s := &Server{
		mux:          http.NewServeMux(),
		logger:       logger,
		metrics:      metrics,
		pageHandlers: handlers.NewPageHandlers(dashboard, logger, opts),
		apiHandlers:  handlers.NewAPIHandlers(dashboard, logger),
		sseHandlers:  handlers.NewSSEHandlers(dashboard, logger, opts),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Dashboard routes
	s.mux.HandleFunc("GET /{$}", s.pageHandlers.HandleDashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}

	// REST API endpoints
	s.mux.HandleFunc("GET /api/dashboard", s.apiHandlers.HandleDashboard)
	s.mux.HandleFunc("GET /api/regions", s.apiHandlers.HandleRegions)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/dashboard", s.sseHandlers.HandleDashboard)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
