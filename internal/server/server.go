// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"resonance/internal/config"
	"resonance/internal/domain/audience"
	"resonance/internal/domain/resonance"
	"resonance/internal/logger"
	"resonance/internal/server/handlers"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new HTTP server
func NewServer(
	cfg config.ServerConfig,
	engine resonance.Engine,
	segments audience.Store,
	workflows handlers.Workflows,
	log *logger.Logger,
) *Server {
	router := chi.NewRouter()
	log = log.With("service", "http")

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Location"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Create handler dependencies
	analysisHandler := handlers.NewAnalysisHandler(engine, segments, log)
	workflowHandler := handlers.NewWorkflowHandler(workflows, log)

	// Routes
	router.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		// API version
		r.Route("/v1", func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			// Analyses API
			r.Route("/analyses", func(r chi.Router) {
				r.Post("/", analysisHandler.Analyze)
				r.Post("/lookup", analysisHandler.Lookup)
			})

			// Workflows API
			r.Route("/workflows", func(r chi.Router) {
				r.Post("/", workflowHandler.StartWorkflow)
				r.Get("/{id}", workflowHandler.GetWorkflow)
				r.Get("/{id}/summary", workflowHandler.GetSummary)
				r.Get("/{id}/results", workflowHandler.GetResults)
				r.Get("/{id}/recommendations", workflowHandler.GetRecommendations)
				r.Get("/{id}/abtest", workflowHandler.GetABTest)
			})
		})
	})

	// WebSocket endpoint for workflow progress
	router.Get("/ws/workflows/{id}", handlers.WorkflowWebSocketHandler(workflows, log))

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// Handler returns the router, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
