// Package server provides the HTTP server and routing for Hermes.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/hermes/internal/database"
	"github.com/aristath/hermes/internal/domain"
	"github.com/aristath/hermes/internal/events"
	ledgerhandlers "github.com/aristath/hermes/internal/modules/ledger/handlers"
	marketdatahandlers "github.com/aristath/hermes/internal/modules/marketdata/handlers"
	"github.com/aristath/hermes/internal/modules/simulation"
	simulationhandlers "github.com/aristath/hermes/internal/modules/simulation/handlers"
	"github.com/aristath/hermes/internal/scheduler"
)

// Config holds server configuration
type Config struct {
	Log           zerolog.Logger
	Port          int
	DevMode       bool
	Registry      *simulation.Registry
	EventBus      *events.Bus
	MarketData    domain.MarketDataProvider
	CacheDB       *database.DB            // optional, reported in system status
	RequestBudget scheduler.RequestBudget // optional, reported in system status
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	port           int
	systemHandlers *SystemHandlers
	eventsStream   *EventsStreamHandler
	simulation     *simulationhandlers.Handler
	ledger         *ledgerhandlers.Handler
	marketData     *marketdatahandlers.Handler
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:         chi.NewRouter(),
		log:            cfg.Log.With().Str("component", "server").Logger(),
		port:           cfg.Port,
		systemHandlers: NewSystemHandlers(cfg.Log, cfg.Registry, cfg.CacheDB, cfg.RequestBudget),
		eventsStream:   NewEventsStreamHandler(cfg.EventBus, cfg.Log),
		simulation:     simulationhandlers.NewHandler(cfg.Registry, cfg.EventBus, cfg.Log),
		ledger:         ledgerhandlers.NewHandler(cfg.Registry, cfg.Log),
		marketData:     marketdatahandlers.NewHandler(cfg.MarketData, cfg.Log),
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     s.router,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: websocket and SSE streams are long-lived.
		// Regular requests are bounded by middleware.Timeout.
		IdleTimeout: 60 * time.Second,
	}

	return s
}

// SystemHandlers exposes the system handlers so jobs can be registered for manual triggering
func (s *Server) SystemHandlers() *SystemHandlers {
	return s.systemHandlers
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// Timeout
	s.router.Use(unlessStreaming(middleware.Timeout(60 * time.Second)))

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Compress responses
	if !devMode {
		s.router.Use(unlessStreaming(middleware.Compress(5)))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Event feed (SSE) across all sessions
		r.Get("/events/stream", s.eventsStream.ServeHTTP)

		// System
		r.Get("/system/status", s.systemHandlers.HandleSystemStatus)
		r.Get("/jobs", s.systemHandlers.HandleListJobs)
		r.Post("/jobs/{name}", s.systemHandlers.HandleTriggerJob)

		// Missions and sessions
		s.simulation.RegisterRoutes(r)
		s.ledger.RegisterRoutes(r)

		// Information mode
		s.marketData.RegisterRoutes(r)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// unlessStreaming applies mw to every request except stream endpoints,
// which hold the connection open and must not be buffered or timed out
func unlessStreaming(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		wrapped := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/stream") {
				next.ServeHTTP(w, r)
				return
			}
			wrapped.ServeHTTP(w, r)
		})
	}
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
