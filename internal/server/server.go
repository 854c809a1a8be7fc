// Package server provides the HTTP server and routing for Riskboard.
package server

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/riskboard/internal/database"
	"github.com/aristath/riskboard/internal/modules/analysis"
	analysishandlers "github.com/aristath/riskboard/internal/modules/analysis/handlers"
	"github.com/aristath/riskboard/internal/modules/charts"
	chartshandlers "github.com/aristath/riskboard/internal/modules/charts/handlers"
	"github.com/aristath/riskboard/internal/modules/financials"
	financialshandlers "github.com/aristath/riskboard/internal/modules/financials/handlers"
	"github.com/aristath/riskboard/internal/modules/quiz"
	quizhandlers "github.com/aristath/riskboard/internal/modules/quiz/handlers"
	"github.com/aristath/riskboard/internal/modules/risk"
	riskhandlers "github.com/aristath/riskboard/internal/modules/risk/handlers"
	"github.com/aristath/riskboard/web"
)

// Config holds server configuration
type Config struct {
	Log        zerolog.Logger
	DB         *database.DB
	Port       int
	DevMode    bool
	Risk       *risk.Service
	Analysis   *analysis.Service
	Charts     *charts.Service
	Financials *financials.Service
	Quiz       *quiz.Service
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	systemHandlers *SystemHandlers
	cfg            Config
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	// Register common MIME types to ensure correct Content-Type headers
	_ = mime.AddExtensionType(".js", "application/javascript")
	_ = mime.AddExtensionType(".css", "text/css")
	_ = mime.AddExtensionType(".svg", "image/svg+xml")

	s := &Server{
		router:         chi.NewRouter(),
		log:            cfg.Log.With().Str("component", "server").Logger(),
		systemHandlers: NewSystemHandlers(cfg.Log, cfg.DB),
		cfg:            cfg,
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
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
	s.router.Use(middleware.Timeout(60 * time.Second))

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
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// Health check (before SPA routing)
	s.router.Get("/health", s.systemHandlers.HandleHealth)

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		r.Route("/system", func(r chi.Router) {
			r.Get("/status", s.systemHandlers.HandleSystemStatus)
		})

		riskhandlers.NewHandler(s.cfg.Risk, s.log).RegisterRoutes(r)
		analysishandlers.NewHandler(s.cfg.Analysis, s.log).RegisterRoutes(r)
		chartshandlers.NewHandler(s.cfg.Charts, s.log).RegisterRoutes(r)
		financialshandlers.NewHandler(s.cfg.Financials, s.log).RegisterRoutes(r)
		quizhandlers.NewHandler(s.cfg.Quiz, s.log).RegisterRoutes(r)
	})

	s.setupStaticRoutes()
}

// setupStaticRoutes serves the embedded dashboard for the root and any
// path the API does not claim.
func (s *Server) setupStaticRoutes() {
	staticFS, err := fs.Sub(web.Files, "static")
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to create static filesystem from embedded files")
		return
	}

	fileServer := http.FileServer(http.FS(staticFS))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	s.router.Get("/", s.handleDashboard(staticFS))
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api") || strings.HasPrefix(r.URL.Path, "/health") {
			http.NotFound(w, r)
			return
		}
		s.handleDashboard(staticFS)(w, r)
	})
}

// handleDashboard serves the dashboard HTML from the embedded filesystem
func (s *Server) handleDashboard(staticFS fs.FS) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		indexFile, err := staticFS.Open("index.html")
		if err != nil {
			s.log.Error().Err(err).Msg("Failed to open embedded index.html")
			http.Error(w, "Dashboard not available", http.StatusInternalServerError)
			return
		}
		defer indexFile.Close()

		data, err := io.ReadAll(indexFile)
		if err != nil {
			s.log.Error().Err(err).Msg("Failed to read embedded index.html")
			http.Error(w, "Dashboard not available", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := w.Write(data); err != nil {
			s.log.Error().Err(err).Msg("Failed to write index.html response")
		}
	}
}

// Router exposes the route tree for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
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
