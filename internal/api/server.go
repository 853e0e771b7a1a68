// Package api provides the HTTP API server and handlers for the Shiori application.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/shioriapp/shiori-server/internal/http/response"
	"github.com/shioriapp/shiori-server/internal/ratelimit"
	"github.com/shioriapp/shiori-server/internal/sse"
	"github.com/shioriapp/shiori-server/internal/store"
)

// Options configures the HTTP surface.
type Options struct {
	Name               string
	Version            string
	CORSOrigins        []string
	AuthRateLimitRPS   float64
	AuthRateLimitBurst int
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store      store.Store
	services   *Services
	infra      *Infra
	router     *chi.Mux
	api        huma.API
	logger     *slog.Logger
	sseHandler http.Handler
	sseManager *sse.Manager

	authRateLimiter *ratelimit.KeyedRateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	st store.Store,
	services *Services,
	infra *Infra,
	sseHandler http.Handler,
	sseManager *sse.Manager,
	opts Options,
	logger *slog.Logger,
) *Server {
	if opts.Name == "" {
		opts.Name = "Shiori API"
	}
	if opts.Version == "" {
		opts.Version = "1.0.0"
	}
	if opts.AuthRateLimitRPS <= 0 {
		opts.AuthRateLimitRPS = 0.5
	}
	if opts.AuthRateLimitBurst <= 0 {
		opts.AuthRateLimitBurst = 10
	}
	if infra == nil {
		infra = &Infra{}
	}

	s := &Server{
		store:           st,
		services:        services,
		infra:           infra,
		router:          chi.NewRouter(),
		logger:          logger,
		sseHandler:      sseHandler,
		sseManager:      sseManager,
		authRateLimiter: ratelimit.New(opts.AuthRateLimitRPS, opts.AuthRateLimitBurst),
	}

	s.setupMiddleware(opts.CORSOrigins)

	humaConfig := huma.DefaultConfig(opts.Name, opts.Version)
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for OpenAPI generation.
func (s *Server) API() huma.API {
	return s.api
}

// Close releases background resources owned by the server.
func (s *Server) Close() {
	s.authRateLimiter.Stop()
}

func (s *Server) setupMiddleware(origins []string) {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	s.router.Use(clientInfoMiddleware)
	s.router.Use(authMiddleware(s.services.Auth))

	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "route not found", s.logger)
	})
}

func (s *Server) registerRoutes() {
	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerAestheticRoutes()
	s.registerExploreRoutes()
	s.registerLikeRoutes()
	s.registerBoardRoutes()
	s.registerProfileRoutes()
	s.registerStreamRoutes()
	s.registerCoverRoutes()
}

// requestLogger logs one line per request through the application logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The stream stays open for minutes and needs the raw writer for flushing.
		if r.URL.Path == streamPath {
			next.ServeHTTP(w, r)
			return
		}

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
