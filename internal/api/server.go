// Package api provides the HTTP API server and handlers for pressroom.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/listenupapp/pressroom/internal/logger"
	"github.com/listenupapp/pressroom/internal/ratelimit"
	"github.com/listenupapp/pressroom/internal/sse"
	"github.com/listenupapp/pressroom/internal/store"
)

// Options configures the HTTP surface.
type Options struct {
	CORSAllowedOrigins []string
	PostsPerPage       int // default page size for public lists
	PublicRateLimit    int // requests per minute per IP
	AuthRateLimit      int // session exchanges per minute per IP
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store      store.Store
	services   *Services
	sseManager *sse.Manager
	router     *chi.Mux
	api        huma.API
	logger     *slog.Logger
	opts       Options

	publicLimiter *ratelimit.KeyedRateLimiter
	authLimiter   *ratelimit.KeyedRateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st store.Store, services *Services, sseManager *sse.Manager, opts Options, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	if opts.PublicRateLimit <= 0 {
		opts.PublicRateLimit = 120
	}
	if opts.AuthRateLimit <= 0 {
		opts.AuthRateLimit = 10
	}

	s := &Server{
		store:         st,
		services:      services,
		sseManager:    sseManager,
		router:        chi.NewRouter(),
		logger:        log,
		opts:          opts,
		publicLimiter: ratelimit.PerMinute(opts.PublicRateLimit),
		authLimiter:   ratelimit.PerMinute(opts.AuthRateLimit),
	}

	s.setupMiddleware()
	s.setupAPI()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API returns the huma API, mainly for OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	s.publicLimiter.Stop()
	s.authLimiter.Stop()
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(logger.RequestLogger(s.logger))
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5, "application/json", "application/xml", "text/plain"))

	origins := s.opts.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s.router.Use(s.rateLimit)
}

// NewHumaConfig returns the huma configuration shared by the server and tests.
func NewHumaConfig() huma.Config {
	cfg := huma.DefaultConfig("Pressroom API", "1.0.0")
	cfg.Info.Description = "Publishing workflow and public read API for the blog."
	cfg.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	cfg.Transformers = append(cfg.Transformers, EnvelopeTransformer)
	return cfg
}

func (s *Server) setupAPI() {
	RegisterErrorHandler()
	s.api = humachi.New(s.router, NewHumaConfig())
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerUserRoutes()
	s.registerPostRoutes()
	s.registerAdminPostRoutes()
	s.registerCategoryRoutes()
	s.registerTagRoutes()
	s.registerSearchRoutes()

	// XML, text and event-stream routes bypass huma and its envelope.
	s.router.Get("/feed.xml", s.handleRSS)
	s.router.Get("/rss", s.handleRSS)
	s.router.Get("/sitemap.xml", s.handleSitemap)
	s.router.Get("/robots.txt", s.handleRobots)
	if s.sseManager != nil {
		s.router.Get("/api/v1/events", sse.NewHandler(s.sseManager, s.logger).ServeHTTP)
	}
}

// pageLimit applies the configured default page size.
func (s *Server) pageLimit(limit int) int {
	if limit <= 0 && s.opts.PostsPerPage > 0 {
		return s.opts.PostsPerPage
	}
	return limit
}
