// Package api provides the HTTP API server and handlers for the MovieKeep application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/moviekeep/moviekeep-server/internal/http/response"
	"github.com/moviekeep/moviekeep-server/internal/ratelimit"
	"github.com/moviekeep/moviekeep-server/internal/service"
	"github.com/moviekeep/moviekeep-server/internal/validation"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	userService  *service.UserService
	movieService *service.MovieService
	validator    *validation.Validator
	limiter      *ratelimit.KeyedRateLimiter
	router       *chi.Mux
	logger       *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
// limiter may be nil to disable per-client rate limiting.
func NewServer(userService *service.UserService, movieService *service.MovieService, limiter *ratelimit.KeyedRateLimiter, logger *slog.Logger) *Server {
	s := &Server{
		userService:  userService,
		movieService: movieService,
		validator:    validation.New(),
		limiter:      limiter,
		router:       chi.NewRouter(),
		logger:       logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	if s.limiter != nil {
		s.router.Use(RateLimitMiddleware(s.limiter, s.logger))
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Get("/", s.handleListUsers)
			r.Post("/", s.handleAddUser)
			r.Get("/{userID}", s.handleGetUser)
			r.Delete("/{userID}", s.handleDeleteUser)

			r.Route("/{userID}/movies", func(r chi.Router) {
				r.Get("/", s.handleListMovies)
				r.Post("/", s.handleAddMovie)
				r.Get("/{movieID}", s.handleGetMovie)
				r.Patch("/{movieID}", s.handleUpdateMovie)
				r.Delete("/{movieID}", s.handleDeleteMovie)
			})
		})
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}
