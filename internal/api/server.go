// Package api provides the HTTP API server and handlers for the Linkstash application.
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

	"github.com/linkstashapp/linkstash-server/internal/config"
	"github.com/linkstashapp/linkstash-server/internal/ratelimit"
	"github.com/linkstashapp/linkstash-server/internal/service"
	"github.com/linkstashapp/linkstash-server/internal/validation"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth      *service.AuthService
	Bookmarks *service.BookmarkService
	Labels    *service.LabelService
	Lists     *service.ListService
	Transfer  *service.TransferService
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services        *Services
	router          *chi.Mux
	api             huma.API
	validate        *validation.Validator
	logger          *slog.Logger
	authLimiter     *ratelimit.KeyedRateLimiter
	sessionDuration time.Duration
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(cfg *config.Config, services *Services, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	humaConfig := huma.DefaultConfig("Linkstash API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"session": {
			Type: "apiKey",
			In:   "cookie",
			Name: sessionCookieName,
		},
	}

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		services:        services,
		router:          router,
		api:             api,
		validate:        validation.New(),
		logger:          logger,
		authLimiter:     ratelimit.PerInterval(20, time.Minute, 10),
		sessionDuration: cfg.Auth.SessionDuration,
	}

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerBookmarkRoutes()
	s.registerLabelRoutes()
	s.registerListRoutes()
	s.registerTransferRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
