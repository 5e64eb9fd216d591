// Package api exposes the catalog over HTTP. Request/response handlers are
// registered with huma on top of a chi router; every handler resolves the
// caller's auth context and delegates to the resolver engine, so this layer
// stays transport-only.
package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/openshelf/openshelf-server/internal/broker"
	"github.com/openshelf/openshelf-server/internal/config"
	"github.com/openshelf/openshelf-server/internal/ratelimit"
	"github.com/openshelf/openshelf-server/internal/resolver"
	"github.com/openshelf/openshelf-server/internal/sse"
	"github.com/openshelf/openshelf-server/internal/store"
)

// Server wires the HTTP surface to the resolver engine and the event broker.
type Server struct {
	config           *config.Config
	store            *store.Store
	engine           *resolver.Engine
	contextResolver  *resolver.ContextResolver
	broker           *broker.Broker
	sseHandler       *sse.Handler
	router           *chi.Mux
	api              huma.API
	logger           *slog.Logger
	loginRateLimiter *ratelimit.KeyedRateLimiter
}

// NewServer builds the HTTP server and registers every operation of the
// catalog. The broker is the same instance the engine publishes to, so
// subscription routes see exactly the events mutations emit.
func NewServer(
	cfg *config.Config,
	st *store.Store,
	engine *resolver.Engine,
	contextResolver *resolver.ContextResolver,
	b *broker.Broker,
	logger *slog.Logger,
) *Server {
	loginLimiter := ratelimit.New(1, 5)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(loginRateLimit(loginLimiter, logger))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	humaConfig := huma.DefaultConfig("OpenShelf API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		config:           cfg,
		store:            st,
		engine:           engine,
		contextResolver:  contextResolver,
		broker:           b,
		sseHandler:       sse.NewHandler(b, logger),
		router:           router,
		api:              api,
		logger:           logger,
		loginRateLimiter: loginLimiter,
	}

	s.registerRoutes()
	return s
}

// registerRoutes walks the closed operation table and mounts a route per
// entry. Panicking on an unhandled name keeps the table and the HTTP surface
// from drifting apart.
func (s *Server) registerRoutes() {
	for _, op := range resolver.Operations() {
		switch op.Name {
		case resolver.OpBookCount:
			s.registerBookCount()
		case resolver.OpAuthorCount:
			s.registerAuthorCount()
		case resolver.OpAllBooks:
			s.registerAllBooks()
		case resolver.OpAllGenres:
			s.registerAllGenres()
		case resolver.OpAllAuthors:
			s.registerAllAuthors()
		case resolver.OpFindAuthor:
			s.registerFindAuthor()
		case resolver.OpMe:
			s.registerMe()
		case resolver.OpRecommendedBooks:
			s.registerRecommendedBooks()
		case resolver.OpAddAuthor:
			s.registerAddAuthor()
		case resolver.OpAddBook:
			s.registerAddBook()
		case resolver.OpEditAuthor:
			s.registerEditAuthor()
		case resolver.OpCreateUser:
			s.registerCreateUser()
		case resolver.OpLogin:
			s.registerLogin()
		case resolver.OpBookAdded:
			s.router.Get("/api/v1/subscriptions/books", s.handleBookStream)
		case resolver.OpAuthorAdded:
			s.router.Get("/api/v1/subscriptions/authors", s.handleAuthorStream)
		default:
			panic(fmt.Sprintf("operation %q has no route", op.Name))
		}
	}

	s.registerHealth()
}

// ServeHTTP makes the server usable as a handler for http.Server and tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Shutdown releases server-owned background resources. The store and broker
// are owned by the container and shut down there.
func (s *Server) Shutdown() {
	s.loginRateLimiter.Stop()
}

// HTTPServer returns a configured http.Server front for this handler.
// WriteTimeout intentionally follows config and defaults to zero so SSE
// streams are not cut off.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.router,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}
}
