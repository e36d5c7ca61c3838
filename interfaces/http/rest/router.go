package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"backend2/application/commands/bus"
	querybus "backend2/application/queries/bus"
	"backend2/infrastructure/config"
	"backend2/interfaces/http/rest/handlers"
	"backend2/interfaces/http/rest/middleware"
	"backend2/pkg/auth"
)

// Router builds the chi router exposing every spec §4.7 operation under
// /v1/memory/*, adapted from the teacher's rest/router.go (global
// middleware stack, CORS, health checks) but with the node/graph/edge
// route tree replaced by the single memory route tree.
type Router struct {
	commandBus  *bus.CommandBus
	queryBus    *querybus.QueryBus
	rateLimiter auth.RateLimiter
	cfg         *config.Config
	logger      *zap.Logger
}

// NewRouter creates a new router instance.
func NewRouter(commandBus *bus.CommandBus, queryBus *querybus.QueryBus, rateLimiter auth.RateLimiter, cfg *config.Config, logger *zap.Logger) *Router {
	return &Router{commandBus: commandBus, queryBus: queryBus, rateLimiter: rateLimiter, cfg: cfg, logger: logger}
}

// Setup configures all routes and middleware.
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	router.Route("/v1/memory", func(r chi.Router) {
		r.Use(middleware.RateLimit(rt.rateLimiter))
		r.Use(middleware.Authenticate(rt.cfg))

		memoryHandler := handlers.NewMemoryHandler(rt.commandBus, rt.queryBus, rt.logger)

		r.Post("/remember", memoryHandler.Remember)
		r.Post("/associate", memoryHandler.Associate)
		r.Post("/feedback", memoryHandler.Feedback)
		r.Post("/decay", memoryHandler.Decay)
		r.Post("/consolidate", memoryHandler.Consolidate)
		r.Post("/refresh", memoryHandler.Refresh)
		r.Get("/recall", memoryHandler.Recall)
		r.Get("/status", memoryHandler.Status)
		r.Get("/describe", memoryHandler.Describe)
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
