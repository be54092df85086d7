// Package api exposes the classifier and run history over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sells-group/vendor-spend/internal/classify"
	"github.com/sells-group/vendor-spend/internal/model"
	"github.com/sells-group/vendor-spend/internal/store"
)

// Classifier resolves a trimmed vendor name to a classification.
type Classifier interface {
	Classify(name string) classify.Match
}

// RunReader is the read side of the run history store.
type RunReader interface {
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter store.RunFilter) ([]model.Run, error)
	ListVendors(ctx context.Context, runID string) ([]model.RunVendor, error)
}

// Config tunes the HTTP surface.
type Config struct {
	// RateLimit is the sustained requests per second across all clients.
	// Zero disables limiting.
	RateLimit   float64
	Burst       int
	CORSOrigins []string
	// MaxNames caps the vendors accepted by one classify request.
	MaxNames int
}

// Dependencies are the services the handlers call. Runs may be nil, in which
// case the run history routes are not mounted.
type Dependencies struct {
	Classifier Classifier
	Rules      []classify.Rule
	Runs       RunReader
}

const defaultMaxNames = 1000

// NewRouter builds the chi router with middleware and routes.
func NewRouter(cfg Config, deps Dependencies) chi.Router {
	if cfg.MaxNames <= 0 {
		cfg.MaxNames = defaultMaxNames
	}
	h := &handler{deps: deps, maxNames: cfg.MaxNames}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/health", h.health)

	router.Route("/v1", func(r chi.Router) {
		if cfg.RateLimit > 0 {
			r.Use(RateLimit(cfg.RateLimit, cfg.Burst))
		}
		r.Post("/classify", h.classify)
		r.Get("/departments", h.departments)
		r.Get("/rules", h.rules)
		if deps.Runs != nil {
			r.Get("/runs", h.listRuns)
			r.Get("/runs/{runID}", h.getRun)
			r.Get("/runs/{runID}/vendors", h.listVendors)
		}
	})

	return router
}

// NewServer wraps the router in an http.Server listening on addr.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
