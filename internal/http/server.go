package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ledger/internal/core"
	applog "ledger/internal/log"
)

// Server exposes the ledger as a JSON API.
type Server struct {
	http.Server
	ledger      core.Ledger
	now         func() time.Time
	logger      *applog.Logger
	rateLimiter *mutationLimiter
	metrics     *securityMetrics

	shutdownOnce sync.Once
}

// Option configures a Server.
type Option func(*Server)

// WithClock overrides the clock used as the filter reference date.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithRateLimit sets how many mutating requests a client may make per minute.
func WithRateLimit(perMinute int) Option {
	return func(s *Server) { s.rateLimiter.limit = perMinute }
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, ledger core.Ledger, logger *applog.Logger, opts ...Option) *Server {
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		ledger:      ledger,
		now:         time.Now,
		logger:      logger.WithComponent(applog.ComponentHTTP),
		rateLimiter: newMutationLimiter(),
		metrics:     &securityMetrics{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(applog.Middleware(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(s.withSecurity)

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Get("/expenses", s.handleListExpenses)
		r.Post("/expenses", s.handleCreateExpense)
		r.Get("/expenses/{id}", s.handleGetExpense)
		r.Put("/expenses/{id}", s.handleUpdateExpense)
		r.Delete("/expenses/{id}", s.handleDeleteExpense)
		r.Get("/totals", s.handleTotals)
	})

	return r
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
