package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/agentledger/internal/adapter/http/handler"
	"github.com/iho/agentledger/internal/adapter/http/middleware"
	"github.com/iho/agentledger/internal/infrastructure/metrics"
	"github.com/iho/agentledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler         *handler.AccountHandler
	JournalHandler         *handler.JournalHandler
	TransferPostingHandler *handler.TransferPostingHandler
	ReportHandler          *handler.ReportHandler
	CommissionHandler      *handler.CommissionHandler
	RevaluationHandler     *handler.RevaluationHandler
	StatementHandler       *handler.StatementHandler
	HealthHandler          *handler.HealthHandler

	Logger zerolog.Logger
	// Metrics and Gatherer are optional; /metrics is mounted only with a Gatherer.
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	RateLimiter      *middleware.RateLimiter
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			var replays prometheus.Counter
			if cfg.Metrics != nil {
				replays = cfg.Metrics.IdempotentReplays
			}
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, replays, cfg.Logger)
			r.Use(idempotencyMiddleware.Wrap)
		}

		r.Route("/accounting", func(r chi.Router) {
			r.Route("/accounts", func(r chi.Router) {
				r.Post("/", cfg.AccountHandler.Create)
				r.Get("/", cfg.AccountHandler.List)
				r.Get("/tree", cfg.AccountHandler.Tree)
				r.Get("/{code}", cfg.AccountHandler.Get)
				r.Delete("/{code}", cfg.AccountHandler.Delete)
				r.Get("/{code}/balance", cfg.AccountHandler.Balance)
			})

			r.Route("/journal-entries", func(r chi.Router) {
				r.Post("/", cfg.JournalHandler.Post)
				r.Get("/", cfg.JournalHandler.List)
				r.Get("/{id}", cfg.JournalHandler.Get)
				r.Delete("/{id}", cfg.JournalHandler.Cancel)
			})

			r.Post("/transfer-postings", cfg.TransferPostingHandler.Create)

			r.Get("/reports/trial-balance", cfg.ReportHandler.TrialBalance)
			r.Get("/ledger/{code}", cfg.ReportHandler.Ledger)
			r.Get("/consistency", cfg.ReportHandler.Consistency)
		})

		r.Route("/commission", func(r chi.Router) {
			r.Post("/bulletins", cfg.CommissionHandler.ReplaceBulletin)
			r.Get("/bulletins/latest", cfg.CommissionHandler.Latest)
			r.Get("/calculate-preview", cfg.CommissionHandler.Preview)
		})

		r.Route("/currency-revaluation", func(r chi.Router) {
			r.Post("/", cfg.RevaluationHandler.Create)
			r.Get("/", cfg.RevaluationHandler.List)
		})

		r.Get("/agents/{id}/statement", cfg.StatementHandler.Get)
	})

	return r
}
