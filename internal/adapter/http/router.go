package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/bookkeeper/internal/adapter/http/handler"
	"github.com/iho/bookkeeper/internal/adapter/http/middleware"
	"github.com/iho/bookkeeper/internal/infrastructure/auth"
	"github.com/iho/bookkeeper/internal/infrastructure/metrics"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler     *handler.AccountHandler
	TransactionHandler *handler.TransactionHandler
	LedgerHandler      *handler.LedgerHandler
	AuditHandler       *handler.AuditHandler
	HealthHandler      *handler.HealthHandler
	Logger             zerolog.Logger
	Metrics            *metrics.Metrics
	JWTManager         *auth.JWTManager
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}
	r.Use(middleware.NewRecoveryMiddleware(cfg.Logger).Wrap)

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTManager != nil {
			r.Use(middleware.OptionalAuth(cfg.JWTManager))
		}

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{code}", cfg.AccountHandler.Get)
			r.Patch("/{code}", cfg.AccountHandler.Update)
			r.Delete("/{code}", cfg.AccountHandler.Delete)
			r.Post("/{code}/deactivate", cfg.AccountHandler.Deactivate)
			r.Get("/{code}/balance", cfg.AccountHandler.GetBalance)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", cfg.TransactionHandler.Create)
			r.Get("/", cfg.TransactionHandler.List)
			r.Get("/{reference}", cfg.TransactionHandler.Get)
			r.Put("/{reference}/entries", cfg.TransactionHandler.ReplaceEntries)
			r.Post("/{reference}/submit", cfg.TransactionHandler.Submit)
			r.Post("/{reference}/post", cfg.TransactionHandler.Post)
			r.Post("/{reference}/cancel", cfg.TransactionHandler.Cancel)
		})

		r.Route("/ledger", func(r chi.Router) {
			r.Get("/dashboard", cfg.LedgerHandler.Dashboard)
			r.Get("/summary", cfg.LedgerHandler.Summary)
			r.Get("/consistency", cfg.LedgerHandler.Consistency)
		})

		r.Get("/audit-logs", cfg.AuditHandler.List)
	})

	return r
}
