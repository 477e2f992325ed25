package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transaction metrics
	TransactionsCreated   prometheus.Counter
	TransactionsPosted    prometheus.Counter
	TransactionsCancelled prometheus.Counter
	PostingRejected       *prometheus.CounterVec
	PostingDuration       prometheus.Histogram

	// Account metrics
	AccountsCreated      prometheus.Counter
	BalanceQueryDuration prometheus.Histogram

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBErrors *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		TransactionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bookkeeper_transactions_created_total",
			Help: "Total number of transactions created",
		}),
		TransactionsPosted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bookkeeper_transactions_posted_total",
			Help: "Total number of transactions posted",
		}),
		TransactionsCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bookkeeper_transactions_cancelled_total",
			Help: "Total number of transactions cancelled",
		}),
		PostingRejected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookkeeper_posting_rejected_total",
				Help: "Total number of rejected posting attempts by reason",
			},
			[]string{"reason"},
		),
		PostingDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "bookkeeper_posting_duration_seconds",
			Help:    "Duration of posting operations",
			Buckets: prometheus.DefBuckets,
		}),

		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bookkeeper_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		BalanceQueryDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "bookkeeper_balance_query_duration_seconds",
			Help:    "Duration of derived balance computations",
			Buckets: prometheus.DefBuckets,
		}),

		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookkeeper_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bookkeeper_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookkeeper_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),
	}
}
