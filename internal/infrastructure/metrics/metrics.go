package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Transaction lifecycle metrics
	TransactionsCreated prometheus.Counter
	TransactionsUpdated prometheus.Counter
	TransactionsDeleted prometheus.Counter
	TransactionAmount   prometheus.Histogram
	TransactionErrors   *prometheus.CounterVec

	// Entity metrics
	AccountsCreated    prometheus.Counter
	CreditCardsCreated prometheus.Counter
	CategoriesCreated  prometheus.Counter
	GuardRejections    *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Cache metrics
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		TransactionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_transactions_created_total",
			Help: "Total number of transactions created",
		}),
		TransactionsUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_transactions_updated_total",
			Help: "Total number of transactions updated",
		}),
		TransactionsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_transactions_deleted_total",
			Help: "Total number of transactions deleted",
		}),
		TransactionAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "fintrack_transaction_amount",
			Help:    "Transaction amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000},
		}),
		TransactionErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_transaction_errors_total",
				Help: "Total number of transaction errors by type",
			},
			[]string{"error_type"},
		),

		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		CreditCardsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_credit_cards_created_total",
			Help: "Total number of credit cards created",
		}),
		CategoriesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_categories_created_total",
			Help: "Total number of categories created",
		}),
		GuardRejections: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_guard_rejections_total",
				Help: "Total deletions rejected because the entity is still referenced",
			},
			[]string{"entity"},
		),

		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fintrack_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		CacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_cache_hits_total",
				Help: "Total cache hits",
			},
			[]string{"cache"},
		),
		CacheMisses: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_cache_misses_total",
				Help: "Total cache misses",
			},
			[]string{"cache"},
		),

		AuthAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),

		RateLimitHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_rate_limit_hits_total",
			Help: "Total requests rejected by the rate limiter",
		}),
	}
}
