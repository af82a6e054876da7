package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "agentledger"

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Journal metrics
	EntriesPosted    *prometheus.CounterVec
	EntriesCancelled prometheus.Counter
	EntryLines       prometheus.Histogram

	// Account metrics
	AccountsCreated prometheus.Counter
	AccountsDeleted prometheus.Counter

	// Commission metrics
	BulletinsReplaced prometheus.Counter

	// Revaluation metrics
	RevaluationsCreated *prometheus.CounterVec

	// Consistency metrics
	ConsistencyChecks        *prometheus.CounterVec
	BalanceDiscrepancies     prometheus.Gauge
	LastConsistencyCheckTime prometheus.Gauge

	// Notification metrics
	NotificationsPublished *prometheus.CounterVec
	NotificationsDropped   prometheus.Counter

	// API metrics
	HTTPRequests         *prometheus.CounterVec
	HTTPDuration         *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	RateLimitHits        prometheus.Counter
	IdempotentReplays    prometheus.Counter
}

// New creates all metrics and registers them with reg. A nil reg uses the
// default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		EntriesPosted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "journal_entries_posted_total",
			Help:      "Journal entries posted, by entry currency",
		}, []string{"currency"}),
		EntriesCancelled: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "journal_entries_cancelled_total",
			Help:      "Journal entries cancelled by a reversal",
		}),
		EntryLines: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "journal_entry_lines",
			Help:      "Number of lines per posted entry",
			Buckets:   []float64{2, 3, 4, 6, 10, 20, 50},
		}),

		AccountsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accounts_created_total",
			Help:      "Accounts added to the chart of accounts",
		}),
		AccountsDeleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accounts_deleted_total",
			Help:      "Accounts removed from the chart of accounts",
		}),

		BulletinsReplaced: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commission_bulletins_replaced_total",
			Help:      "Commission bulletins stored or replaced",
		}),

		RevaluationsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "currency_revaluations_total",
			Help:      "Currency revaluations posted, by direction",
		}, []string{"direction"}),

		ConsistencyChecks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "consistency_checks_total",
			Help:      "Ledger consistency checks, by result",
		}, []string{"result"}),
		BalanceDiscrepancies: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "balance_discrepancies",
			Help:      "Account balances that differ from their replayed postings at the last check",
		}),
		LastConsistencyCheckTime: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_consistency_check_timestamp_seconds",
			Help:      "Unix time of the last completed consistency check",
		}),

		NotificationsPublished: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_published_total",
			Help:      "Notifications handed to publishers, by event type",
		}, []string{"event_type"}),
		NotificationsDropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_dropped_total",
			Help:      "Notifications dropped because the buffer was full",
		}),

		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"method", "route"}),
		HTTPRequestsInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		}),
		RateLimitHits: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_hits_total",
			Help:      "Requests rejected by the rate limiter",
		}),
		IdempotentReplays: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "idempotent_replays_total",
			Help:      "Responses served from the idempotency store",
		}),
	}
}
