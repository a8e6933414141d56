package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"kudosd/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncEvaluations(significant bool)
	IncKudosGiven()
	IncNotificationsSent(provider string, ok bool)
	SetLedgerSize(count int)
	SetReviewQueueSize(count int)
	ObservePersistenceDuration(duration time.Duration)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	evaluationsTotal    *prometheus.CounterVec
	kudosGiven          prometheus.Counter
	notificationsSent   *prometheus.CounterVec
	ledgerSize          prometheus.Gauge
	reviewQueueSize     prometheus.Gauge
	persistenceDuration prometheus.Histogram
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncEvaluations(significant bool) {
	outcome := "ignored"
	if significant {
		outcome = "significant"
	}
	m.evaluationsTotal.WithLabelValues(outcome).Inc()
}

func (m *MetricsProvider) IncKudosGiven() {
	m.kudosGiven.Inc()
}

func (m *MetricsProvider) IncNotificationsSent(provider string, ok bool) {
	outcome := "error"
	if ok {
		outcome = "ok"
	}
	m.notificationsSent.WithLabelValues(provider, outcome).Inc()
}

func (m *MetricsProvider) SetLedgerSize(count int) {
	m.ledgerSize.Set(float64(count))
}

func (m *MetricsProvider) SetReviewQueueSize(count int) {
	m.reviewQueueSize.Set(float64(count))
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kudosd_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kudosd_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kudosd_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kudosd_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		evaluationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kudosd_evaluations_total",
			Help: "Total number of activity evaluations by outcome",
		}, []string{"outcome"}),

		kudosGiven: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kudosd_kudos_given_total",
			Help: "Total number of endorsements given",
		}),

		notificationsSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kudosd_notifications_sent_total",
			Help: "Total number of notification deliveries by provider and outcome",
		}, []string{"provider", "outcome"}),

		ledgerSize: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "kudosd_processed_ledger_size",
			Help: "Current number of entries in the processed-activity ledger",
		}),

		reviewQueueSize: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "kudosd_review_queue_size",
			Help: "Current number of items in the review queue",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "kudosd_persistence_duration_seconds",
			Help:    "Duration of persistence operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncEvaluations(_ bool)                            {}
func (n *noopMetrics) IncKudosGiven()                                   {}
func (n *noopMetrics) IncNotificationsSent(_ string, _ bool)            {}
func (n *noopMetrics) SetLedgerSize(_ int)                              {}
func (n *noopMetrics) SetReviewQueueSize(_ int)                         {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
