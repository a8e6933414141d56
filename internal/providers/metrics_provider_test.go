package providers

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"kudosd/internal/structures"
)

func isolateRegistry() func() {
	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	return func() {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()
		prometheus.DefaultGatherer = prometheus.DefaultRegisterer.(prometheus.Gatherer)
	}
}

func TestNoopMetrics_WhenDisabled(t *testing.T) {
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: false},
	}
	m := NewMetricsProvider(conf)
	_, ok := m.(*noopMetrics)
	assert.True(t, ok, "should return noopMetrics when disabled")

	// Ensure no-op methods don't panic
	m.IncRequestsTotal("/activities", 202)
	m.ObserveRequestDuration("/activities", time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.IncEvaluations(true)
	m.IncKudosGiven()
	m.IncNotificationsSent("pushover", true)
	m.SetLedgerSize(10)
	m.SetReviewQueueSize(3)
	m.ObservePersistenceDuration(time.Millisecond)
}

func TestMetricsProvider_WhenEnabled(t *testing.T) {
	defer isolateRegistry()()

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf)
	_, ok := m.(*MetricsProvider)
	assert.True(t, ok, "should return MetricsProvider when enabled")
}

func TestMetricsProvider_IncrementCounters(t *testing.T) {
	defer isolateRegistry()()

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf)

	// These should not panic
	m.IncRequestsTotal("/activities", 202)
	m.IncRequestsTotal("/rules", 404)
	m.ObserveRequestDuration("/rules", 5*time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.IncEvaluations(true)
	m.IncEvaluations(false)
	m.IncKudosGiven()
	m.IncNotificationsSent("pushover", true)
	m.IncNotificationsSent("Discord", false)
	m.SetLedgerSize(1000)
	m.SetReviewQueueSize(100)
	m.ObservePersistenceDuration(100 * time.Millisecond)
}

func TestHttpStatusBucket(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{100, "1xx"},
		{200, "2xx"},
		{202, "2xx"},
		{301, "3xx"},
		{400, "4xx"},
		{404, "4xx"},
		{500, "5xx"},
		{503, "5xx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, httpStatusBucket(tt.code))
	}
}
