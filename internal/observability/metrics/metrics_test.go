package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestBookingMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)

	m.ObserveSlotFetch("fallback")
	m.ObserveSlotFetch("fallback")
	m.ObserveSlotFetch("closed")
	m.ObserveSubmission("simulated")
	m.ObserveSessionStart()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.slotFetches.WithLabelValues("fallback")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.slotFetches.WithLabelValues("closed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.submissions.WithLabelValues("simulated")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.sessions))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *BookingMetrics
	assert.NotPanics(t, func() {
		m.ObserveSlotFetch("ok")
		m.ObserveSubmission("confirmed")
		m.ObserveSessionStart()
	})
}
