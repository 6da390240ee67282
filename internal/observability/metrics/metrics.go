package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters for the availability and booking flows.
type BookingMetrics struct {
	slotFetches *prometheus.CounterVec
	submissions *prometheus.CounterVec
	sessions    prometheus.Counter
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		slotFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "booking",
			Name:      "slot_fetch_total",
			Help:      "Slot fetches by outcome (ok, fallback, closed)",
		}, []string{"outcome"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "booking",
			Name:      "submissions_total",
			Help:      "Booking submissions by outcome (confirmed, simulated, rejected, failed)",
		}, []string{"outcome"}),
		sessions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "booking",
			Name:      "wizard_sessions_total",
			Help:      "Booking wizard sessions started",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.slotFetches, m.submissions, m.sessions)
	return m
}

func (m *BookingMetrics) ObserveSlotFetch(outcome string) {
	if m == nil {
		return
	}
	m.slotFetches.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveSessionStart() {
	if m == nil {
		return
	}
	m.sessions.Inc()
}
