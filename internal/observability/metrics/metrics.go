package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the scheduling flow.
type BookingMetrics struct {
	bookingsTotal      *prometheus.CounterVec
	sessionsTotal      *prometheus.CounterVec
	slotQueriesTotal   prometheus.Counter
	notificationsTotal *prometheus.CounterVec
	bookLatency        prometheus.Histogram
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intake",
			Subsystem: "scheduling",
			Name:      "bookings_total",
			Help:      "Booking attempts by outcome",
		}, []string{"status", "reason"}),
		sessionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intake",
			Subsystem: "scheduling",
			Name:      "sessions_total",
			Help:      "Booking sessions ended, by terminal state",
		}, []string{"outcome"}),
		slotQueriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "intake",
			Subsystem: "scheduling",
			Name:      "slot_queries_total",
			Help:      "Availability queries served",
		}),
		notificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intake",
			Subsystem: "notify",
			Name:      "notifications_total",
			Help:      "Booking confirmation deliveries by outcome",
		}, []string{"status"}),
		bookLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "intake",
			Subsystem: "scheduling",
			Name:      "book_latency_seconds",
			Help:      "Latency of booking commits",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.sessionsTotal, m.slotQueriesTotal, m.notificationsTotal, m.bookLatency)
	return m
}

func (m *BookingMetrics) ObserveBooking(status, reason string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(status, reason).Inc()
}

func (m *BookingMetrics) ObserveSessionEnd(outcome string) {
	if m == nil {
		return
	}
	m.sessionsTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveSlotQuery() {
	if m == nil {
		return
	}
	m.slotQueriesTotal.Inc()
}

func (m *BookingMetrics) ObserveNotification(status string) {
	if m == nil {
		return
	}
	m.notificationsTotal.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObserveBookLatency(seconds float64) {
	if m == nil {
		return
	}
	m.bookLatency.Observe(seconds)
}
