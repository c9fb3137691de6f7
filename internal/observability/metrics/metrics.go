package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the reservation engine and
// the voice command pipeline. All observe methods are nil-safe so callers
// can run without a registry in tests.
type BookingMetrics struct {
	createdTotal       *prometheus.CounterVec
	failedTotal        *prometheus.CounterVec
	transitionsTotal   *prometheus.CounterVec
	capacityExhausted  prometheus.Counter
	voiceCommandsTotal *prometheus.CounterVec
	parseConfidence    prometheus.Histogram
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		createdTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "laundry",
			Subsystem: "bookings",
			Name:      "created_total",
			Help:      "Total bookings created",
		}, []string{"delivery_mode"}),
		failedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "laundry",
			Subsystem: "bookings",
			Name:      "failed_total",
			Help:      "Total booking attempts rejected",
		}, []string{"reason"}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "laundry",
			Subsystem: "bookings",
			Name:      "status_transitions_total",
			Help:      "Total booking status transitions applied",
		}, []string{"from", "to"}),
		capacityExhausted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "laundry",
			Subsystem: "slots",
			Name:      "capacity_exhausted_total",
			Help:      "Total reservation attempts that lost the last capacity unit",
		}),
		voiceCommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "laundry",
			Subsystem: "voice",
			Name:      "commands_total",
			Help:      "Total voice commands interpreted",
		}, []string{"intent"}),
		parseConfidence: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "laundry",
			Subsystem: "voice",
			Name:      "parse_confidence",
			Help:      "Confidence score distribution of parsed commands",
			Buckets:   []float64{0.1, 0.3, 0.5, 0.55, 0.75, 0.8, 0.9, 1.0},
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.createdTotal, m.failedTotal, m.transitionsTotal,
		m.capacityExhausted, m.voiceCommandsTotal, m.parseConfidence,
	)
	return m
}

func (m *BookingMetrics) ObserveCreated(deliveryMode string) {
	if m == nil {
		return
	}
	m.createdTotal.WithLabelValues(deliveryMode).Inc()
}

func (m *BookingMetrics) ObserveFailed(reason string) {
	if m == nil {
		return
	}
	m.failedTotal.WithLabelValues(reason).Inc()
}

func (m *BookingMetrics) ObserveTransition(from, to string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(from, to).Inc()
}

func (m *BookingMetrics) ObserveCapacityExhausted() {
	if m == nil {
		return
	}
	m.capacityExhausted.Inc()
}

func (m *BookingMetrics) ObserveVoiceCommand(intent string, confidence float64) {
	if m == nil {
		return
	}
	if intent == "" {
		intent = "none"
	}
	m.voiceCommandsTotal.WithLabelValues(intent).Inc()
	m.parseConfidence.Observe(confidence)
}
