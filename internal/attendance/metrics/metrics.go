package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the attendance module.
type Metrics struct {
	// Marks accepted, by resulting status and path (window/override)
	MarksAccepted *prometheus.CounterVec

	// Marks rejected, by reason (invalid_request, duplicate, inactive_employee,
	// bad_department, config)
	MarksRejected *prometheus.CounterVec

	// End-to-end mark latency including the uniqueness-constrained insert
	MarkLatency prometheus.Histogram
}

// New creates a Metrics instance with all attendance metrics registered.
func New() *Metrics {
	return &Metrics{
		MarksAccepted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rollcall_attendance_marks_accepted_total",
			Help: "Accepted attendance marks by status and decision path",
		}, []string{"status", "path"}), // path: "window", "override"

		MarksRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rollcall_attendance_marks_rejected_total",
			Help: "Rejected attendance marks by reason",
		}, []string{"reason"}),

		MarkLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rollcall_attendance_mark_duration_seconds",
			Help:    "Duration of the full mark operation including storage",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementAccepted records an accepted mark.
func (m *Metrics) IncrementAccepted(status, path string) {
	if m != nil {
		m.MarksAccepted.WithLabelValues(status, path).Inc()
	}
}

// IncrementRejected records a rejected mark.
func (m *Metrics) IncrementRejected(reason string) {
	if m != nil {
		m.MarksRejected.WithLabelValues(reason).Inc()
	}
}

// ObserveMarkLatency records the total mark duration.
func (m *Metrics) ObserveMarkLatency(d time.Duration) {
	if m != nil {
		m.MarkLatency.Observe(d.Seconds())
	}
}
