package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds process-wide Prometheus metrics. Module-specific metrics live
// next to their module (see internal/attendance/metrics).
type Metrics struct {
	EmployeesCreated prometheus.Counter
	LoginAttempts    *prometheus.CounterVec
	RequestLatency   *prometheus.HistogramVec
}

// New creates and registers all process-wide Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		EmployeesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rollcall_employees_created_total",
			Help: "Total number of employees provisioned",
		}),
		LoginAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rollcall_login_attempts_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}), // outcome: "success", "failure"
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rollcall_http_request_duration_seconds",
			Help:    "HTTP request duration by route",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route", "method"}),
	}
}

// IncrementEmployeesCreated increments the provisioning counter by 1.
func (m *Metrics) IncrementEmployeesCreated() {
	if m != nil {
		m.EmployeesCreated.Inc()
	}
}

// IncrementLogin records a login attempt outcome.
func (m *Metrics) IncrementLogin(outcome string) {
	if m != nil {
		m.LoginAttempts.WithLabelValues(outcome).Inc()
	}
}

// ObserveRequest records a request duration.
func (m *Metrics) ObserveRequest(route, method string, seconds float64) {
	if m != nil {
		m.RequestLatency.WithLabelValues(route, method).Observe(seconds)
	}
}
