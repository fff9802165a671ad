package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides observability for address validation and change workflows.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Validation outcomes by address type and result
	ValidationOutcome *prometheus.CounterVec

	// Workflow decisions by intent
	WorkflowDecision *prometheus.CounterVec

	// Workflow transitions by resulting status
	WorkflowTransition *prometheus.CounterVec

	// Overlap conflicts by address type
	OverlapConflict *prometheus.CounterVec

	// Notification deliveries by outcome
	NotificationDelivery *prometheus.CounterVec

	// HTTP request latency by route and status
	RequestLatency *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New creates a Metrics instance registered on its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		ValidationOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "register_address_validations_total",
			Help: "Total address validations by address type and outcome",
		}, []string{"address_type", "outcome"}), // outcome: "valid", "invalid"

		WorkflowDecision: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "register_workflow_decisions_total",
			Help: "Total address change decisions by intent",
		}, []string{"intent"}),

		WorkflowTransition: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "register_workflow_transitions_total",
			Help: "Total address change workflow transitions by resulting status",
		}, []string{"status"}),

		OverlapConflict: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "register_address_overlap_conflicts_total",
			Help: "Total writes rejected because the address interval overlapped an existing one",
		}, []string{"address_type"}),

		NotificationDelivery: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "register_notification_deliveries_total",
			Help: "Total notification dispatches by outcome",
		}, []string{"outcome"}),

		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "register_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route and status",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route", "status"}),

		registry: reg,
	}
}

// IncrementValidation records a validation outcome.
func (m *Metrics) IncrementValidation(addressType string, valid bool) {
	if m != nil {
		outcome := "invalid"
		if valid {
			outcome = "valid"
		}
		m.ValidationOutcome.WithLabelValues(addressType, outcome).Inc()
	}
}

// IncrementDecision records the intent chosen for a proposal.
func (m *Metrics) IncrementDecision(intent string) {
	if m != nil {
		m.WorkflowDecision.WithLabelValues(intent).Inc()
	}
}

// IncrementTransition records a workflow reaching status.
func (m *Metrics) IncrementTransition(status string) {
	if m != nil {
		m.WorkflowTransition.WithLabelValues(status).Inc()
	}
}

// IncrementOverlapConflict records a rejected overlapping write.
func (m *Metrics) IncrementOverlapConflict(addressType string) {
	if m != nil {
		m.OverlapConflict.WithLabelValues(addressType).Inc()
	}
}

// IncrementNotification records a dispatch outcome.
func (m *Metrics) IncrementNotification(success bool) {
	if m != nil {
		outcome := "failed"
		if success {
			outcome = "delivered"
		}
		m.NotificationDelivery.WithLabelValues(outcome).Inc()
	}
}

// ObserveRequest records the duration of one HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m != nil {
		m.RequestLatency.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware times every request against its route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
