package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors on a dedicated registry.
// All record methods are safe on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	errors        *prometheus.CounterVec
	submissions   *prometheus.CounterVec
	notifications *prometheus.CounterVec
	captcha       *prometheus.CounterVec
	attachments   *prometheus.CounterVec
	droppedTasks  prometheus.Counter
}

// NewMetrics registers collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status_code"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Errors returned to clients by error code",
		}, []string{"method", "route", "code"}),
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "submissions_total",
			Help: "Persisted submissions by kind",
		}, []string{"kind"}),
		notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Notification emails by kind, event and result",
		}, []string{"kind", "event", "result"}),
		captcha: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "captcha_verifications_total",
			Help: "CAPTCHA verification outcomes",
		}, []string{"result"}),
		attachments: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "attachments_stored_total",
			Help: "Stored attachments by backend",
		}, []string{"backend"}),
		droppedTasks: factory.NewCounter(prometheus.CounterOpts{
			Name: "background_tasks_dropped_total",
			Help: "Background tasks dropped because the queue was full",
		}),
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(method, route, code).Inc()
}

func (m *Metrics) RecordSubmission(kind string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordNotification(kind, event string, err error) {
	if m == nil {
		return
	}
	result := "sent"
	if err != nil {
		result = "failed"
	}
	m.notifications.WithLabelValues(kind, event, result).Inc()
}

// RecordNotificationSkipped counts notifications not sent because mail is unconfigured.
func (m *Metrics) RecordNotificationSkipped(kind, event string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(kind, event, "skipped").Inc()
}

func (m *Metrics) RecordCaptcha(result string) {
	if m == nil {
		return
	}
	m.captcha.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordAttachment(backend string) {
	if m == nil {
		return
	}
	m.attachments.WithLabelValues(backend).Inc()
}

func (m *Metrics) RecordDroppedTask() {
	if m == nil {
		return
	}
	m.droppedTasks.Inc()
}
