package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "impuestosrd"

// Metrics holds the Prometheus collectors of the service.
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	calculations    *prometheus.CounterVec
	uploads         *prometheus.CounterVec
	uploadBytes     prometheus.Histogram
	contactos       prometheus.Counter
	citas           *prometheus.CounterVec
	events          *prometheus.CounterVec
}

// New creates the collectors and registers them on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_total",
			Help:      "Tax calculations by outcome.",
		}, []string{"outcome"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "factura_uploads_total",
			Help:      "Invoice uploads by outcome.",
		}, []string{"outcome"}),
		uploadBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "factura_upload_bytes",
			Help:      "Size of stored invoice files.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		}),
		contactos: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contactos_created_total",
			Help:      "Contact messages stored.",
		}),
		citas: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "citas_total",
			Help:      "Appointment bookings by outcome.",
		}, []string{"outcome"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Domain events by type and outcome.",
		}, []string{"type", "outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.requestDuration,
		m.calculations,
		m.uploads,
		m.uploadBytes,
		m.contactos,
		m.citas,
		m.events,
	)

	return m
}

// Middleware records request count and latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}

func (m *Metrics) CalculationSucceeded() { m.calculations.WithLabelValues("ok").Inc() }
func (m *Metrics) CalculationRejected()  { m.calculations.WithLabelValues("invalid").Inc() }

func (m *Metrics) UploadStored(size int64) {
	m.uploads.WithLabelValues("ok").Inc()
	m.uploadBytes.Observe(float64(size))
}

func (m *Metrics) UploadRejected() { m.uploads.WithLabelValues("rejected").Inc() }

func (m *Metrics) ContactoCreated() { m.contactos.Inc() }

func (m *Metrics) CitaBooked()   { m.citas.WithLabelValues("ok").Inc() }
func (m *Metrics) CitaConflict() { m.citas.WithLabelValues("conflict").Inc() }

func (m *Metrics) EventPublished(eventType string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.events.WithLabelValues(eventType, outcome).Inc()
}
