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

// Counter reports how many results the session store holds.
type Counter interface {
	Count() int
}

// Metrics owns the registry served on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	requestDuration  *prometheus.HistogramVec
	testSubmissions  prometheus.Counter
	emailSubmissions *prometheus.CounterVec
}

// New registers the funnel metrics and the Go runtime collectors on a
// dedicated registry. counter may be nil.
func New(counter Counter) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Time spent serving HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		testSubmissions: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "funnel_test_submissions_total",
				Help: "Total number of stored test submissions",
			},
		),
		emailSubmissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "funnel_email_submissions_total",
				Help: "Total number of email submissions",
			},
			[]string{"matched"}, // whether the test id was known
		),
	}

	if counter != nil {
		factory.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "funnel_stored_results",
				Help: "Number of test results held in memory",
			},
			func() float64 { return float64(counter.Count()) },
		)
	}
	return m
}

func (m *Metrics) TestSubmitted() {
	m.testSubmissions.Inc()
}

func (m *Metrics) EmailSubmitted(matched bool) {
	m.emailSubmissions.WithLabelValues(strconv.FormatBool(matched)).Inc()
}

// Middleware observes request latency by route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
