// Package metrics exposes Prometheus instrumentation for the catalog service.
package metrics

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/dhima/catalog-service/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "catalog"

// CollectionReader exposes the committed records of a collection.
type CollectionReader interface {
	Collection(name string) []json.RawMessage
}

// Metrics owns a registry and the collectors registered on it. Each server
// gets its own registry so several can coexist in one process.
type Metrics struct {
	Registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
	changes  *prometheus.CounterVec
}

// New registers the runtime, HTTP and record change metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	factory := promauto.With(reg)
	m := &Metrics{
		Registry: reg,
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "route"},
		),
		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Current number of HTTP requests being processed",
		}),
		changes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "record_changes_total",
				Help:      "Committed record mutations by collection and action",
			},
			[]string{"collection", "action"},
		),
	}
	return m
}

// RegisterCollections adds a record count gauge for each named collection,
// read from store at scrape time.
func (m *Metrics) RegisterCollections(store CollectionReader, collections []string) {
	factory := promauto.With(m.Registry)
	for _, name := range collections {
		factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "records",
			Help:        "Number of committed records in a collection",
			ConstLabels: prometheus.Labels{"collection": name},
		}, func() float64 {
			return float64(len(store.Collection(name)))
		})
	}
}

// Middleware records request count, latency and concurrency. Requests are
// labelled by their route template so ids never become label values.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.inFlight.Inc()
		defer m.inFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.requests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// Notify implements storage.ChangeNotifier.
func (m *Metrics) Notify(_ context.Context, change storage.Change) {
	m.changes.WithLabelValues(change.Collection, string(change.Action)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

var _ storage.ChangeNotifier = (*Metrics)(nil)
