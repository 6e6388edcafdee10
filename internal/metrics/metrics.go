package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the service's Prometheus metrics. A nil *Collector is
// valid and records nothing.
type Collector struct {
	gatherer prometheus.Gatherer

	HTTPRequests  *prometheus.CounterVec
	HTTPDurations *prometheus.HistogramVec

	ZonesScored    *prometheus.CounterVec
	DatasetRecords *prometheus.GaugeVec
	SpotFilters    *prometheus.CounterVec
}

// NewCollector registers the metrics against reg, defaulting to the global
// Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	requests, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "seaglass_http_requests_total",
		Help: "Total HTTP requests, labeled by method, route and status code.",
	}, []string{"method", "route", "code"}), "seaglass_http_requests_total")
	if err != nil {
		return nil, err
	}

	durations, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "seaglass_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "route"}), "seaglass_http_request_duration_seconds")
	if err != nil {
		return nil, err
	}

	scored, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "seaglass_zones_scored_total",
		Help: "Zones scored during dataset ingestion, labeled by classification.",
	}, []string{"classification"}), "seaglass_zones_scored_total")
	if err != nil {
		return nil, err
	}

	records, err := register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "seaglass_dataset_records",
		Help: "Records in the last successfully decoded dataset, labeled by kind.",
	}, []string{"kind"}), "seaglass_dataset_records")
	if err != nil {
		return nil, err
	}

	filters, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "seaglass_spot_filters_total",
		Help: "Nearby spot filter invocations, labeled by the active reference kind.",
	}, []string{"reference"}), "seaglass_spot_filters_total")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:       gatherer,
		HTTPRequests:   requests,
		HTTPDurations:  durations,
		ZonesScored:    scored,
		DatasetRecords: records,
		SpotFilters:    filters,
	}, nil
}

// Middleware records request counts and latencies per matched route.
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		if c == nil {
			return
		}
		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := ctx.Request.Method
		c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(ctx.Writer.Status())).Inc()
		c.HTTPDurations.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

func (c *Collector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func (c *Collector) ObserveZoneScored(classification string) {
	if c == nil {
		return
	}
	c.ZonesScored.WithLabelValues(classification).Inc()
}

func (c *Collector) SetDatasetRecords(kind string, n int) {
	if c == nil {
		return
	}
	c.DatasetRecords.WithLabelValues(kind).Set(float64(n))
}

func (c *Collector) ObserveSpotFilter(reference string) {
	if c == nil {
		return
	}
	c.SpotFilters.WithLabelValues(reference).Inc()
}

func register[C prometheus.Collector](reg prometheus.Registerer, collector C, name string) (C, error) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
			var zero C
			return zero, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		var zero C
		return zero, err
	}
	return collector, nil
}
