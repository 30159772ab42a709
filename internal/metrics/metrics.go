// Package metrics holds the Prometheus collectors for the service. All
// collectors live on a private registry so tests can build as many instances
// as they need. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "yieldscope"

type Metrics struct {
	registry *prometheus.Registry

	RPCCalls   *prometheus.CounterVec
	RPCLatency *prometheus.HistogramVec

	InitDuration prometheus.Histogram
	InitRuns     *prometheus.CounterVec
	PoolsLoaded  prometheus.Gauge

	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec

	OHLCVRequests *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RPCCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "calls_total",
			Help:      "Contract calls by outcome",
		}, []string{"outcome"}),
		RPCLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "call_duration_seconds",
			Help:      "Contract call latency including retries",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		InitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "init",
			Name:      "duration_seconds",
			Help:      "Pool initialization wall time",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		}),
		InitRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "init",
			Name:      "runs_total",
			Help:      "Pool initialization runs by outcome",
		}, []string{"outcome"}),
		PoolsLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "init",
			Name:      "pools_loaded",
			Help:      "Pools in the registry after the last successful initialization",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"route", "method", "status"}),
		HTTPLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		OHLCVRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "coingecko",
			Name:      "ohlcv_requests_total",
			Help:      "OHLCV lookups by source (cache, upstream, error)",
		}, []string{"source"}),
	}
}

// Handler serves the private registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveRPC(elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := outcomeOf(err)
	m.RPCCalls.WithLabelValues(outcome).Inc()
	m.RPCLatency.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveInit(elapsed time.Duration, pools int, err error) {
	if m == nil {
		return
	}
	m.InitDuration.Observe(elapsed.Seconds())
	m.InitRuns.WithLabelValues(outcomeOf(err)).Inc()
	if err == nil {
		m.PoolsLoaded.Set(float64(pools))
	}
}

func (m *Metrics) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.HTTPLatency.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// OHLCVLookup records where an OHLCV response came from.
func (m *Metrics) OHLCVLookup(source string) {
	if m == nil {
		return
	}
	m.OHLCVRequests.WithLabelValues(source).Inc()
}

func outcomeOf(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
