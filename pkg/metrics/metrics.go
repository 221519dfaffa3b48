// Package metrics 提供 Prometheus 指标定义与采集
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "risk"

// 模拟结果标签值
const (
	OutcomeSuccess  = "success"
	OutcomeInvalid  = "invalid"
	OutcomeAnomaly  = "anomaly"
	OutcomeCanceled = "canceled"
	OutcomeError    = "error"
)

// Metrics 指标集合
type Metrics struct {
	registry *prometheus.Registry

	// HTTP 请求计数
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTP 请求耗时
	HTTPRequestDuration *prometheus.HistogramVec
	// 被限流的请求数
	RateLimitedTotal prometheus.Counter

	// 模拟次数 (按结果)
	SimulationsTotal *prometheus.CounterVec
	// 模拟耗时
	SimulationDuration prometheus.Histogram
	// 累计模拟路径数
	PathsSimulatedTotal prometheus.Counter
	// 价格矩阵规模
	MatrixCells prometheus.Histogram

	// 事件发布次数 (按结果)
	EventsPublishedTotal *prometheus.CounterVec
}

// New 创建指标实例并注册到独立的 registry
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "http_requests_total",
			Help:        "Total HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "path"}),
		RateLimitedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "http_rate_limited_total",
			Help:        "Requests rejected by the rate limiter",
			ConstLabels: constLabels,
		}),
		SimulationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "montecarlo",
			Name:        "simulations_total",
			Help:        "Monte Carlo simulations by outcome",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		SimulationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "montecarlo",
			Name:        "simulation_duration_seconds",
			Help:        "Monte Carlo simulation duration in seconds",
			Buckets:     []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			ConstLabels: constLabels,
		}),
		PathsSimulatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "montecarlo",
			Name:        "paths_simulated_total",
			Help:        "Total simulated price paths",
			ConstLabels: constLabels,
		}),
		MatrixCells: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "montecarlo",
			Name:        "matrix_cells",
			Help:        "Price matrix size (paths x days) per simulation",
			Buckets:     prometheus.ExponentialBuckets(100, 10, 7),
			ConstLabels: constLabels,
		}),
		EventsPublishedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "montecarlo",
			Name:        "events_published_total",
			Help:        "Simulation events published by outcome",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.RateLimitedTotal,
		m.SimulationsTotal,
		m.SimulationDuration,
		m.PathsSimulatedTotal,
		m.MatrixCells,
		m.EventsPublishedTotal,
	)
	return m
}

// Registry 返回底层 registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler 返回 Prometheus 抓取端点
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest 记录 HTTP 请求
func (m *Metrics) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordRateLimited 记录被限流的请求
func (m *Metrics) RecordRateLimited() {
	m.RateLimitedTotal.Inc()
}

// RecordSimulation 记录一次模拟
func (m *Metrics) RecordSimulation(outcome string, numPaths int, cells int64, duration time.Duration) {
	m.SimulationsTotal.WithLabelValues(outcome).Inc()
	m.SimulationDuration.Observe(duration.Seconds())
	if outcome == OutcomeSuccess {
		m.PathsSimulatedTotal.Add(float64(numPaths))
		m.MatrixCells.Observe(float64(cells))
	}
}

// RecordEventPublished 记录事件发布结果
func (m *Metrics) RecordEventPublished(err error) {
	if err != nil {
		m.EventsPublishedTotal.WithLabelValues(OutcomeError).Inc()
		return
	}
	m.EventsPublishedTotal.WithLabelValues(OutcomeSuccess).Inc()
}
