package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "recipe_pantry"

// AI 呼叫結果標籤
const (
	OutcomeSuccess  = "success"
	OutcomeCacheHit = "cache_hit"
	OutcomeError    = "error"
)

// Collector 服務指標，nil Collector 的所有方法皆為 no-op
type Collector struct {
	registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	aiCalls       *prometheus.CounterVec
	aiDuration    *prometheus.HistogramVec
	cacheLookups  *prometheus.CounterVec
	parsedRecipes prometheus.Histogram
}

// NewCollector 建立獨立 registry 的指標收集器
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		aiCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ai_calls_total",
				Help:      "Chat completion calls by model and outcome",
			},
			[]string{"model", "outcome"},
		),
		aiDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "ai_call_duration_seconds",
				Help:      "Chat completion latency",
				Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
			},
			[]string{"model"},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ai_cache_lookups_total",
				Help:      "AI response cache lookups by result",
			},
			[]string{"result"},
		),
		parsedRecipes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "parsed_recipes",
				Help:      "Recipes parsed from a single AI response",
				Buckets:   prometheus.LinearBuckets(0, 1, 8),
			},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.httpRequests,
		c.httpDuration,
		c.aiCalls,
		c.aiDuration,
		c.cacheLookups,
		c.parsedRecipes,
	)
	return c
}

// ObserveHTTP 記錄一次 HTTP 請求
func (c *Collector) ObserveHTTP(method, route string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveAICall 記錄一次 AI 呼叫；快取命中不計入延遲
func (c *Collector) ObserveAICall(model, outcome string, duration time.Duration) {
	if c == nil {
		return
	}
	c.aiCalls.WithLabelValues(model, outcome).Inc()
	if outcome != OutcomeCacheHit {
		c.aiDuration.WithLabelValues(model).Observe(duration.Seconds())
	}
}

// ObserveCache 記錄快取查詢結果
func (c *Collector) ObserveCache(hit bool) {
	if c == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveParsed 記錄單次回應解析出的食譜數
func (c *Collector) ObserveParsed(count int) {
	if c == nil {
		return
	}
	c.parsedRecipes.Observe(float64(count))
}

// Handler 回傳 /metrics 使用的 HTTP handler
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
