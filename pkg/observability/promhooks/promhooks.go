// Package promhooks provides Prometheus-backed implementations of the
// observability hook interfaces. Register them at startup:
//
//	hooks, err := promhooks.New(prometheus.DefaultRegisterer)
//	if err != nil { ... }
//	observability.SetPipelineHooks(hooks)
//	observability.SetNamingHooks(hooks)
//	observability.SetCacheHooks(hooks)
//	observability.SetHTTPHooks(hooks)
//
// Metrics are exposed through the standard promhttp handler.
package promhooks

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pathforge/pathforge/pkg/observability"
)

// Hooks implements every observability hook interface with Prometheus
// metrics.
type Hooks struct {
	stageDuration      *prometheus.HistogramVec
	stageItems         *prometheus.GaugeVec
	validationFindings *prometheus.CounterVec

	namingCalls    *prometheus.CounterVec
	namingDuration *prometheus.HistogramVec
	namingFallback *prometheus.CounterVec

	cacheOps *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates hooks and registers their metrics with reg.
func New(reg prometheus.Registerer) (*Hooks, error) {
	h := &Hooks{
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "pathforge_stage_duration_seconds",
			Help: "Duration of pathway pipeline stages",
		}, []string{"stage", "status"}),
		stageItems: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pathforge_stage_items",
			Help: "Items produced by the last run of each pipeline stage",
		}, []string{"stage"}),
		validationFindings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pathforge_validation_findings_total",
			Help: "Validation findings by category",
		}, []string{"category"}),
		namingCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pathforge_naming_calls_total",
			Help: "Semantic naming calls by model and status",
		}, []string{"model", "status"}),
		namingDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "pathforge_naming_duration_seconds",
			Help: "Duration of semantic naming calls",
		}, []string{"model"}),
		namingFallback: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pathforge_naming_fallback_total",
			Help: "Naming calls that degraded to the fallback label",
		}, []string{"model"}),
		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pathforge_cache_operations_total",
			Help: "Cache operations by key type and outcome",
		}, []string{"key_type", "op"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pathforge_http_requests_total",
			Help: "Outgoing HTTP requests by host and status",
		}, []string{"host", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "pathforge_http_request_duration_seconds",
			Help: "Duration of outgoing HTTP requests",
		}, []string{"host"}),
	}

	collectors := []prometheus.Collector{
		h.stageDuration, h.stageItems, h.validationFindings,
		h.namingCalls, h.namingDuration, h.namingFallback,
		h.cacheOps,
		h.httpRequests, h.httpDuration,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// OnStageStart implements observability.PipelineHooks.
func (h *Hooks) OnStageStart(context.Context, string, int) {}

// OnStageComplete implements observability.PipelineHooks.
func (h *Hooks) OnStageComplete(_ context.Context, stage string, count int, d time.Duration, err error) {
	h.stageDuration.WithLabelValues(stage, status(err)).Observe(d.Seconds())
	h.stageItems.WithLabelValues(stage).Set(float64(count))
}

// OnValidationFindings implements observability.PipelineHooks.
func (h *Hooks) OnValidationFindings(_ context.Context, category string, count int) {
	h.validationFindings.WithLabelValues(category).Add(float64(count))
}

// OnNamingCall implements observability.NamingHooks.
func (h *Hooks) OnNamingCall(_ context.Context, model string, d time.Duration, err error) {
	h.namingCalls.WithLabelValues(model, status(err)).Inc()
	h.namingDuration.WithLabelValues(model).Observe(d.Seconds())
}

// OnNamingFallback implements observability.NamingHooks.
func (h *Hooks) OnNamingFallback(_ context.Context, model string) {
	h.namingFallback.WithLabelValues(model).Inc()
}

// OnCacheHit implements observability.CacheHooks.
func (h *Hooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (h *Hooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (h *Hooks) OnCacheSet(_ context.Context, keyType string, _ int) {
	h.cacheOps.WithLabelValues(keyType, "set").Inc()
}

// OnRequest implements observability.HTTPHooks.
func (h *Hooks) OnRequest(context.Context, string, string, string) {}

// OnResponse implements observability.HTTPHooks.
func (h *Hooks) OnResponse(_ context.Context, _, host, _ string, statusCode int, d time.Duration) {
	h.httpRequests.WithLabelValues(host, httpClass(statusCode)).Inc()
	h.httpDuration.WithLabelValues(host).Observe(d.Seconds())
}

// OnError implements observability.HTTPHooks.
func (h *Hooks) OnError(_ context.Context, _, host, _ string, _ error) {
	h.httpRequests.WithLabelValues(host, "error").Inc()
}

func httpClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

var (
	_ observability.PipelineHooks = (*Hooks)(nil)
	_ observability.NamingHooks   = (*Hooks)(nil)
	_ observability.CacheHooks    = (*Hooks)(nil)
	_ observability.HTTPHooks     = (*Hooks)(nil)
)
