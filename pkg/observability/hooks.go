// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about pipeline execution, naming calls, cache operations,
// and hosting API calls.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (Prometheus, OpenTelemetry, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(promhooks.NewPipelineHooks())
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnStageStart(ctx, "generate", itemCount)
//	// ... generate nodes ...
//	observability.Pipeline().OnStageComplete(ctx, "generate", nodeCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// Pipeline stage names reported through PipelineHooks.
const (
	StageGenerate = "generate"
	StageLayout   = "layout"
	StageEdges    = "edges"
	StageValidate = "validate"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the pathway construction pipeline.
type PipelineHooks interface {
	// OnStageStart records the start of a pipeline stage with the number
	// of items it will process.
	OnStageStart(ctx context.Context, stage string, count int)

	// OnStageComplete records a finished stage with the number of items
	// it produced.
	OnStageComplete(ctx context.Context, stage string, count int, duration time.Duration, err error)

	// OnValidationFindings records the number of findings per category
	// after the validate stage.
	OnValidationFindings(ctx context.Context, category string, count int)
}

// =============================================================================
// Naming Hooks
// =============================================================================

// NamingHooks receives events from semantic naming calls.
type NamingHooks interface {
	// OnNamingCall records one naming call against a model.
	OnNamingCall(ctx context.Context, model string, duration time.Duration, err error)

	// OnNamingFallback records a call that degraded to the fallback label.
	OnNamingFallback(ctx context.Context, model string)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnStageStart(context.Context, string, int)                          {}
func (NoopPipelineHooks) OnStageComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnValidationFindings(context.Context, string, int)                  {}

// NoopNamingHooks is a no-op implementation of NamingHooks.
type NoopNamingHooks struct{}

func (NoopNamingHooks) OnNamingCall(context.Context, string, time.Duration, error) {}
func (NoopNamingHooks) OnNamingFallback(context.Context, string)                   {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	namingHooks   NamingHooks   = NoopNamingHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetNamingHooks registers custom naming hooks.
// This should be called once at application startup before any naming calls.
func SetNamingHooks(h NamingHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		namingHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Naming returns the registered naming hooks.
func Naming() NamingHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return namingHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	namingHooks = NoopNamingHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
