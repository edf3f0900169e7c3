package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnStageStart(ctx, StageGenerate, 5)
	p.OnStageComplete(ctx, StageGenerate, 8, time.Second, nil)
	p.OnValidationFindings(ctx, "isolated_node", 1)

	// Naming hooks
	n := NoopNamingHooks{}
	n.OnNamingCall(ctx, "gpt-4o-mini", time.Second, nil)
	n.OnNamingFallback(ctx, "gpt-4o-mini")

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "naming")
	c.OnCacheMiss(ctx, "pathway")
	c.OnCacheSet(ctx, "http", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "api.example.com", "/v1/pathway")
	h.OnResponse(ctx, "GET", "api.example.com", "/v1/pathway", 200, time.Second)
	h.OnError(ctx, "GET", "api.example.com", "/v1/pathway", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Naming().(NoopNamingHooks); !ok {
		t.Error("Naming() should return NoopNamingHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customNaming := &testNamingHooks{}
	SetNamingHooks(customNaming)
	if Naming() != customNaming {
		t.Error("SetNamingHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)

	// Setting nil should be ignored
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testPipelineHooks struct{ NoopPipelineHooks }
type testNamingHooks struct{ NoopNamingHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
