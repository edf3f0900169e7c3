// Package httputil provides HTTP utilities for hosting API clients.
//
// # Overview
//
// This package provides infrastructure used by the pathway hosting client:
//
//   - [Cache]: File-based HTTP response caching
//   - [Retry]: Automatic retry with exponential backoff
//
// # Caching
//
// [Cache] stores HTTP responses in the filesystem (~/.cache/pathforge/)
// with configurable TTL. This dramatically speeds up repeated operations
// and reduces load on the hosting API.
//
// Usage:
//
//	cache, err := httputil.NewCache("", 24*time.Hour)
//	var doc hosting.Pathway
//	ok, _ := cache.Get("pathways:pw-123", &doc)  // Check cache
//	if !ok {
//	    doc = fetchFromAPI()
//	    cache.Set("pathways:pw-123", doc)        // Store for later
//	}
//
// Cache keys should be namespaced by endpoint to avoid collisions.
//
// # Retry
//
// [Retry] wraps HTTP requests with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// Wrap transient errors with [RetryableError] so Retry knows to attempt
// the operation again:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    return fetchOnce()
//	})
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Cache directory: ~/.cache/pathforge/
//   - Default TTL: 24 hours
//   - Max retries: 3
//   - Base backoff: 1 second
//
// The cache can be cleared via `pathforge cache clear` or by deleting
// the cache directory.
package httputil
