// Package cache provides pluggable byte caches used for naming results and
// HTTP responses.
//
// Three backends are provided:
//   - file: directory-backed cache for CLI usage
//   - redis: shared cache for service deployments
//   - null: no-op cache for tests or disabled caching
//
// Keys are built through the Keyer interface so that CLI and service
// deployments can namespace entries (see ScopedKeyer).
package cache

import (
	"context"
	"time"
)

// DefaultTTL is the default expiry for cached entries.
const DefaultTTL = 24 * time.Hour

// Cache is the interface implemented by all cache backends.
type Cache interface {
	// Get retrieves a value. The second return value reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer builds namespaced cache keys for the different entry kinds.
type Keyer interface {
	// NamingKey generates a key for a semantic-naming result.
	NamingKey(model, prompt string) string

	// PathwayKey generates a key for a built pathway document.
	PathwayKey(contentHash string) string

	// HTTPKey generates a key for an HTTP response.
	HTTPKey(namespace, key string) string
}

// DefaultKeyer is the standard key builder.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key builder.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// NamingKey generates a key for a semantic-naming result.
// The prompt is hashed so arbitrarily long prompts produce bounded keys.
func (k *DefaultKeyer) NamingKey(model, prompt string) string {
	return hashKey("naming", model, prompt)
}

// PathwayKey generates a key for a built pathway document.
func (k *DefaultKeyer) PathwayKey(contentHash string) string {
	return hashKey("pathway", contentHash)
}

// HTTPKey generates a key for an HTTP response.
func (k *DefaultKeyer) HTTPKey(namespace, key string) string {
	return hashKey("http:"+namespace, key)
}
