package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// Service deployments use this to separate cache entries per tenant or
// per hosting account without touching the underlying key scheme.
//
// Example usage:
//
//	// Account-specific keys
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "acct:abc123:")
//
//	// Shared keys
//	keyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every key.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// NamingKey generates a prefixed key for a semantic-naming result.
func (k *ScopedKeyer) NamingKey(model, prompt string) string {
	return k.prefix + k.inner.NamingKey(model, prompt)
}

// PathwayKey generates a prefixed key for a built pathway document.
func (k *ScopedKeyer) PathwayKey(contentHash string) string {
	return k.prefix + k.inner.PathwayKey(contentHash)
}

// HTTPKey generates a prefixed key for an HTTP response.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}
