package naming

import (
	"context"

	"github.com/pathforge/pathforge/pkg/cache"
)

// CachedNamer wraps a Namer with a byte cache so repeated builds of the
// same content reuse labels instead of re-calling the model.
type CachedNamer struct {
	inner Namer
	model string
	cache cache.Cache
	keyer cache.Keyer
}

// NewCachedNamer wraps inner with caching. The model string is part of the
// cache key so different models never share labels. A nil keyer uses the
// default key scheme.
func NewCachedNamer(inner Namer, model string, c cache.Cache, keyer cache.Keyer) *CachedNamer {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &CachedNamer{inner: inner, model: model, cache: c, keyer: keyer}
}

// Name returns the cached label when present, otherwise delegates to the
// inner namer and stores the result. Cache failures are treated as misses;
// only the inner namer's error can surface.
func (n *CachedNamer) Name(ctx context.Context, prompt string) (string, error) {
	key := n.keyer.NamingKey(n.model, prompt)

	if data, hit, err := n.cache.Get(ctx, key); err == nil && hit {
		return string(data), nil
	}

	name, err := n.inner.Name(ctx, prompt)
	if err != nil {
		return "", err
	}

	_ = n.cache.Set(ctx, key, []byte(name), cache.DefaultTTL)
	return name, nil
}

var _ Namer = (*CachedNamer)(nil)
