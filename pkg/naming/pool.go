package naming

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Pool defaults.
const (
	// DefaultConcurrency bounds in-flight naming calls.
	DefaultConcurrency = 4

	// DefaultCallTimeout bounds a single naming call. A slow backend
	// degrades that one label to Fallback instead of stalling the build.
	DefaultCallTimeout = 15 * time.Second
)

// PoolOptions configures a naming pool.
type PoolOptions struct {
	// Concurrency is the maximum number of in-flight naming calls.
	Concurrency int

	// CallTimeout bounds each individual call.
	CallTimeout time.Duration

	// Logger receives a warning for every degraded label.
	Logger *log.Logger
}

// ValidateAndSetDefaults applies defaults for unset fields.
func (o *PoolOptions) ValidateAndSetDefaults() error {
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.CallTimeout <= 0 {
		o.CallTimeout = DefaultCallTimeout
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// Pool runs naming calls with bounded parallelism while keeping results in
// input order. Failed or empty results come back as Fallback.
type Pool struct {
	namer Namer
	opts  PoolOptions
}

// NewPool creates a naming pool around namer.
func NewPool(namer Namer, opts PoolOptions) (*Pool, error) {
	_ = opts.ValidateAndSetDefaults()
	return &Pool{namer: namer, opts: opts}, nil
}

// NameAll names every prompt and returns labels in the same order as the
// input. Individual failures degrade to Fallback; the only error returned
// is a cancelled context.
func (p *Pool) NameAll(ctx context.Context, prompts []string) ([]string, error) {
	names := make([]string, len(prompts))
	sem := make(chan struct{}, p.opts.Concurrency)
	var wg sync.WaitGroup

	for i, prompt := range prompts {
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, prompt string) {
			defer wg.Done()
			defer func() { <-sem }()
			names[i] = p.name(ctx, prompt)
		}(i, prompt)
	}

	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return names, nil
}

// Name names a single prompt with the pool's timeout and fallback policy.
func (p *Pool) Name(ctx context.Context, prompt string) string {
	return p.name(ctx, prompt)
}

func (p *Pool) name(ctx context.Context, prompt string) string {
	callCtx, cancel := context.WithTimeout(ctx, p.opts.CallTimeout)
	defer cancel()

	name, err := p.namer.Name(callCtx, prompt)
	if err != nil {
		p.opts.Logger.Warn("node naming failed, using fallback", "error", err)
		return Fallback
	}
	if name = Sanitize(name); name == "" {
		p.opts.Logger.Warn("node naming returned blank label, using fallback")
		return Fallback
	}
	return name
}
