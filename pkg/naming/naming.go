// Package naming generates short semantic labels for conversation nodes.
//
// The core abstraction is the Namer interface: given a node prompt, produce
// a 2-4 word label that captures its intent ("Initial Rapport Building",
// "Needs Discovery"). The production implementation calls an LLM through
// langchaingo; tests and offline runs use Static.
//
// Naming is best-effort by contract. Callers that build nodes must degrade
// to Fallback when a Namer errors or returns an empty result, so a dead
// naming backend can never fail a pathway build.
package naming

import (
	"context"
	"strings"
)

// Fallback is the label used when semantic naming fails or is disabled.
const Fallback = "Conversation Node"

// Namer produces a semantic label for a node prompt.
type Namer interface {
	// Name returns a short descriptive label for the prompt.
	// An empty result is treated as a failure by callers.
	Name(ctx context.Context, prompt string) (string, error)
}

// Static is a Namer that always returns the same label.
// Useful for tests and for runs with naming disabled.
type Static string

// Name returns the static label.
func (s Static) Name(_ context.Context, _ string) (string, error) {
	return string(s), nil
}

// Func adapts a function to the Namer interface.
type Func func(ctx context.Context, prompt string) (string, error)

// Name calls the wrapped function.
func (f Func) Name(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Sanitize normalizes a raw model completion into a usable label:
// surrounding whitespace and quotes are stripped and only the first line
// is kept. Returns "" if nothing usable remains.
func Sanitize(raw string) string {
	s := strings.TrimSpace(raw)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	s = strings.Trim(s, `"`)
	s = strings.TrimSuffix(strings.TrimSpace(s), ".")
	return strings.TrimSpace(s)
}
