package naming

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tmc/langchaingo/llms"

	"github.com/pathforge/pathforge/pkg/cache"
)

// fakeModel is a canned llms.Model for tests.
type fakeModel struct {
	content string
	err     error
	calls   int
}

func (m *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: m.content}},
	}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	resp, err := m.GenerateContent(ctx, []llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, prompt)})
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`"Initial Rapport Building"`, "Initial Rapport Building"},
		{"  Needs Discovery  ", "Needs Discovery"},
		{"Value Proposition.\nSecond line ignored", "Value Proposition"},
		{`""`, ""},
		{"   ", ""},
		{"Closing Attempt", "Closing Attempt"},
	}
	for _, tt := range tests {
		if got := Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStaticNamer(t *testing.T) {
	name, err := Static("Fixed Label").Name(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Name: %v", err)
	}
	if name != "Fixed Label" {
		t.Errorf("Name = %q", name)
	}
}

func TestLLMNamer(t *testing.T) {
	model := &fakeModel{content: `"Initial Rapport Building"`}
	n, err := NewLLMNamer(model, LLMOptions{})
	if err != nil {
		t.Fatalf("NewLLMNamer: %v", err)
	}
	if n.Model() != DefaultModel {
		t.Errorf("Model = %q", n.Model())
	}

	name, err := n.Name(context.Background(), "Hi! How are you doing today?")
	if err != nil {
		t.Fatalf("Name: %v", err)
	}
	if name != "Initial Rapport Building" {
		t.Errorf("Name = %q", name)
	}
}

func TestLLMNamerErrors(t *testing.T) {
	if _, err := NewLLMNamer(nil, LLMOptions{}); err == nil {
		t.Error("nil model should be rejected")
	}

	n, _ := NewLLMNamer(&fakeModel{err: errors.New("boom")}, LLMOptions{})
	if _, err := n.Name(context.Background(), "p"); err == nil {
		t.Error("backend error should propagate")
	}

	n, _ = NewLLMNamer(&fakeModel{content: `""`}, LLMOptions{})
	if _, err := n.Name(context.Background(), "p"); err == nil {
		t.Error("blank label should be an error")
	}
}

func TestCachedNamer(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	calls := 0
	inner := Func(func(ctx context.Context, prompt string) (string, error) {
		calls++
		return "Needs Discovery", nil
	})
	n := NewCachedNamer(inner, "gpt-4o-mini", c, nil)

	for i := 0; i < 3; i++ {
		name, err := n.Name(ctx, "What challenges are you facing?")
		if err != nil {
			t.Fatalf("Name: %v", err)
		}
		if name != "Needs Discovery" {
			t.Errorf("Name = %q", name)
		}
	}
	if calls != 1 {
		t.Errorf("inner namer called %d times, want 1", calls)
	}

	// A different model must not share the entry.
	other := NewCachedNamer(inner, "gpt-4o", c, nil)
	if _, err := other.Name(ctx, "What challenges are you facing?"); err != nil {
		t.Fatalf("Name: %v", err)
	}
	if calls != 2 {
		t.Errorf("inner namer called %d times, want 2", calls)
	}
}

func TestCachedNamerPropagatesError(t *testing.T) {
	inner := Func(func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("backend down")
	})
	n := NewCachedNamer(inner, "m", cache.NewNullCache(), nil)
	if _, err := n.Name(context.Background(), "p"); err == nil || !strings.Contains(err.Error(), "backend down") {
		t.Errorf("error should propagate, got %v", err)
	}
}
