package naming

import (
	"context"
	"errors"
	"testing"

	"github.com/tmc/langchaingo/llms"
)

// fakeLLMModel returns canned completions and records the last message set.
type fakeLLMModel struct {
	reply    string
	err      error
	messages []llms.MessageContent
}

func (m *fakeLLMModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	m.messages = messages
	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: m.reply}},
	}, nil
}

func (m *fakeLLMModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	resp, err := m.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}, options...)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}

func TestLLMNamerName(t *testing.T) {
	model := &fakeLLMModel{reply: `"Needs Discovery"`}
	namer, err := NewLLMNamer(model, LLMOptions{})
	if err != nil {
		t.Fatalf("NewLLMNamer() error = %v", err)
	}

	name, err := namer.Name(context.Background(), "Ask about their needs")
	if err != nil {
		t.Fatalf("Name() error = %v", err)
	}
	// Surrounding quotes are stripped by Sanitize.
	if name != "Needs Discovery" {
		t.Errorf("Name() = %q, want Needs Discovery", name)
	}

	// The system instruction and the prompt both reach the model.
	if len(model.messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(model.messages))
	}
	if model.messages[0].Role != llms.ChatMessageTypeSystem {
		t.Errorf("first message role = %v, want system", model.messages[0].Role)
	}
}

func TestLLMNamerErrorCases(t *testing.T) {
	tests := []struct {
		name  string
		model *fakeLLMModel
	}{
		{"model failure", &fakeLLMModel{err: errors.New("boom")}},
		{"blank completion", &fakeLLMModel{reply: "  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			namer, err := NewLLMNamer(tt.model, LLMOptions{})
			if err != nil {
				t.Fatalf("NewLLMNamer() error = %v", err)
			}
			if _, err := namer.Name(context.Background(), "prompt"); err == nil {
				t.Error("Name() should fail")
			}
		})
	}
}

func TestNewLLMNamerRequiresModel(t *testing.T) {
	if _, err := NewLLMNamer(nil, LLMOptions{}); err == nil {
		t.Error("NewLLMNamer(nil) should fail")
	}
}

func TestLLMOptionsDefaults(t *testing.T) {
	var opts LLMOptions
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if opts.Model != DefaultModel {
		t.Errorf("Model = %q, want %q", opts.Model, DefaultModel)
	}
	if opts.Temperature != DefaultTemperature || opts.MaxTokens != DefaultMaxTokens {
		t.Errorf("defaults = %v/%d", opts.Temperature, opts.MaxTokens)
	}
}

var _ llms.Model = (*fakeLLMModel)(nil)
