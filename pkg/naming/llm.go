package naming

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// systemPrompt instructs the model to act as a node-labeling function.
const systemPrompt = "Generate a short, descriptive name (2-4 words) for a " +
	"conversation node based on its prompt. The name should capture the " +
	"main intent or action of the prompt."

// DefaultModel is the chat model used when none is configured.
const DefaultModel = "gpt-4o-mini"

const (
	// DefaultTemperature keeps labels stable across runs.
	DefaultTemperature = 0.2

	// DefaultMaxTokens bounds the completion; labels are a handful of words.
	DefaultMaxTokens = 20
)

// LLMOptions configures the LLM-backed namer.
type LLMOptions struct {
	// Model is the chat model identifier, used for cache keys and logging.
	Model string

	// Temperature for the completion call.
	Temperature float64

	// MaxTokens bounds the completion length.
	MaxTokens int

	// Logger receives per-call debug output. Defaults to a discard logger.
	Logger *log.Logger
}

// ValidateAndSetDefaults applies defaults for unset fields.
func (o *LLMOptions) ValidateAndSetDefaults() error {
	if o.Model == "" {
		o.Model = DefaultModel
	}
	if o.Temperature == 0 {
		o.Temperature = DefaultTemperature
	}
	if o.MaxTokens == 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// LLMNamer names nodes by asking a chat model for a label.
type LLMNamer struct {
	model llms.Model
	opts  LLMOptions
}

// NewLLMNamer creates a namer backed by the given chat model.
func NewLLMNamer(model llms.Model, opts LLMOptions) (*LLMNamer, error) {
	if model == nil {
		return nil, fmt.Errorf("model is required")
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &LLMNamer{model: model, opts: opts}, nil
}

// NewOpenAI constructs a langchaingo OpenAI model for use with NewLLMNamer.
// An empty token falls back to the OPENAI_API_KEY environment variable.
func NewOpenAI(model, token string) (llms.Model, error) {
	opts := []openai.Option{}
	if model != "" {
		opts = append(opts, openai.WithModel(model))
	}
	if token != "" {
		opts = append(opts, openai.WithToken(token))
	}
	return openai.New(opts...)
}

// Model returns the configured model identifier.
func (n *LLMNamer) Model() string { return n.opts.Model }

// Name generates a label for the prompt.
func (n *LLMNamer) Name(ctx context.Context, prompt string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, "Prompt: "+prompt),
	}

	resp, err := n.model.GenerateContent(ctx, messages,
		llms.WithTemperature(n.opts.Temperature),
		llms.WithMaxTokens(n.opts.MaxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("naming completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("naming completion: empty response")
	}

	name := Sanitize(resp.Choices[0].Content)
	if name == "" {
		return "", fmt.Errorf("naming completion: blank label")
	}

	n.opts.Logger.Debug("generated node name", "name", name)
	return name, nil
}

var _ Namer = (*LLMNamer)(nil)
