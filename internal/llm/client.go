package llm

import (
	"context"
	"encoding/json"
)

const (
	DefaultMaxTokens = 1000

	// ExtractionSystemPrompt is sent with every extraction request.
	ExtractionSystemPrompt = "You are a data extraction assistant. Extract exactly the data requested in the JSON format specified. Return ONLY valid JSON."
)

type LLMClient interface {
	Generate(ctx context.Context, prompt string, opts ...Option) (string, error)
}

type Options struct {
	System      string
	MaxTokens   int
	Temperature float32
	// JSONSchema asks for a JSON reply. Providers that accept a schema are
	// given it; the others only switch to JSON mode.
	JSONSchema json.RawMessage
}

type Option func(*Options)

func WithSystem(system string) Option {
	return func(o *Options) { o.System = system }
}

func WithMaxTokens(n int) Option {
	return func(o *Options) { o.MaxTokens = n }
}

func WithTemperature(t float32) Option {
	return func(o *Options) { o.Temperature = t }
}

func WithJSONSchema(schema json.RawMessage) Option {
	return func(o *Options) { o.JSONSchema = schema }
}

func applyOptions(opts []Option) Options {
	o := Options{MaxTokens: DefaultMaxTokens}
	for _, opt := range opts {
		opt(&o)
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	return o
}
