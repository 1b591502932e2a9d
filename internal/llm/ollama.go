package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"
)

// OllamaClient talks to a local Ollama server through its native chat API,
// passing JSON schemas through as the response format.
type OllamaClient struct {
	client *api.Client
	model  string
}

func NewOllamaClient(model string, baseURL string) (*OllamaClient, error) {
	var u *url.URL
	if baseURL != "" {
		parsed, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid ollama base url: %w", err)
		}
		u = parsed
	}
	if u == nil {
		c, err := api.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("failed to create ollama client: %w", err)
		}
		return &OllamaClient{client: c, model: model}, nil
	}
	return &OllamaClient{client: api.NewClient(u, http.DefaultClient), model: model}, nil
}

func (c *OllamaClient) Generate(ctx context.Context, prompt string, opts ...Option) (string, error) {
	o := applyOptions(opts)

	var messages []api.Message
	if o.System != "" {
		messages = append(messages, api.Message{Role: "system", Content: o.System})
	}
	messages = append(messages, api.Message{Role: "user", Content: prompt})

	stream := false
	req := &api.ChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   &stream,
		Options: map[string]any{
			"temperature": o.Temperature,
			"num_predict": o.MaxTokens,
		},
	}
	if o.JSONSchema != nil {
		req.Format = o.JSONSchema
	}

	var reply string
	err := c.client.Chat(ctx, req, func(cr api.ChatResponse) error {
		reply += cr.Message.Content
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat failed: %w", err)
	}
	return reply, nil
}
