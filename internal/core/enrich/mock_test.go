package enrich

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/ReallyLiri/MacTutorIndex/internal/llm"
)

// MockLLMClient answers attribute prompts and connection prompts from two
// fixed replies and records what it was asked.
type MockLLMClient struct {
	Attributes  string
	Connections string
	Err         error

	mu      sync.Mutex
	Prompts []string
	Options []llm.Options
}

func (m *MockLLMClient) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	var o llm.Options
	for _, opt := range opts {
		opt(&o)
	}
	m.mu.Lock()
	m.Prompts = append(m.Prompts, prompt)
	m.Options = append(m.Options, o)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.Err != nil {
		return "", m.Err
	}
	if strings.Contains(prompt, connectionsMarker) {
		if m.Connections == "" {
			return "", errors.New("unexpected connections prompt")
		}
		return m.Connections, nil
	}
	return m.Attributes, nil
}

func (m *MockLLMClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}

const connectionsMarker = "CONNECTIONS:"
