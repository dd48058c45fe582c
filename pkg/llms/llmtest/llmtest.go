// Package llmtest provides a scripted in-memory chat model for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentcall/pkg/llms"
)

// Call records a single GenerateContent invocation.
type Call struct {
	Messages []llms.Message
	Options  llms.CallOptions
}

type step struct {
	resp *llms.ContentResponse
	err  error
}

// Model replays scripted responses in order and records every call.
// Safe for concurrent use.
type Model struct {
	mu       sync.Mutex
	name     string
	provider llms.ProviderType
	steps    []step
	calls    []Call
}

var _ llms.Model = (*Model)(nil)

// New creates an empty scripted model.
func New() *Model {
	return &Model{
		name:     "llmtest",
		provider: "TEST",
	}
}

// WithName sets the reported model name.
func (m *Model) WithName(name string) *Model {
	m.name = name
	return m
}

// WithProviderType sets the reported provider type.
func (m *Model) WithProviderType(provider llms.ProviderType) *Model {
	m.provider = provider
	return m
}

// AddResponse appends a scripted response.
func (m *Model) AddResponse(resp *llms.ContentResponse) *Model {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, step{resp: resp})
	return m
}

// AddTextResponse appends a scripted response with a single text choice.
func (m *Model) AddTextResponse(text string) *Model {
	return m.AddResponse(&llms.ContentResponse{
		Choices: []*llms.ContentChoice{
			{Content: text, StopReason: "stop"},
		},
	})
}

// AddToolCallResponse appends a scripted response proposing the given tool calls.
func (m *Model) AddToolCallResponse(toolCalls ...llms.ToolCall) *Model {
	return m.AddResponse(&llms.ContentResponse{
		Choices: []*llms.ContentChoice{
			{StopReason: "tool_calls", ToolCalls: toolCalls},
		},
	})
}

// AddError appends a scripted error.
func (m *Model) AddError(err error) *Model {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, step{err: err})
	return m
}

// Calls returns the recorded invocations.
func (m *Model) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns the number of recorded invocations.
func (m *Model) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// GetName implements the Model interface.
func (m *Model) GetName() string {
	return m.name
}

// GetProviderType implements the Model interface.
func (m *Model) GetProviderType() llms.ProviderType {
	return m.provider
}

// GenerateContent implements the Model interface.
func (m *Model) GenerateContent(ctx context.Context, messages []llms.Message, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts := llms.CallOptions{}
	for _, opt := range options {
		opt(&opts)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	msgs := make([]llms.Message, len(messages))
	copy(msgs, messages)
	m.calls = append(m.calls, Call{Messages: msgs, Options: opts})

	if len(m.steps) == 0 {
		return nil, errors.Newf("llmtest: script exhausted after %d calls", len(m.calls))
	}
	next := m.steps[0]
	m.steps = m.steps[1:]
	if next.err != nil {
		return nil, next.err
	}
	return next.resp, nil
}
