package callbacks_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/effective-security/agentcall/agent"
	"github.com/effective-security/agentcall/callbacks"
	"github.com/effective-security/agentcall/pkg/llms"
	"github.com/effective-security/agentcall/pkg/llms/llmtest"
	"github.com/effective-security/x/values"
	"github.com/invopop/jsonschema"
	"github.com/stretchr/testify/assert"
)

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	cb := callbacks.NewPrinter(&buf, callbacks.ModeVerbose)

	ag := &fakeAgent{name: "test-agent"}
	tool := &fakeTool{name: "test-tool"}
	model := llmtest.New()
	ctx := context.Background()

	cb.OnAgentStart(ctx, ag, "test input")
	cb.OnModelCallStart(ctx, ag, model, []llms.Message{
		llms.MessageFromTextParts(llms.RoleHuman, "test input"),
	})
	cb.OnModelCallEnd(ctx, ag, model, &llms.ContentResponse{
		Choices: []*llms.ContentChoice{
			{Content: "test output"},
		},
	})
	cb.OnToolStart(ctx, tool, ag.Name(), "test input")
	cb.OnToolEnd(ctx, tool, ag.Name(), "test input", "test output")
	cb.OnToolError(ctx, tool, ag.Name(), "test input", errors.New("test error"))
	cb.OnToolNotFound(ctx, ag, "missing-tool")
	cb.OnAgentEnd(ctx, ag, "test input", &agent.Response{Content: "test output"})
	cb.OnAgentError(ctx, ag, "test input", errors.New("test error"), nil)

	res := buf.String()
	assert.Contains(t, res, "Agent Start: test-agent")
	assert.Contains(t, res, "Input: test input")
	assert.Contains(t, res, "LLM Call: test-agent: llmtest model, 1 messages")
	assert.Contains(t, res, "LLM Call End: test-agent: llmtest model, 1 choices")
	assert.Contains(t, res, "Tool Start: test-tool")
	assert.Contains(t, res, "Tool End: test-tool")
	assert.Contains(t, res, "Output: test output")
	assert.Contains(t, res, "Tool Error: test-tool (test-agent): test error")
	assert.Contains(t, res, "Tool Not Found: missing-tool")
	assert.Contains(t, res, "Agent End: test-agent")
	assert.Contains(t, res, "Agent Error: test-agent: test error")
}

func TestFanout(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	fan := callbacks.NewFanout(callbacks.NewPrinter(&buf1, callbacks.ModeDefault))
	fan.Add(callbacks.NewPrinter(&buf2, callbacks.ModeDefault))

	ag := &fakeAgent{name: "test-agent"}
	fan.OnAgentStart(context.Background(), ag, "test input")

	assert.Contains(t, buf1.String(), "Agent Start: test-agent")
	assert.Contains(t, buf2.String(), "Agent Start: test-agent")
}

func TestNoop(t *testing.T) {
	// Noop only needs to satisfy the interface
	cb := callbacks.NewNoop()
	cb.OnAgentStart(context.Background(), &fakeAgent{name: "a"}, "in")
	cb.OnAgentEnd(context.Background(), &fakeAgent{name: "a"}, "in", &agent.Response{})
}

type fakeAgent struct {
	name         string
	capabilities []string
}

func (f *fakeAgent) Name() string {
	return f.name
}

func (f *fakeAgent) Capabilities() []string {
	return f.capabilities
}

type fakeTool struct {
	name        string
	description string
}

func (f *fakeTool) Name() string {
	return f.name
}
func (f *fakeTool) Description() string {
	return values.StringsCoalesce(f.description, "useful tool")
}
func (f *fakeTool) Parameters() *jsonschema.Schema {
	return nil
}
func (f *fakeTool) Call(context.Context, string) (string, error) {
	return "", nil
}
