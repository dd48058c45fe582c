package agent

import (
	"context"

	"github.com/effective-security/agentcall/pkg/llms"
	"github.com/effective-security/agentcall/tools"
)

// IAgent is the read-only view of an agent exposed to callbacks.
type IAgent interface {
	// Name returns the name of the agent.
	Name() string
	// Capabilities returns the learned capability statements.
	Capabilities() []string
}

// Callback observes the agent run.
type Callback interface {
	OnAgentStart(ctx context.Context, agent IAgent, input string)
	OnAgentEnd(ctx context.Context, agent IAgent, input string, resp *Response)
	OnAgentError(ctx context.Context, agent IAgent, input string, err error, messages []llms.Message)

	OnModelCallStart(ctx context.Context, agent IAgent, llm llms.Model, payload []llms.Message)
	OnModelCallEnd(ctx context.Context, agent IAgent, llm llms.Model, resp *llms.ContentResponse)

	OnToolStart(ctx context.Context, tool tools.ITool, agentName, input string)
	OnToolEnd(ctx context.Context, tool tools.ITool, agentName, input string, output string)
	OnToolError(ctx context.Context, tool tools.ITool, agentName, input string, err error)
	OnToolNotFound(ctx context.Context, agent IAgent, tool string)
}
