package agent

import (
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentcall/pkg/llms"
	"github.com/effective-security/agentcall/pkg/prompts"
	"github.com/effective-security/agentcall/tools"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/agentcall", "agent")

//go:generate mockgen -destination=../mocks/mockllms/llm_mock.gen.go -package mockllms github.com/effective-security/agentcall/pkg/llms Model

// Agent orchestrates model round-trips and tool execution.
// Capabilities and registered functions are shared read-only
// between concurrent Respond calls.
type Agent struct {
	llm      llms.Model
	cfg      *Config
	name     string
	registry *tools.Registry

	sysprompt prompts.FormatPrompter

	mu           sync.RWMutex
	capabilities []string
}

var _ IAgent = (*Agent)(nil)

// New creates an agent backed by the given model.
func New(name string, model llms.Model, opts ...Option) *Agent {
	cfg := NewConfig(opts...)
	a := &Agent{
		llm:       model,
		cfg:       cfg,
		name:      name,
		registry:  tools.NewRegistry(),
		sysprompt: cfg.PromptTemplate,
	}
	if a.sysprompt == nil {
		a.sysprompt = NewDefaultPrompt()
	}
	return a
}

// Name returns the name of the agent.
func (a *Agent) Name() string {
	return a.name
}

// Learn appends a capability statement. Empty or whitespace-only
// statements are rejected.
func (a *Agent) Learn(capability string) error {
	capability = strings.TrimSpace(capability)
	if capability == "" {
		logger.KV(xlog.WARNING,
			"agent", a.name,
			"status", "empty_capability_rejected",
		)
		return errors.New("capability must not be empty")
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.capabilities = append(a.capabilities, capability)
	return nil
}

// Capabilities returns the learned capability statements in insertion order.
func (a *Agent) Capabilities() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]string, len(a.capabilities))
	copy(out, a.capabilities)
	return out
}

// RegisterFunc declares a function and binds its handler.
func (a *Agent) RegisterFunc(def tools.Definition, fn tools.Handler) error {
	return a.registry.RegisterFunc(def, fn)
}

// Tools returns the agent's function registry.
func (a *Agent) Tools() *tools.Registry {
	return a.registry
}
