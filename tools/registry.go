package tools

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentcall/pkg/llms"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/agentcall", "tools")

var (
	ErrNotFound          = errors.New("tool not found")
	ErrDuplicateFunction = errors.New("function already registered")
)

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRejectDuplicates makes Register fail with ErrDuplicateFunction
// instead of replacing an existing tool with the same name.
func WithRejectDuplicates() RegistryOption {
	return func(r *Registry) {
		r.rejectDuplicates = true
	}
}

// Registry holds the tools available to an agent, in registration order.
// By default a re-registered name replaces the previous tool and keeps
// its position.
type Registry struct {
	mu               sync.RWMutex
	tools            map[string]ITool
	names            []string
	rejectDuplicates bool
}

func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		tools: make(map[string]ITool),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) Register(t ITool) error {
	name := t.Name()
	if name == "" {
		return errors.New("tool requires a name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tools[name]; ok {
		if r.rejectDuplicates {
			return errors.WithMessage(ErrDuplicateFunction, name)
		}
		logger.KV(xlog.DEBUG, "reason", "tool_replaced", "tool", name)
	} else {
		r.names = append(r.names, name)
	}
	r.tools[name] = t
	return nil
}

func (r *Registry) RegisterFunc(def Definition, fn Handler) error {
	t, err := NewFunc(def, fn)
	if err != nil {
		return err
	}
	return r.Register(t)
}

func (r *Registry) Resolve(name string) (ITool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	if !ok {
		return nil, errors.WithMessage(ErrNotFound, name)
	}
	return t, nil
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]string, len(r.names))
	copy(res, r.names)
	return res
}

// List returns the registered tools in registration order.
func (r *Registry) List() []ITool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]ITool, 0, len(r.names))
	for _, name := range r.names {
		res = append(res, r.tools[name])
	}
	return res
}

// Definitions returns the tool definitions in registration order,
// in the form sent to the model.
func (r *Registry) Definitions() []llms.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]llms.Tool, 0, len(r.names))
	for _, name := range r.names {
		t := r.tools[name]
		res = append(res, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}
	return res
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names)
}
