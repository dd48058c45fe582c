package tools

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentcall/pkg/llmutils"
	"github.com/invopop/jsonschema"
)

// Handler executes a registered function with validated arguments.
type Handler func(ctx context.Context, args Args) (any, error)

// Func binds a Definition to a Handler, exposing it as an ITool.
// Arguments are parsed and validated before the handler runs;
// the handler never sees a malformed payload.
type Func struct {
	def    Definition
	fn     Handler
	schema *jsonschema.Schema
}

var _ ITool = (*Func)(nil)

func NewFunc(def Definition, fn Handler) (*Func, error) {
	if def.Name == "" {
		return nil, errors.New("function definition requires a name")
	}
	if fn == nil {
		return nil, errors.Newf("function %q requires a handler", def.Name)
	}
	return &Func{
		def:    def,
		fn:     fn,
		schema: def.Schema(),
	}, nil
}

func (t *Func) Name() string {
	return t.def.Name
}

func (t *Func) Description() string {
	if t.def.ReturnHint != "" {
		return t.def.Description + " Returns: " + t.def.ReturnHint
	}
	return t.def.Description
}

func (t *Func) Parameters() *jsonschema.Schema {
	return t.schema
}

func (t *Func) Definition() Definition {
	return t.def
}

func (t *Func) Call(ctx context.Context, input string) (string, error) {
	raw, err := ParseArgs(input)
	if err != nil {
		return "", err
	}
	args, err := Validate(t.def, raw)
	if err != nil {
		return "", err
	}
	res, err := t.fn(ctx, args)
	if err != nil {
		return "", errors.WithMessagef(err, "function %q failed", t.def.Name)
	}
	return llmutils.Stringify(res), nil
}
