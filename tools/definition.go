package tools

import (
	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ParamKind is the declared type of a function parameter.
type ParamKind string

const (
	String  ParamKind = "string"
	Integer ParamKind = "integer"
	Number  ParamKind = "number"
	Boolean ParamKind = "boolean"
	Object  ParamKind = "object"
	Array   ParamKind = "array"
)

// ParamSpec declares a single function parameter.
type ParamSpec struct {
	Name        string
	Kind        ParamKind
	Description string
	Required    bool
	// Default is applied when an optional parameter is absent.
	Default any
}

// Definition declares a callable function: its name, what it does,
// and the parameters it accepts. Definitions are immutable after
// registration.
type Definition struct {
	Name        string
	Description string
	Params      []ParamSpec
	// ReturnHint describes the shape of the result for the prompt.
	ReturnHint string
}

// Schema builds the JSON Schema of the parameters,
// with properties in declaration order.
func (d Definition) Schema() *jsonschema.Schema {
	props := orderedmap.New[string, *jsonschema.Schema]()
	var required []string
	for _, p := range d.Params {
		prop := &jsonschema.Schema{
			Type:        string(p.Kind),
			Description: p.Description,
		}
		if p.Default != nil {
			prop.Default = p.Default
		}
		props.Set(p.Name, prop)
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return &jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}
