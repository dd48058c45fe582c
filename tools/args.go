package tools

import (
	"fmt"
	"math"
	"strings"

	"github.com/bububa/ljson"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentcall/pkg/llmutils"
	"github.com/spf13/cast"
)

var (
	ErrMissingArgument = errors.New("missing required argument")
	ErrTypeCoercion    = errors.New("argument type mismatch")
)

// ArgumentError describes an invalid argument in a model-proposed call.
// The message is written for the model, so it can correct the call.
type ArgumentError struct {
	Func     string
	Param    string
	Expected string
	Reason   string

	err error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("function %q: parameter %q: expected %s: %s",
		e.Func, e.Param, e.Expected, e.Reason)
}

func (e *ArgumentError) Unwrap() error {
	return e.err
}

func newMissingArgumentError(fn string, p ParamSpec) *ArgumentError {
	return &ArgumentError{
		Func:     fn,
		Param:    p.Name,
		Expected: string(p.Kind),
		Reason:   "required argument is missing",
		err:      ErrMissingArgument,
	}
}

func newCoercionError(fn string, p ParamSpec, val any) *ArgumentError {
	return &ArgumentError{
		Func:     fn,
		Param:    p.Name,
		Expected: string(p.Kind),
		Reason:   fmt.Sprintf("cannot convert %T value %v", val, val),
		err:      ErrTypeCoercion,
	}
}

// IsArgumentError reports whether err carries an ArgumentError,
// meaning the call was rejected before the handler ran.
func IsArgumentError(err error) bool {
	var argErr *ArgumentError
	return errors.As(err, &argErr)
}

// Args holds validated, coerced arguments for a function call.
type Args map[string]any

func (a Args) GetString(name string) string {
	return cast.ToString(a[name])
}

func (a Args) GetInt(name string) int64 {
	return cast.ToInt64(a[name])
}

func (a Args) GetFloat(name string) float64 {
	return cast.ToFloat64(a[name])
}

func (a Args) GetBool(name string) bool {
	return cast.ToBool(a[name])
}

func (a Args) GetMap(name string) map[string]any {
	return cast.ToStringMap(a[name])
}

func (a Args) GetSlice(name string) []any {
	v, _ := a[name].([]any)
	return v
}

func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// ParseArgs decodes a model-proposed argument payload into a raw map.
// Payloads are lenient JSON: backtick fences, trailing commas and
// truncated objects are repaired. An empty payload is an empty object.
func ParseArgs(payload string) (map[string]any, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return map[string]any{}, nil
	}
	data := llmutils.CleanJSON([]byte(payload))
	var raw map[string]any
	if err := ljson.Unmarshal(data, &raw); err != nil {
		return nil, errors.WithMessagef(err, "arguments are not a JSON object: %s",
			llmutils.TrimBackticks(payload))
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

// Validate checks a raw argument map against the definition and returns
// coerced Args. Missing required parameters and uncoercible values
// produce ArgumentError. Unknown keys are dropped. Coercion is
// idempotent: validating already-coerced Args yields the same values.
func Validate(def Definition, raw map[string]any) (Args, error) {
	args := make(Args, len(def.Params))
	for _, p := range def.Params {
		val, ok := raw[p.Name]
		if !ok || val == nil {
			if p.Required {
				return nil, newMissingArgumentError(def.Name, p)
			}
			if p.Default != nil {
				args[p.Name] = p.Default
			}
			continue
		}
		coerced, err := coerce(p, val)
		if err != nil {
			return nil, newCoercionError(def.Name, p, val)
		}
		args[p.Name] = coerced
	}
	return args, nil
}

func coerce(p ParamSpec, val any) (any, error) {
	switch p.Kind {
	case String:
		return cast.ToStringE(val)
	case Integer:
		if f, ok := val.(float64); ok {
			if f != math.Trunc(f) {
				return nil, errors.Newf("fractional value %v", f)
			}
			return int64(f), nil
		}
		return cast.ToInt64E(val)
	case Number:
		return cast.ToFloat64E(val)
	case Boolean:
		return cast.ToBoolE(val)
	case Object:
		if m, ok := val.(map[string]any); ok {
			return m, nil
		}
		return nil, errors.Newf("not an object")
	case Array:
		if s, ok := val.([]any); ok {
			return s, nil
		}
		return nil, errors.Newf("not an array")
	default:
		return nil, errors.Newf("unknown parameter kind %q", p.Kind)
	}
}
