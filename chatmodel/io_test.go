package chatmodel

import (
	"testing"

	"github.com/invopop/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputRequest(t *testing.T) {
	t.Parallel()
	r := &InputRequest{}
	raw := `{"input":"hello"}`
	err := r.ParseInput(raw)
	require.NoError(t, err)
	assert.Equal(t, "hello", r.Input)

	// GetContent returns input
	assert.Equal(t, "hello", r.GetContent())

	// Bad input
	err = r.ParseInput("{broken}")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFailedUnmarshalInput)

	// NewInputRequest
	ri := NewInputRequest("bar")
	assert.Equal(t, "bar", ri.Input)
}

func TestInputRequest_JSONSchemaExtend(t *testing.T) {
	t.Parallel()
	r := InputRequest{}
	schema := &jsonschema.Schema{}
	r.JSONSchemaExtend(schema)
	assert.Equal(t, "Input Request", schema.Title)
}

func TestOutputResult(t *testing.T) {
	t.Parallel()
	r := OutputResult{Content: "foo"}
	assert.Equal(t, "foo", r.GetContent())

	nr := NewOutputResult("baz")
	assert.Equal(t, "baz", nr.Content)
}
