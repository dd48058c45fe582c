package json

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type details struct {
	Location string `json:"location" jsonschema:"description=location"`
	Gender   string `json:"gender" jsonschema:"description=gender"`
}

type person struct {
	Name       string    `json:"name" jsonschema:"description=person name"`
	Age        *int      `json:"age" jsonschema:"description=Age of a person"`
	Details    *details  `json:"details,omitempty" jsonschema:"description=Details of a person"`
	DetailList []details `json:"details_list,omitempty" jsonschema:"description=Details list of a person"`
}

func TestEncoder_FormatInstructions(t *testing.T) {
	enc, err := NewEncoder(person{})
	require.NoError(t, err)

	instr := enc.GetFormatInstructions()
	assert.Contains(t, instr, "Respond with JSON in the following JSON schema:")
	assert.Contains(t, instr, "```json")
	assert.Contains(t, instr, `"description": "person name"`)
	assert.Contains(t, instr, `"details_list"`)
	assert.Contains(t, instr, "Use the exact field names as they are defined in the schema.")
	// nested definitions are resolved inline
	assert.NotContains(t, instr, "$ref")
	assert.NotContains(t, instr, "$defs")

	require.NotNil(t, enc.Schema())
}

func TestEncoder_Unmarshal(t *testing.T) {
	enc, err := NewEncoder(person{})
	require.NoError(t, err)

	// models often wrap JSON in backticks and add trailing commas
	raw := "```json\n" + `{"name": "Alice", "age": 30, "details": {"location": "Austin", "gender": "female"},}` + "\n```"
	var p person
	err = enc.Unmarshal([]byte(raw), &p)
	require.NoError(t, err)
	assert.Equal(t, "Alice", p.Name)
	require.NotNil(t, p.Age)
	assert.Equal(t, 30, *p.Age)
	require.NotNil(t, p.Details)
	assert.Equal(t, "Austin", p.Details.Location)

	bs, err := enc.Marshal(&p)
	require.NoError(t, err)
	assert.Contains(t, string(bs), `"name":"Alice"`)
}

func TestEncoder_Validate(t *testing.T) {
	type loginReq struct {
		Email string `json:"email" validate:"required,email"`
	}
	enc, err := NewEncoder(loginReq{})
	require.NoError(t, err)

	assert.Error(t, enc.Validate(loginReq{Email: "not-an-email"}))
	assert.NoError(t, enc.Validate(loginReq{Email: "a@b.co"}))
}
