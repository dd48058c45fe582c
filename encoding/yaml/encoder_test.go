package yaml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYamlEncoder(t *testing.T) {
	type Details struct {
		Location string `yaml:"location" jsonschema:"description=location" fake:"Beijing"`
		Gender   string `yaml:"gender" jsonschema:"description=gender" fake:"male"`
	}

	type Person struct {
		Name    string   `yaml:"name" jsonschema:"description=person name" fake:"Syd Xu"`
		Age     *int     `yaml:"age" jsonschema:"description=Age of a person" fake:"24"`
		Details *Details `yaml:"details" jsonschema:"description=Details of a person"`
	}

	enc := NewEncoder(Person{})
	exp := `
Respond with YAML in the following YAML schema without comments:
` + "```yaml" + `
name: Syd Xu
age: 24
details:
    location: Beijing
    gender: male
` + "```" + `
Make sure to return an instance of the YAML, not the schema itself.
`
	assert.Equal(t, exp, enc.GetFormatInstructions())

	var p Person
	raw := "```yaml\nname: Bob\nage: 42\ndetails:\n    location: Paris\n    gender: male\n```"
	err := enc.Unmarshal([]byte(raw), &p)
	require.NoError(t, err)
	assert.Equal(t, "Bob", p.Name)
	require.NotNil(t, p.Age)
	assert.Equal(t, 42, *p.Age)
	require.NotNil(t, p.Details)
	assert.Equal(t, "Paris", p.Details.Location)
}
