package llmutils_test

import (
	"strings"
	"testing"

	"github.com/effective-security/agentcall/pkg/llms"
	"github.com/effective-security/agentcall/pkg/llmutils"
	"github.com/stretchr/testify/assert"
)

func Test_CleanJSON(t *testing.T) {
	llmOutput := "\n```json\n\n{\"city\": \"Paris\", \"country\": \"France\"}\n\n```\n\n"
	clean := llmutils.CleanJSON([]byte(llmOutput))

	expected := "{\"city\": \"Paris\", \"country\": \"France\"}"
	assert.Equal(t, expected, string(clean))

	llmOutput = "Here you go:\n```json\n\n[{\"city\": \"Paris\", \"country\": \"France\"}]\n```\n\n"
	clean = llmutils.CleanJSON([]byte(llmOutput))

	expected = "[{\"city\": \"Paris\", \"country\": \"France\"}]"
	assert.Equal(t, expected, string(clean))
}

func Test_TrimBackticks(t *testing.T) {
	expected := "{\"city\": \"Paris\", \"country\": \"France\"}"

	assert.Equal(t, expected, llmutils.TrimBackticks("\n```json\n\n{\"city\": \"Paris\", \"country\": \"France\"}\n\n```\n\n"))
	// the same
	assert.Equal(t, expected, llmutils.TrimBackticks(expected))
	assert.Equal(t, expected, llmutils.TrimBackticks("\n```\n\n{\"city\": \"Paris\", \"country\": \"France\"}\n\n```\n\n"))
	assert.Equal(t, expected, llmutils.TrimBackticks("\n```{\"city\": \"Paris\", \"country\": \"France\"}\n\n```\n\n"))
}

func Test_BackticksJSON(t *testing.T) {
	json := "{\"city\": \"Paris\", \"country\": \"France\"}"
	wrapped := llmutils.BackticksJSON(json)

	expected := "\n```json\n{\"city\": \"Paris\", \"country\": \"France\"}\n```\n"
	assert.Equal(t, expected, wrapped)
}

func Test_BackticksYAML(t *testing.T) {
	yaml := "name: John\nage: 30"
	expected := "\n```yaml\nname: John\nage: 30\n```\n"
	assert.Equal(t, expected, llmutils.BackticksYAML(yaml))
}

func Test_FindLastUserQuestion(t *testing.T) {
	msgs := []llms.Message{
		llms.MessageFromTextParts(llms.RoleSystem, "What is the capital of Italy?"),
		llms.MessageFromTextParts(llms.RoleHuman, "What is the capital of Germany?"),
		llms.MessageFromToolCalls(llms.RoleAI, llms.ToolCall{ID: "1", Type: "function", FunctionCall: &llms.FunctionCall{Name: "tool1", Arguments: "arg1"}}),
		llms.MessageFromToolResponse(llms.RoleTool, llms.ToolCallResponse{ToolCallID: "1", Name: "tool1", Content: "tool1 result"}),
		llms.MessageFromTextParts(llms.RoleAI, "What is the capital of France?"),
	}

	question := llmutils.FindLastUserQuestion(msgs)
	assert.Equal(t, "What is the capital of Germany?", question)

	var buf strings.Builder
	llmutils.PrintMessages(&buf, msgs)
	exp := `SYSTEM: What is the capital of Italy?
HUMAN: What is the capital of Germany?
AI: ToolCall ID=1, Type=function, Func=tool1(arg1)
TOOL: ToolCallResponse ID=1, Name=tool1, Content=tool1 result
AI: What is the capital of France?
`
	assert.Equal(t, exp, buf.String())
}

func Test_EnsureNewline(t *testing.T) {
	assert.Equal(t, "", llmutils.EnsureEndsWithNewline(" \n"))
	assert.Equal(t, "Hello\n", llmutils.EnsureEndsWithNewline(" \nHello"))
	assert.Equal(t, "Hello\n", llmutils.EnsureEndsWithNewline("\nHello\n"))
	assert.Equal(t, "Hello\n", llmutils.EnsureEndsWithNewline("Hello\n\n"))
}

func Test_JSONIndent(t *testing.T) {
	input := `{"name":"John","age":30}`
	expected := "{\n\t\"name\": \"John\",\n\t\"age\": 30\n}"
	assert.Equal(t, expected, llmutils.JSONIndent(input))
}

func Test_ToJSON(t *testing.T) {
	type Person struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}
	p := Person{Name: "John", Age: 30}
	expected := `{"name":"John","age":30}`
	assert.Equal(t, expected, llmutils.ToJSON(p))
	assert.Equal(t, "{\n\t\"name\": \"John\",\n\t\"age\": 30\n}", llmutils.ToJSONIndent(p))
}

func Test_ToYAML(t *testing.T) {
	type Person struct {
		Name string `yaml:"name"`
		Age  int    `yaml:"age"`
	}
	p := Person{Name: "John", Age: 30}
	expected := "name: John\nage: 30\n"
	assert.Equal(t, expected, llmutils.ToYAML(p))
}

type CustomString struct{}

func (c CustomString) String() string { return "custom string" }

func Test_Stringify(t *testing.T) {
	assert.Equal(t, "hello", llmutils.Stringify("hello"))

	type Person struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}
	p := Person{Name: "John", Age: 30}
	assert.Equal(t, `{"name":"John","age":30}`, llmutils.Stringify(p))

	assert.Equal(t, "custom string", llmutils.Stringify(CustomString{}))
}

func Test_AnnotateResult(t *testing.T) {
	annotated := llmutils.AnnotateResult(`{"temp":21}`, "call_1", "get_weather")
	assert.JSONEq(t, `{"temp":21,"_call":{"id":"call_1","tool":"get_weather"}}`, annotated)

	// non-JSON content passes through unchanged
	assert.Equal(t, "sunny", llmutils.AnnotateResult("sunny", "call_1", "get_weather"))
	assert.Equal(t, "[1,2]", llmutils.AnnotateResult("[1,2]", "call_1", "get_weather"))
}

func Test_MergeInputs(t *testing.T) {
	configInputs := map[string]any{
		"name": "John",
		"age":  30,
	}
	userInputs := map[string]any{
		"age":  35,
		"city": "New York",
	}
	expected := map[string]any{
		"name": "John",
		"age":  35,
		"city": "New York",
	}
	assert.Equal(t, expected, llmutils.MergeInputs(configInputs, userInputs))
}

func Test_CountSizes(t *testing.T) {
	msgs := []llms.Message{
		llms.MessageFromTextParts(llms.RoleHuman, "Hello"),
		llms.MessageFromTextParts(llms.RoleAI, "Hi there"),
	}
	assert.Greater(t, llmutils.CountMessagesContentSize(msgs), uint64(0))

	resp := &llms.ContentResponse{
		Choices: []*llms.ContentChoice{
			{
				Content: "Hello world",
				GenerationInfo: map[string]any{
					"InputTokens":  int64(10),
					"OutputTokens": int64(5),
					"TotalTokens":  int64(15),
				},
			},
		},
	}
	assert.Greater(t, llmutils.CountResponseContentSize(resp), uint64(0))

	in, out, total := llmutils.CountTokens(resp)
	assert.Equal(t, int64(10), in)
	assert.Equal(t, int64(5), out)
	assert.Equal(t, int64(15), total)
}
