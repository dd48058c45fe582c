package llms_test

import (
	"encoding/json"
	"testing"

	"github.com/effective-security/agentcall/pkg/llms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageHelpers(t *testing.T) {
	t.Parallel()

	msg := llms.MessageFromTextParts(llms.RoleHuman, "hello", "world")
	require.Len(t, msg.Parts, 2)
	assert.Equal(t, llms.RoleHuman, msg.Role)
	assert.Equal(t, "hello\nworld\n", msg.GetContent())

	call := llms.ToolCall{
		ID:   "call_1",
		Type: "function",
		FunctionCall: &llms.FunctionCall{
			Name:      "get_weather",
			Arguments: `{"location":"Paris"}`,
		},
	}
	msg = llms.MessageFromToolCalls(llms.RoleAI, call)
	require.Len(t, msg.Parts, 1)
	got, ok := msg.Parts[0].(llms.ToolCall)
	require.True(t, ok)
	assert.Equal(t, "get_weather", got.FunctionCall.Name)

	msg = llms.MessageFromToolResponse(llms.RoleTool, llms.ToolCallResponse{
		ToolCallID: "call_1",
		Name:       "get_weather",
		Content:    "sunny",
	})
	require.Len(t, msg.Parts, 1)
	resp, ok := msg.Parts[0].(llms.ToolCallResponse)
	require.True(t, ok)
	assert.Equal(t, "sunny", resp.Content)
	assert.False(t, resp.IsError)
}

func TestMessageMarshalSingleText(t *testing.T) {
	t.Parallel()

	msg := llms.MessageFromTextParts(llms.RoleSystem, "be brief")
	js, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"system","text":"be brief"}`, string(js))

	var back llms.Message
	require.NoError(t, json.Unmarshal(js, &back))
	assert.Equal(t, msg, back)
}

func TestToolResponseMarshalError(t *testing.T) {
	t.Parallel()

	msg := llms.MessageFromToolResponse(llms.RoleTool, llms.ToolCallResponse{
		ToolCallID: "call_9",
		Name:       "calculate",
		Content:    "invalid argument: expression",
		IsError:    true,
	})
	js, err := json.Marshal(msg)
	require.NoError(t, err)

	var back llms.Message
	require.NoError(t, json.Unmarshal(js, &back))
	require.Len(t, back.Parts, 1)
	resp, ok := back.Parts[0].(llms.ToolCallResponse)
	require.True(t, ok)
	assert.True(t, resp.IsError)
	assert.Equal(t, "invalid argument: expression", resp.Content)
}

func TestProviderCapabilities(t *testing.T) {
	t.Parallel()

	assert.True(t, llms.ProviderOpenAI.Supports(llms.CapabilityFunctionCalling))
	assert.True(t, llms.ProviderAnthropic.Supports(llms.CapabilityMultiToolCalling))
	assert.False(t, llms.ProviderAnthropic.Supports(llms.CapabilityJSONSchemaStrict))
}
