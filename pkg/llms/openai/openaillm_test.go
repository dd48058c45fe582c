package openai_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentcall/pkg/llms"
	llmopenai "github.com/effective-security/agentcall/pkg/llms/openai"
	"github.com/effective-security/agentcall/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Setenv(llmopenai.TokenEnvVarName, "")

	t.Run("defaults", func(t *testing.T) {
		ollm, err := llmopenai.New()
		require.NoError(t, err)
		require.NotNil(t, ollm)
		assert.Equal(t, llmopenai.DefaultModel, ollm.GetName())
		assert.Equal(t, llms.ProviderOpenAI, ollm.GetProviderType())
	})

	t.Run("with options", func(t *testing.T) {
		ollm, err := llmopenai.New(
			llmopenai.WithToken("fake-token"),
			llmopenai.WithModel("gpt-4o"),
			llmopenai.WithBaseURL("https://proxy.example.com/v1"),
			llmopenai.WithOrganization("org-123"),
		)
		require.NoError(t, err)
		require.NotNil(t, ollm)
		assert.Equal(t, "gpt-4o", ollm.GetName())
	})

	t.Run("token from environment", func(t *testing.T) {
		t.Setenv(llmopenai.TokenEnvVarName, "env-token")
		ollm, err := llmopenai.New()
		require.NoError(t, err)
		assert.Equal(t, "env-token", ollm.Options.Token)
	})
}

func TestGenerateContent_MissingToken(t *testing.T) {
	t.Setenv(llmopenai.TokenEnvVarName, "")

	ollm, err := llmopenai.New()
	require.NoError(t, err)

	// credentials are checked lazily, on the first call
	resp, err := ollm.GenerateContent(context.Background(), []llms.Message{
		llms.MessageFromTextParts(llms.RoleHuman, "hello"),
	})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, errors.Is(err, llmopenai.ErrMissingToken))
	assert.True(t, errors.Is(err, llms.ErrProviderCommunication))
}

func TestProcessMessages(t *testing.T) {
	t.Parallel()

	t.Run("conversation with tool turns", func(t *testing.T) {
		t.Parallel()
		msgs, err := llmopenai.ProcessMessages([]llms.Message{
			llms.MessageFromTextParts(llms.RoleSystem, "You are a helpful assistant."),
			llms.MessageFromTextParts(llms.RoleHuman, "What's the weather in Boston?"),
			llms.MessageFromToolCalls(llms.RoleAI, llms.ToolCall{
				ID:   "call_1",
				Type: "function",
				FunctionCall: &llms.FunctionCall{
					Name:      "get_weather",
					Arguments: `{"location":"Boston"}`,
				},
			}),
			llms.MessageFromToolResponse(llms.RoleTool, llms.ToolCallResponse{
				ToolCallID: "call_1",
				Name:       "get_weather",
				Content:    "72F and sunny",
			}),
		})
		require.NoError(t, err)
		require.Len(t, msgs, 4)
		require.NotNil(t, msgs[0].OfSystem)
		require.NotNil(t, msgs[1].OfUser)
		require.NotNil(t, msgs[2].OfAssistant)
		require.Len(t, msgs[2].OfAssistant.ToolCalls, 1)
		require.NotNil(t, msgs[2].OfAssistant.ToolCalls[0].OfFunction)
		assert.Equal(t, "call_1", msgs[2].OfAssistant.ToolCalls[0].OfFunction.ID)
		assert.Equal(t, "get_weather", msgs[2].OfAssistant.ToolCalls[0].OfFunction.Function.Name)
		require.NotNil(t, msgs[3].OfTool)
		assert.Equal(t, "call_1", msgs[3].OfTool.ToolCallID)
	})

	t.Run("generic role maps to user", func(t *testing.T) {
		t.Parallel()
		msgs, err := llmopenai.ProcessMessages([]llms.Message{
			llms.MessageFromTextParts(llms.RoleGeneric, "ping"),
		})
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		require.NotNil(t, msgs[0].OfUser)
	})

	t.Run("empty messages skipped", func(t *testing.T) {
		t.Parallel()
		msgs, err := llmopenai.ProcessMessages([]llms.Message{
			{Role: llms.RoleHuman},
			llms.MessageFromTextParts(llms.RoleHuman, "hello"),
		})
		require.NoError(t, err)
		assert.Len(t, msgs, 1)
	})

	t.Run("unsupported role", func(t *testing.T) {
		t.Parallel()
		_, err := llmopenai.ProcessMessages([]llms.Message{
			llms.MessageFromTextParts("bogus", "hello"),
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, llmopenai.ErrUnsupportedMessageType))
	})

	t.Run("unsupported part type", func(t *testing.T) {
		t.Parallel()
		_, err := llmopenai.ProcessMessages([]llms.Message{
			llms.MessageFromParts(llms.RoleHuman, llms.ToolCall{ID: "x"}),
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, llmopenai.ErrInvalidContentType))
	})
}

type searchInput struct {
	Query string `json:"query" jsonschema:"description=The search query."`
	Limit int    `json:"limit,omitempty" jsonschema:"description=Max results."`
}

func TestToTools(t *testing.T) {
	t.Parallel()

	empty, err := llmopenai.ToTools(nil)
	require.NoError(t, err)
	assert.Nil(t, empty)

	sc, err := schema.New(reflect.TypeOf(searchInput{}))
	require.NoError(t, err)

	sdkTools, err := llmopenai.ToTools([]llms.Tool{
		{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        "search",
				Description: "Search the web.",
				Parameters:  sc.Parameters,
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, sdkTools, 1)
	fn := sdkTools[0].OfFunction
	require.NotNil(t, fn)
	assert.Equal(t, "search", fn.Function.Name)
	assert.Equal(t, "Search the web.", fn.Function.Description.Value)
	props, ok := fn.Function.Parameters["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "query")
	assert.Contains(t, props, "limit")
	assert.Equal(t, []any{"query"}, fn.Function.Parameters["required"])
}
