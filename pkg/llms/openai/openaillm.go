package openai

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentcall/pkg/llms"
	"github.com/effective-security/x/values"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
	"github.com/openai/openai-go/v3/shared"
)

var (
	ErrMissingToken           = errors.New("openai: missing API key, set it in the OPENAI_API_KEY environment variable")
	ErrInvalidContentType     = errors.New("openai: invalid content type")
	ErrUnsupportedMessageType = errors.New("openai: unsupported message type")
)

const (
	DefaultModel = "gpt-4o-mini"
)

// LLM is the OpenAI chat model adapter.
// Credentials are not required at construction; a missing token
// surfaces on the first GenerateContent call.
type LLM struct {
	Options *Options

	initOnce sync.Once
	client   *openai.Client
	initErr  error
}

var _ llms.Model = (*LLM)(nil)

// New creates a new OpenAI LLM client using the official OpenAI SDK.
// If no token is provided via options, the API key is read from the
// OPENAI_API_KEY environment variable on first use.
func New(opts ...Option) (*LLM, error) {
	options := &Options{
		Token: os.Getenv(TokenEnvVarName),
	}

	for _, opt := range opts {
		opt(options)
	}
	options.Model = values.StringsCoalesce(options.Model, DefaultModel)

	return &LLM{
		Options: options,
	}, nil
}

func (o *LLM) getClient() (*openai.Client, error) {
	o.initOnce.Do(func() {
		if len(o.Options.Token) == 0 {
			o.initErr = errors.Mark(errors.WithStack(ErrMissingToken), llms.ErrProviderCommunication)
			return
		}

		sdkOpts := []option.RequestOption{
			option.WithAPIKey(o.Options.Token),
			option.WithMaxRetries(2),
			option.WithRequestTimeout(5 * time.Minute),
		}
		if o.Options.BaseURL != "" {
			sdkOpts = append(sdkOpts, option.WithBaseURL(o.Options.BaseURL))
		}
		if o.Options.Organization != "" {
			sdkOpts = append(sdkOpts, option.WithOrganization(o.Options.Organization))
		}
		if o.Options.HttpClient != nil {
			sdkOpts = append(sdkOpts, option.WithHTTPClient(o.Options.HttpClient))
		}

		client := openai.NewClient(sdkOpts...)
		o.client = &client
	})
	return o.client, o.initErr
}

// GetName implements the Model interface.
func (o *LLM) GetName() string {
	return o.Options.Model
}

// GetProviderType implements the Model interface.
func (o *LLM) GetProviderType() llms.ProviderType {
	return llms.ProviderOpenAI
}

// GenerateContent implements the Model interface.
func (o *LLM) GenerateContent(ctx context.Context, messages []llms.Message, options ...llms.CallOption) (*llms.ContentResponse, error) {
	client, err := o.getClient()
	if err != nil {
		return nil, err
	}

	opts := llms.CallOptions{
		Model: o.Options.Model,
	}
	for _, opt := range options {
		opt(&opts)
	}

	sdkMessages, err := ProcessMessages(messages)
	if err != nil {
		return nil, errors.WithMessage(err, "openai: failed to process messages")
	}

	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(opts.Model),
		Messages: sdkMessages,
	}

	if opts.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(opts.MaxTokens))
	}
	if opts.Temperature > 0 {
		params.Temperature = openai.Float(opts.Temperature)
	}
	if opts.TopP > 0 {
		params.TopP = openai.Float(opts.TopP)
	}
	if opts.Seed > 0 {
		params.Seed = openai.Int(int64(opts.Seed))
	}
	if len(opts.StopWords) > 0 {
		params.Stop = openai.ChatCompletionNewParamsStopUnion{
			OfStringArray: opts.StopWords,
		}
	}
	tools, err := ToTools(opts.Tools)
	if err != nil {
		return nil, err
	}
	if len(tools) > 0 {
		params.Tools = tools
	}
	if choice, ok := opts.ToolChoice.(string); ok && choice != "" {
		params.ToolChoice = openai.ChatCompletionToolChoiceOptionUnionParam{
			OfAuto: param.NewOpt(choice),
		}
	}
	if rf := o.Options.ResponseFormat; rf != nil && rf.JSONSchema != nil {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   rf.JSONSchema.Name,
					Strict: openai.Bool(rf.JSONSchema.Strict),
					Schema: rf.JSONSchema.Schema,
				},
			},
		}
	}

	result, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, errors.Mark(errors.WithMessage(err, "openai: failed to create chat completion"),
			llms.ErrProviderCommunication)
	}
	if len(result.Choices) == 0 {
		return nil, errors.WithStack(llms.ErrEmptyResponse)
	}

	choices := make([]*llms.ContentChoice, len(result.Choices))
	for i, c := range result.Choices {
		choice := &llms.ContentChoice{
			Content:    c.Message.Content,
			StopReason: c.FinishReason,
			GenerationInfo: map[string]any{
				"CompletionTokens": result.Usage.CompletionTokens,
				"PromptTokens":     result.Usage.PromptTokens,
				"TotalTokens":      result.Usage.TotalTokens,
				"ID":               result.ID,
			},
		}
		for _, tool := range c.Message.ToolCalls {
			choice.ToolCalls = append(choice.ToolCalls, llms.ToolCall{
				ID:   tool.ID,
				Type: "function",
				FunctionCall: &llms.FunctionCall{
					Name:      tool.Function.Name,
					Arguments: tool.Function.Arguments,
				},
			})
		}
		choices[i] = choice
	}

	return &llms.ContentResponse{
		Choices: choices,
	}, nil
}

// ToTools converts tool definitions to OpenAI SDK tool parameters.
func ToTools(tools []llms.Tool) ([]openai.ChatCompletionToolUnionParam, error) {
	if len(tools) == 0 {
		return nil, nil
	}

	sdkTools := make([]openai.ChatCompletionToolUnionParam, 0, len(tools))
	for _, tool := range tools {
		fn := shared.FunctionDefinitionParam{
			Name:        tool.Function.Name,
			Description: openai.String(tool.Function.Description),
		}
		if tool.Function.Strict {
			fn.Strict = openai.Bool(true)
		}
		if tool.Function.Parameters != nil {
			raw, err := json.Marshal(tool.Function.Parameters)
			if err != nil {
				return nil, errors.WithMessagef(err, "openai: failed to marshal parameters of tool %q", tool.Function.Name)
			}
			var fnParams shared.FunctionParameters
			if err := json.Unmarshal(raw, &fnParams); err != nil {
				return nil, errors.WithMessagef(err, "openai: failed to convert parameters of tool %q", tool.Function.Name)
			}
			fn.Parameters = fnParams
		}
		sdkTools = append(sdkTools, openai.ChatCompletionFunctionTool(fn))
	}
	return sdkTools, nil
}

// ProcessMessages converts messages to OpenAI SDK message parameters.
// Tool responses are sent as tool role messages keyed by the call ID.
func ProcessMessages(messages []llms.Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	chatMessages := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		if len(msg.Parts) == 0 {
			continue
		}
		switch msg.Role {
		case llms.RoleSystem:
			content, err := textFromParts(msg)
			if err != nil {
				return nil, err
			}
			chatMessages = append(chatMessages, openai.SystemMessage(content))
		case llms.RoleHuman, llms.RoleGeneric:
			content, err := textFromParts(msg)
			if err != nil {
				return nil, err
			}
			chatMessages = append(chatMessages, openai.UserMessage(content))
		case llms.RoleAI:
			chatMessage, err := handleAIMessage(msg)
			if err != nil {
				return nil, err
			}
			chatMessages = append(chatMessages, chatMessage)
		case llms.RoleTool:
			for _, part := range msg.Parts {
				resp, ok := part.(llms.ToolCallResponse)
				if !ok {
					return nil, errors.WithMessagef(ErrInvalidContentType, "tool message part type: %T", part)
				}
				chatMessages = append(chatMessages, openai.ToolMessage(resp.Content, resp.ToolCallID))
			}
		default:
			return nil, errors.WithMessagef(ErrUnsupportedMessageType, "%v", msg.Role)
		}
	}
	return chatMessages, nil
}

func textFromParts(msg llms.Message) (string, error) {
	content := ""
	for _, part := range msg.Parts {
		textContent, ok := part.(llms.TextContent)
		if !ok {
			return "", errors.WithMessagef(ErrInvalidContentType, "%v message part type: %T", msg.Role, part)
		}
		if content != "" {
			content += "\n"
		}
		content += textContent.Text
	}
	return content, nil
}

func handleAIMessage(msg llms.Message) (openai.ChatCompletionMessageParamUnion, error) {
	content := ""
	var toolCalls []openai.ChatCompletionMessageToolCallUnionParam

	for _, part := range msg.Parts {
		switch p := part.(type) {
		case llms.TextContent:
			if content != "" {
				content += "\n"
			}
			content += p.Text
		case llms.ToolCall:
			toolCalls = append(toolCalls, openai.ChatCompletionMessageToolCallUnionParam{
				OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
					ID: p.ID,
					Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
						Name:      p.FunctionCall.Name,
						Arguments: p.FunctionCall.Arguments,
					},
				},
			})
		default:
			return openai.ChatCompletionMessageParamUnion{}, errors.WithMessagef(ErrInvalidContentType, "AI message part type: %T", part)
		}
	}

	if len(toolCalls) == 0 {
		return openai.AssistantMessage(content), nil
	}

	assistantMsg := openai.ChatCompletionAssistantMessageParam{
		ToolCalls: toolCalls,
	}
	if content != "" {
		assistantMsg.Content = openai.ChatCompletionAssistantMessageParamContentUnion{
			OfString: param.NewOpt(content),
		}
	}
	return openai.ChatCompletionMessageParamUnion{
		OfAssistant: &assistantMsg,
	}, nil
}
