package chatmodel

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"
)

// ContentProvider provides the content of a message for the chat history.
type ContentProvider interface {
	GetContent() string
}

// InputParser parses a raw user input into a typed request.
type InputParser interface {
	ParseInput(input string) error
}

// InputRequest is the default input type for agent invocations.
type InputRequest struct {
	Input string `json:"input" jsonschema:"title=Input,description=The message sent by the user to the agent."`
}

func NewInputRequest(input string) *InputRequest {
	return &InputRequest{Input: input}
}

func (r *InputRequest) ParseInput(input string) error {
	err := json.Unmarshal([]byte(input), r)
	if err != nil {
		return errors.WithMessage(ErrFailedUnmarshalInput, err.Error())
	}
	return nil
}

// GetContent gets the content of the message for the chat history
func (r InputRequest) GetContent() string {
	return r.Input
}

func (InputRequest) JSONSchemaExtend(schema *jsonschema.Schema) {
	schema.Title = "Input Request"
}

// OutputResult is the default output type returned by agents and tools.
type OutputResult struct {
	Content string `json:"content" jsonschema:"title=Response Content,description=The content returned by agent or tool."`
}

func NewOutputResult(content string) *OutputResult {
	return &OutputResult{Content: content}
}

// GetContent gets the content of the message for the chat history
func (r OutputResult) GetContent() string {
	return r.Content
}

func (OutputResult) JSONSchemaExtend(schema *jsonschema.Schema) {
	schema.Title = "Output Result"
}
