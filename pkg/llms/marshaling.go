package llms

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// JSON models following OpenAI schema

// MessageJSON represents the JSON structure for Message
type MessageJSON struct {
	Role Role   `json:"role"`
	Text string `json:"text,omitempty"`
}

// ContentPartJSON represents the JSON structure for content parts
type ContentPartJSON struct {
	Type         string            `json:"type"`
	Text         string            `json:"text,omitempty"`
	ToolCall     *ToolCallJSON     `json:"tool_call,omitempty"`
	ToolResponse *ToolResponseJSON `json:"tool_response,omitempty"`
}

// ToolCallJSON represents the JSON structure for tool call content
type ToolCallJSON struct {
	ID           string        `json:"id"`
	Type         string        `json:"type"`
	FunctionCall *FunctionCall `json:"function"`
}

// ToolResponseJSON represents the JSON structure for tool response content
type ToolResponseJSON struct {
	ToolCallID string `json:"tool_call_id"`
	Name       string `json:"name"`
	Content    string `json:"content"`
	IsError    bool   `json:"is_error,omitempty"`
}

// TextContentJSON represents the JSON structure for text content
type TextContentJSON struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

// MessageWithPartsJSON represents the JSON structure for Message with parts
type MessageWithPartsJSON struct {
	Role  Role          `json:"role"`
	Parts []ContentPart `json:"parts"`
}

// MarshalJSON implements json.Marshaler for Message
func (m Message) MarshalJSON() ([]byte, error) {
	// Special case: single text part can be simplified
	if len(m.Parts) == 1 {
		if tp, hasSingleTextPart := m.Parts[0].(TextContent); hasSingleTextPart {
			return json.Marshal(MessageJSON{
				Role: m.Role,
				Text: tp.Text,
			})
		}
	}

	// Multiple parts or non-text parts
	return json.Marshal(MessageWithPartsJSON{
		Role:  m.Role,
		Parts: m.Parts,
	})
}

// UnmarshalJSON implements json.Unmarshaler for Message
func (m *Message) UnmarshalJSON(data []byte) error {
	var msgJSON MessageJSON
	if err := json.Unmarshal(data, &msgJSON); err != nil {
		return err
	}

	m.Role = msgJSON.Role

	// Handle special case: single text field
	if msgJSON.Text != "" {
		m.Parts = []ContentPart{TextContent{Text: msgJSON.Text}}
		return nil
	}

	// Process parts - we need to unmarshal them manually since they're polymorphic
	var rawMsg map[string]any
	if err := json.Unmarshal(data, &rawMsg); err != nil {
		return err
	}

	if partsRaw, ok := rawMsg["parts"]; ok {
		partsArray, ok := partsRaw.([]any)
		if !ok {
			return errors.New("parts field must be an array")
		}

		for _, partRaw := range partsArray {
			partData, err := json.Marshal(partRaw)
			if err != nil {
				return err
			}

			var partJSON ContentPartJSON
			if err := json.Unmarshal(partData, &partJSON); err != nil {
				return err
			}

			part, err := unmarshalContentPart(partJSON)
			if err != nil {
				return err
			}
			m.Parts = append(m.Parts, part)
		}
	}

	return nil
}

// unmarshalContentPart converts ContentPartJSON to ContentPart
func unmarshalContentPart(partJSON ContentPartJSON) (ContentPart, error) {
	switch partJSON.Type {
	case "text", "":
		return TextContent{Text: partJSON.Text}, nil
	case "tool_call":
		if partJSON.ToolCall == nil {
			return nil, errors.New("tool_call field is required for tool_call type")
		}
		return ToolCall{
			ID:           partJSON.ToolCall.ID,
			Type:         partJSON.ToolCall.Type,
			FunctionCall: partJSON.ToolCall.FunctionCall,
		}, nil
	case "tool_response":
		if partJSON.ToolResponse == nil {
			return nil, errors.New("tool_response field is required for tool_response type")
		}
		return ToolCallResponse{
			ToolCallID: partJSON.ToolResponse.ToolCallID,
			Name:       partJSON.ToolResponse.Name,
			Content:    partJSON.ToolResponse.Content,
			IsError:    partJSON.ToolResponse.IsError,
		}, nil
	default:
		return nil, errors.Newf("unknown content type: '%s'", partJSON.Type)
	}
}

// MarshalJSON implements json.Marshaler for TextContent
func (tc TextContent) MarshalJSON() ([]byte, error) {
	return json.Marshal(TextContentJSON{
		Text: tc.Text,
		Type: "text",
	})
}

// UnmarshalJSON implements json.Unmarshaler for TextContent
func (tc *TextContent) UnmarshalJSON(data []byte) error {
	var textJSON TextContentJSON
	if err := json.Unmarshal(data, &textJSON); err != nil {
		return err
	}
	if textJSON.Type != "text" {
		return errors.Newf("invalid type for TextContent: %v", textJSON.Type)
	}
	tc.Text = textJSON.Text
	return nil
}

// ToolCallJSONOrdered matches the expected field order for marshaling
// function, id, type
// This is only for marshaling
// (UnmarshalJSON still uses ToolCallJSON for flexibility)
type ToolCallJSONOrdered struct {
	FunctionCall *FunctionCall `json:"function"`
	ID           string        `json:"id"`
	Type         string        `json:"type"`
}

// MarshalJSON implements json.Marshaler for ToolCall
func (tc ToolCall) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string              `json:"type"`
		ToolCall ToolCallJSONOrdered `json:"tool_call"`
	}{
		Type: "tool_call",
		ToolCall: ToolCallJSONOrdered{
			FunctionCall: tc.FunctionCall,
			ID:           tc.ID,
			Type:         tc.Type,
		},
	})
}

// UnmarshalJSON implements json.Unmarshaler for ToolCall
func (tc *ToolCall) UnmarshalJSON(data []byte) error {
	var rawMsg map[string]any
	if err := json.Unmarshal(data, &rawMsg); err != nil {
		return err
	}

	if rawType, ok := rawMsg["type"].(string); !ok || rawType != "tool_call" {
		return errors.Newf("invalid type for ToolCall: %v", rawMsg["type"])
	}

	toolCallRaw, ok := rawMsg["tool_call"].(map[string]any)
	if !ok {
		return errors.New("invalid tool_call field in ToolCall")
	}

	id, ok := toolCallRaw["id"].(string)
	if !ok || id == "" {
		return errors.New("missing id field in ToolCall")
	}

	typ, ok := toolCallRaw["type"].(string)
	if !ok || typ == "" {
		return errors.New("missing type field in ToolCall")
	}

	// Tolerate a missing or malformed function object, models have been
	// observed to omit it on aborted generations.
	var functionCall *FunctionCall
	if functionRaw, exists := toolCallRaw["function"]; exists {
		if functionMap, ok := functionRaw.(map[string]any); ok {
			name, _ := functionMap["name"].(string)
			arguments, _ := functionMap["arguments"].(string)
			functionCall = &FunctionCall{
				Name:      name,
				Arguments: arguments,
			}
		} else {
			functionCall = &FunctionCall{}
		}
	} else {
		functionCall = &FunctionCall{}
	}

	tc.ID = id
	tc.Type = typ
	tc.FunctionCall = functionCall
	return nil
}

// ToolResponseJSONOrdered matches the expected field order for marshaling
// tool_call_id, name, content
// This is only for marshaling
// (UnmarshalJSON still uses ToolResponseJSON for flexibility)
type ToolResponseJSONOrdered struct {
	ToolCallID string `json:"tool_call_id"`
	Name       string `json:"name"`
	Content    string `json:"content"`
	IsError    bool   `json:"is_error,omitempty"`
}

// MarshalJSON implements json.Marshaler for ToolCallResponse
func (tc ToolCallResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type         string                  `json:"type"`
		ToolResponse ToolResponseJSONOrdered `json:"tool_response"`
	}{
		Type: "tool_response",
		ToolResponse: ToolResponseJSONOrdered{
			ToolCallID: tc.ToolCallID,
			Name:       tc.Name,
			Content:    tc.Content,
			IsError:    tc.IsError,
		},
	})
}

// ToolResponseContentJSON represents the JSON structure for tool response content
type ToolResponseContentJSON struct {
	Type         string           `json:"type"`
	ToolResponse ToolResponseJSON `json:"tool_response"`
}

// UnmarshalJSON implements json.Unmarshaler for ToolCallResponse
func (tc *ToolCallResponse) UnmarshalJSON(data []byte) error {
	var toolResponseJSON ToolResponseContentJSON
	if err := json.Unmarshal(data, &toolResponseJSON); err != nil {
		return err
	}
	if toolResponseJSON.Type != "tool_response" {
		return errors.Newf("invalid type for ToolCallResponse: %v", toolResponseJSON.Type)
	}
	if toolResponseJSON.ToolResponse.ToolCallID == "" {
		return errors.New("missing tool_call_id field in ToolCallResponse")
	}
	if toolResponseJSON.ToolResponse.Name == "" {
		return errors.New("missing name field in ToolCallResponse")
	}
	tc.ToolCallID = toolResponseJSON.ToolResponse.ToolCallID
	tc.Name = toolResponseJSON.ToolResponse.Name
	tc.Content = toolResponseJSON.ToolResponse.Content
	tc.IsError = toolResponseJSON.ToolResponse.IsError
	return nil
}
