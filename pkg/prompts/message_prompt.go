package prompts

import (
	"github.com/effective-security/agentcall/pkg/llms"
)

// MessageFormatter formats input values into a list of chat messages.
type MessageFormatter interface {
	FormatMessages(values map[string]any) ([]llms.Message, error)
	GetInputVariables() []string
}

// MessagePromptTemplate renders a prompt template into a single
// chat message with a fixed role.
type MessagePromptTemplate struct {
	role   llms.Role
	prompt *PromptTemplate
}

var _ MessageFormatter = (*MessagePromptTemplate)(nil)

func NewSystemMessagePromptTemplate(tmpl string, inputVars []string) *MessagePromptTemplate {
	return &MessagePromptTemplate{
		role:   llms.RoleSystem,
		prompt: NewPromptTemplate(tmpl, inputVars),
	}
}

func NewHumanMessagePromptTemplate(tmpl string, inputVars []string) *MessagePromptTemplate {
	return &MessagePromptTemplate{
		role:   llms.RoleHuman,
		prompt: NewPromptTemplate(tmpl, inputVars),
	}
}

func NewAIMessagePromptTemplate(tmpl string, inputVars []string) *MessagePromptTemplate {
	return &MessagePromptTemplate{
		role:   llms.RoleAI,
		prompt: NewPromptTemplate(tmpl, inputVars),
	}
}

func (p *MessagePromptTemplate) FormatMessages(values map[string]any) ([]llms.Message, error) {
	text, err := p.prompt.Format(values)
	if err != nil {
		return nil, err
	}
	return []llms.Message{llms.MessageFromTextParts(p.role, text)}, nil
}

func (p *MessagePromptTemplate) GetInputVariables() []string {
	return p.prompt.GetInputVariables()
}

// ChatPromptTemplate formats a sequence of message templates
// into a chat prompt value.
type ChatPromptTemplate struct {
	formatters []MessageFormatter
}

var _ FormatPrompter = (*ChatPromptTemplate)(nil)

func NewChatPromptTemplate(formatters []MessageFormatter) *ChatPromptTemplate {
	return &ChatPromptTemplate{formatters: formatters}
}

func (p *ChatPromptTemplate) FormatMessages(values map[string]any) ([]llms.Message, error) {
	var res []llms.Message
	for _, f := range p.formatters {
		msgs, err := f.FormatMessages(values)
		if err != nil {
			return nil, err
		}
		res = append(res, msgs...)
	}
	return res, nil
}

func (p *ChatPromptTemplate) FormatPrompt(values map[string]any) (llms.PromptValue, error) {
	msgs, err := p.FormatMessages(values)
	if err != nil {
		return nil, err
	}
	return ChatPromptValue(msgs), nil
}

func (p *ChatPromptTemplate) GetInputVariables() []string {
	var res []string
	seen := make(map[string]bool)
	for _, f := range p.formatters {
		for _, v := range f.GetInputVariables() {
			if !seen[v] {
				seen[v] = true
				res = append(res, v)
			}
		}
	}
	return res
}
