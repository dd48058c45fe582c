package prompts

import (
	"strings"
	"text/template"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentcall/pkg/llms"
)

var ErrMissingInputVariable = errors.New("missing input variable")

// FormatPrompter formats input values into a prompt value
// that can be sent to a model.
type FormatPrompter interface {
	FormatPrompt(values map[string]any) (llms.PromptValue, error)
	GetInputVariables() []string
}

var _ llms.PromptValue = StringPromptValue("")

// StringPromptValue is a prompt value that is a plain string.
type StringPromptValue string

func (v StringPromptValue) String() string {
	return string(v)
}

// Messages returns the prompt as a single human message.
func (v StringPromptValue) Messages() []llms.Message {
	return []llms.Message{
		llms.MessageFromTextParts(llms.RoleHuman, string(v)),
	}
}

// PromptTemplate renders a Go text/template with declared input
// variables. Formatting fails if a declared variable is absent.
type PromptTemplate struct {
	// Template is the prompt template in text/template syntax.
	Template string
	// InputVariables is a list of variable names the prompt template expects.
	InputVariables []string
}

var _ FormatPrompter = (*PromptTemplate)(nil)

func NewPromptTemplate(tmpl string, inputVars []string) *PromptTemplate {
	return &PromptTemplate{
		Template:       tmpl,
		InputVariables: inputVars,
	}
}

// Format renders the template with the given values.
func (p *PromptTemplate) Format(values map[string]any) (string, error) {
	for _, v := range p.InputVariables {
		if _, ok := values[v]; !ok {
			return "", errors.WithMessage(ErrMissingInputVariable, v)
		}
	}
	tmpl, err := template.New("prompt").Option("missingkey=error").Parse(p.Template)
	if err != nil {
		return "", errors.WithMessage(err, "invalid prompt template")
	}
	var buf strings.Builder
	if err := tmpl.Execute(&buf, values); err != nil {
		return "", errors.WithMessage(err, "failed to render prompt")
	}
	return buf.String(), nil
}

// FormatPrompt renders the template into a string prompt value.
func (p *PromptTemplate) FormatPrompt(values map[string]any) (llms.PromptValue, error) {
	res, err := p.Format(values)
	if err != nil {
		return nil, err
	}
	return StringPromptValue(res), nil
}

func (p *PromptTemplate) GetInputVariables() []string {
	return p.InputVariables
}
