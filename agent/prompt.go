package agent

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentcall/pkg/prompts"
	"github.com/effective-security/agentcall/tools"
)

// defaultPromptTemplate is the system prompt for the agent loop.
const defaultPromptTemplate = `You are {{.name}}, an AI assistant with the following capabilities:

{{.capabilities}}
{{.functions}}
When responding to user requests, you should determine which capabilities to use and which functions to call.
If you have received function results or no function calls are needed, provide a helpful response to the user.`

var defaultPromptVariables = []string{"name", "capabilities", "functions"}

// NewDefaultPrompt returns the default system prompt template.
func NewDefaultPrompt() prompts.FormatPrompter {
	return prompts.NewPromptTemplate(defaultPromptTemplate, defaultPromptVariables)
}

// SystemPrompt renders the system prompt from the agent's
// capabilities and registered functions.
func (a *Agent) SystemPrompt() (string, error) {
	var capabilities strings.Builder
	for _, capability := range a.Capabilities() {
		capabilities.WriteString("- ")
		capabilities.WriteString(capability)
		capabilities.WriteString("\n")
	}

	functions := ""
	if a.registry.Len() > 0 {
		functions = "\nYou can call the following functions:\n" +
			tools.GetDescriptions(a.registry.List()...) + "\n"
	}

	promptValue, err := a.sysprompt.FormatPrompt(map[string]any{
		"name":         a.name,
		"capabilities": strings.TrimRight(capabilities.String(), "\n"),
		"functions":    functions,
	})
	if err != nil {
		return "", errors.WithMessage(err, "failed to format system prompt")
	}
	return strings.TrimRight(promptValue.String(), "\n"), nil
}
