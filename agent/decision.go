package agent

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentcall/pkg/llms"
	"github.com/effective-security/agentcall/tools"
	"github.com/effective-security/x/values"
	"github.com/google/uuid"
)

// ErrMalformedDecision is returned when the model response can not be
// normalized into a final answer or an ordered list of call proposals.
var ErrMalformedDecision = errors.New("malformed decision")

// CallProposal is a single tool call proposed by the model.
type CallProposal struct {
	// ID is the provider call ID, synthesized when the provider omits it.
	ID string
	// Name is the proposed function name, unresolved.
	Name string
	// RawArgs is the raw JSON argument payload.
	RawArgs string
}

// Decision is the normalized outcome of one model round-trip:
// either a final answer, or an ordered list of call proposals.
type Decision struct {
	Answer    string
	Proposals []CallProposal
}

// IsFinal reports whether the decision carries no call proposals.
func (d *Decision) IsFinal() bool {
	return len(d.Proposals) == 0
}

// decisionFromResponse normalizes a provider response into a Decision.
// Choices are folded in order; tool calls keep their proposal order.
func decisionFromResponse(resp *llms.ContentResponse) (*Decision, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return nil, errors.WithMessage(ErrMalformedDecision, "response has no choices")
	}

	d := &Decision{}
	var content strings.Builder
	for _, choice := range resp.Choices {
		if choice == nil {
			continue
		}
		if choice.Content != "" {
			if content.Len() > 0 {
				content.WriteString("\n\n")
			}
			content.WriteString(choice.Content)
		}
		for _, toolCall := range choice.ToolCalls {
			if toolCall.FunctionCall == nil || toolCall.FunctionCall.Name == "" {
				return nil, errors.WithMessage(ErrMalformedDecision, "tool call without a function name")
			}
			rawArgs := toolCall.FunctionCall.Arguments
			if _, err := tools.ParseArgs(rawArgs); err != nil {
				return nil, errors.WithMessagef(ErrMalformedDecision,
					"tool call %q arguments are not a JSON object: %s",
					toolCall.FunctionCall.Name, err.Error())
			}
			d.Proposals = append(d.Proposals, CallProposal{
				ID:      values.StringsCoalesce(toolCall.ID, uuid.NewString()),
				Name:    toolCall.FunctionCall.Name,
				RawArgs: rawArgs,
			})
		}
	}

	d.Answer = content.String()
	if d.Answer == "" && len(d.Proposals) == 0 {
		return nil, errors.WithMessage(ErrMalformedDecision, "response has neither content nor tool calls")
	}
	return d, nil
}
