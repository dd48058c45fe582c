package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentcall/encoding"
	"github.com/effective-security/agentcall/pkg/llms"
	"github.com/effective-security/agentcall/pkg/llmutils"
	"github.com/effective-security/agentcall/pkg/metricskey"
	"github.com/effective-security/agentcall/tools"
	"github.com/effective-security/x/slices"
	"github.com/effective-security/xlog"
)

// summaryPrompt is sent when the iteration cap is reached,
// asking the model to wrap up without further tool calls.
const summaryPrompt = "Please provide a final response based on the functions we've executed so far."

// Response is the outcome of a Respond call.
type Response struct {
	// Content is the final answer text.
	Content string
	// CapExhausted is set when the iteration cap was reached and the
	// answer is a best-effort summary rather than a model-chosen final.
	CapExhausted bool
	// ToolCallsExecuted is the total number of tool calls executed.
	ToolCallsExecuted int
	// Messages is the full message history of the run.
	Messages []llms.Message
}

// RespondText runs the loop and returns just the final answer text.
func (a *Agent) RespondText(ctx context.Context, input string) (string, error) {
	resp, err := a.Respond(ctx, input)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// Respond runs the orchestration loop for a single user request:
// model round-trips interleaved with tool execution, bounded by
// MaxIterations, until the model produces a final answer.
func (a *Agent) Respond(ctx context.Context, input string) (*Response, error) {
	started := time.Now()
	defer metricskey.PerfAgentCall.MeasureSince(started, a.name)

	callback := a.cfg.CallbackHandler
	if callback != nil {
		callback.OnAgentStart(ctx, a, input)
	}

	resp, messages, err := a.respond(ctx, input)
	if err != nil {
		metricskey.StatsAgentCallsFailed.IncrCounter(1, a.name)
		if callback != nil {
			callback.OnAgentError(ctx, a, input, err, messages)
		}
		return nil, err
	}
	if resp.CapExhausted {
		metricskey.StatsAgentCallsExhausted.IncrCounter(1, a.name)
	} else {
		metricskey.StatsAgentCallsSucceeded.IncrCounter(1, a.name)
	}
	if callback != nil {
		callback.OnAgentEnd(ctx, a, input, resp)
	}
	return resp, nil
}

func (a *Agent) respond(ctx context.Context, input string) (*Response, []llms.Message, error) {
	cfg := a.cfg

	if len(a.Capabilities()) == 0 {
		// Nothing to reason with, answer without a round-trip.
		resp := &Response{
			Content: fmt.Sprintf("I'm %s, but I don't have any capabilities yet.", a.name),
		}
		return resp, nil, nil
	}

	systemPrompt, err := a.SystemPrompt()
	if err != nil {
		return nil, nil, err
	}

	messageHistory := []llms.Message{
		llms.MessageFromTextParts(llms.RoleSystem, systemPrompt),
	}
	if cfg.Store != nil {
		prevMessages := cfg.Store.Messages(ctx)
		logger.ContextKV(ctx, xlog.DEBUG,
			"agent", a.name,
			"message_history", len(prevMessages))
		messageHistory = append(messageHistory, prevMessages...)
	}

	userMessage := llms.MessageFromTextParts(llms.RoleHuman, input)
	messageHistory = append(messageHistory, userMessage)
	runMessages := []llms.Message{userMessage}

	callOpts := cfg.GetCallOptions()
	if a.registry.Len() > 0 {
		callOpts = append(callOpts, llms.WithTools(a.registry.Definitions()))
	}

	var totalToolExecuted int
	var decision *Decision
	exhausted := false

	for iteration := 0; ; iteration++ {
		if iteration >= cfg.MaxIterations {
			exhausted = true
			break
		}

		resp, err := a.modelCall(ctx, messageHistory, callOpts)
		if err != nil {
			return nil, messageHistory, err
		}
		decision, err = decisionFromResponse(resp)
		if err != nil {
			return nil, messageHistory, err
		}
		if decision.IsFinal() {
			break
		}

		// One assistant turn carrying the proposals, then one tool
		// result turn per proposal, in proposal order.
		toolCalls := make([]llms.ToolCall, 0, len(decision.Proposals))
		for _, proposal := range decision.Proposals {
			toolCalls = append(toolCalls, llms.ToolCall{
				ID:   proposal.ID,
				Type: "function",
				FunctionCall: &llms.FunctionCall{
					Name:      proposal.Name,
					Arguments: proposal.RawArgs,
				},
			})
		}
		proposalTurn := llms.MessageFromToolCalls(llms.RoleAI, toolCalls...)
		messageHistory = append(messageHistory, proposalTurn)
		runMessages = append(runMessages, proposalTurn)

		for _, proposal := range decision.Proposals {
			content, isError := a.executeProposal(ctx, proposal)
			if cfg.Mode == encoding.ModeJSON {
				content = llmutils.AnnotateResult(content, proposal.ID, proposal.Name)
			}
			resultTurn := llms.MessageFromToolResponse(llms.RoleTool, llms.ToolCallResponse{
				ToolCallID: proposal.ID,
				Name:       proposal.Name,
				Content:    content,
				IsError:    isError,
			})
			messageHistory = append(messageHistory, resultTurn)
			runMessages = append(runMessages, resultTurn)
		}
		totalToolExecuted += len(decision.Proposals)
	}

	var result string
	if exhausted {
		result, messageHistory = a.summarize(ctx, messageHistory, totalToolExecuted)
	} else {
		result = decision.Answer
	}

	finalTurn := llms.MessageFromTextParts(llms.RoleAI, result)
	messageHistory = append(messageHistory, finalTurn)
	runMessages = append(runMessages, finalTurn)

	if cfg.Store != nil {
		if err := cfg.Store.Add(ctx, runMessages...); err != nil {
			logger.ContextKV(ctx, xlog.WARNING,
				"agent", a.name,
				"status", "failed_to_store_messages",
				"err", err.Error())
		}
	}

	resp := &Response{
		Content:           result,
		CapExhausted:      exhausted,
		ToolCallsExecuted: totalToolExecuted,
		Messages:          messageHistory,
	}
	return resp, messageHistory, nil
}

// summarize asks the model to wrap up without tools after the
// iteration cap was reached. The run never fails at this point:
// if the summary round-trip itself fails, a summary is synthesized
// from the history.
func (a *Agent) summarize(ctx context.Context, messageHistory []llms.Message, toolsExecuted int) (string, []llms.Message) {
	messageHistory = append(messageHistory, llms.MessageFromTextParts(llms.RoleHuman, summaryPrompt))

	resp, err := a.modelCall(ctx, messageHistory, a.cfg.GetCallOptions())
	if err == nil {
		var decision *Decision
		if decision, err = decisionFromResponse(resp); err == nil && decision.Answer != "" {
			return decision.Answer, messageHistory
		}
	}
	if err != nil {
		logger.ContextKV(ctx, xlog.WARNING,
			"agent", a.name,
			"status", "summary_call_failed",
			"err", err.Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("I reached the limit of %d steps after executing %d function call(s).",
		a.cfg.MaxIterations, toolsExecuted))
	if results := collectToolResults(messageHistory); len(results) > 0 {
		sb.WriteString(" Results so far:\n")
		for _, res := range results {
			sb.WriteString("- ")
			sb.WriteString(res)
			sb.WriteString("\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n"), messageHistory
}

func collectToolResults(messages []llms.Message) []string {
	var results []string
	for _, msg := range messages {
		if msg.Role != llms.RoleTool {
			continue
		}
		for _, part := range msg.Parts {
			if resp, ok := part.(llms.ToolCallResponse); ok && !resp.IsError {
				results = append(results, resp.Name+": "+slices.StringUpto(resp.Content, 256))
			}
		}
	}
	return results
}

// modelCall performs one model round-trip with callbacks and metrics.
func (a *Agent) modelCall(ctx context.Context, messageHistory []llms.Message, callOpts []llms.CallOption) (*llms.ContentResponse, error) {
	cfg := a.cfg
	modelName := a.llm.GetName()

	started := time.Now()
	defer metricskey.PerfLLMCall.MeasureSince(started, a.name, modelName)

	if cfg.CallbackHandler != nil {
		cfg.CallbackHandler.OnModelCallStart(ctx, a, a.llm, messageHistory)
	}

	bytesSent := llmutils.CountMessagesContentSize(messageHistory)
	metricskey.StatsLLMMessagesSent.IncrCounter(float64(len(messageHistory)), a.name, modelName)
	metricskey.StatsLLMBytesSent.IncrCounter(float64(bytesSent), a.name, modelName)

	callCtx := ctx
	if cfg.CallTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, cfg.CallTimeout)
		defer cancel()
	}

	resp, err := a.llm.GenerateContent(callCtx, messageHistory, callOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate content from LLM")
	}

	if cfg.CallbackHandler != nil {
		cfg.CallbackHandler.OnModelCallEnd(ctx, a, a.llm, resp)
	}

	bytesReceived := llmutils.CountResponseContentSize(resp)
	metricskey.StatsLLMBytesReceived.IncrCounter(float64(bytesReceived), a.name, modelName)

	tokensIn, tokensOut, tokensTotal := llmutils.CountTokens(resp)
	metricskey.StatsLLMInputTokens.IncrCounter(float64(tokensIn), a.name, modelName)
	metricskey.StatsLLMOutputTokens.IncrCounter(float64(tokensOut), a.name, modelName)
	metricskey.StatsLLMTotalTokens.IncrCounter(float64(tokensTotal), a.name, modelName)

	return resp, nil
}

// executeProposal resolves and runs one proposed call. Failures are
// recoverable: they are folded into the returned content so the model
// can react, and never abort the run.
func (a *Agent) executeProposal(ctx context.Context, proposal CallProposal) (content string, isError bool) {
	cfg := a.cfg
	callback := cfg.CallbackHandler

	tool, err := a.registry.Resolve(proposal.Name)
	if err != nil {
		metricskey.StatsToolCallsNotFound.IncrCounter(1, proposal.Name)
		logger.ContextKV(ctx, xlog.WARNING,
			"agent", a.name,
			"status", "tool_not_found",
			"tool", proposal.Name)
		if callback != nil {
			callback.OnToolNotFound(ctx, a, proposal.Name)
		}
		return fmt.Sprintf("Tool `%s` not found. Please check the tool name and try again with exact match. Available tools: %s",
			proposal.Name, strings.Join(a.registry.Names(), ", ")), true
	}

	if callback != nil {
		callback.OnToolStart(ctx, tool, a.name, proposal.RawArgs)
	}

	output, err := a.callTool(ctx, tool, proposal.RawArgs)
	if err != nil {
		if tools.IsArgumentError(err) {
			metricskey.StatsToolCallsRejected.IncrCounter(1, proposal.Name)
		} else {
			metricskey.StatsToolCallsFailed.IncrCounter(1, proposal.Name)
		}
		logger.ContextKV(ctx, xlog.WARNING,
			"agent", a.name,
			"status", "tool_call_failed",
			"tool", proposal.Name,
			"err", err.Error())
		if callback != nil {
			callback.OnToolError(ctx, tool, a.name, proposal.RawArgs, err)
		}
		return fmt.Sprintf("Tool call failed: %s", err.Error()), true
	}

	metricskey.StatsToolCallsSucceeded.IncrCounter(1, proposal.Name)
	if callback != nil {
		callback.OnToolEnd(ctx, tool, a.name, proposal.RawArgs, output)
	}
	return output, false
}

// callTool invokes the tool with a bounded context and panic isolation.
func (a *Agent) callTool(ctx context.Context, tool tools.ITool, rawArgs string) (output string, err error) {
	started := time.Now()
	defer metricskey.PerfToolCall.MeasureSince(started, tool.Name())

	toolCtx := ctx
	if a.cfg.ToolTimeout > 0 {
		var cancel context.CancelFunc
		toolCtx, cancel = context.WithTimeout(ctx, a.cfg.ToolTimeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("tool %q panicked: %v", tool.Name(), r)
		}
	}()
	return tool.Call(toolCtx, rawArgs)
}
