package callbacks

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/effective-security/agentcall/agent"
	"github.com/effective-security/agentcall/chatmodel"
	"github.com/effective-security/agentcall/pkg/llms"
	"github.com/effective-security/agentcall/pkg/llms/llmtest"
	"github.com/invopop/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type spAgent struct{ name string }

func (a *spAgent) Name() string           { return a.name }
func (a *spAgent) Capabilities() []string { return nil }

type spTool struct{ name string }

func (t *spTool) Name() string                                           { return t.name }
func (t *spTool) Description() string                                    { return "desc" }
func (t *spTool) Parameters() *jsonschema.Schema                         { return nil }
func (t *spTool) Call(ctx context.Context, input string) (string, error) { return "", nil }

func newTestChatContext() (context.Context, chatmodel.ChatContext) {
	chatCtx := chatmodel.NewChatContext("chatid", nil)
	ctx := chatmodel.WithChatContext(context.Background(), chatCtx)
	return ctx, chatCtx
}

func TestScratchpad_StartRun_EndRun(t *testing.T) {
	t.Parallel()
	sp := NewScratchpad(ModeVerbose)
	ctx, cctx := newTestChatContext()
	sp.StartRun(ctx)
	r := sp.runs[cctx.GetChatID()]
	// Populate stats for EndRun
	r.stats.AgentCalls = 2
	r.stats.AgentCallsFailed = 1
	r.stats.ToolsCalls = 3
	r.stats.ToolsCallsFailed = 2
	r.stats.ToolNotFound = 1
	r.stats.LLMCalls = 1
	r.stats.TotalMessages = 4
	r.stats.LLMBytesOut = 10
	r.stats.LLMBytesIn = 11

	// EndRun should print stats and cleanup
	stats, buf := sp.EndRun(ctx)
	require.NotNil(t, stats)
	require.Contains(t, string(buf), "Run Started")
	require.Contains(t, string(buf), "Run Ended")
	require.Contains(t, string(buf), "Agent calls: 2, Failed: 1")
	// Should no longer be present in map
	_, ok := sp.runs[cctx.GetChatID()]
	assert.False(t, ok)

	// EndRun with no run (run already deleted)
	s2, _ := sp.EndRun(ctx)
	assert.Nil(t, s2)
}

func TestScratchpad_getRun_nil(t *testing.T) {
	t.Parallel()
	sp := NewScratchpad(ModeDefault)
	// No chat context at all
	assert.Nil(t, sp.getRun(context.Background()))
	// Chat context not in runs
	ctx, _ := newTestChatContext()
	assert.Nil(t, sp.getRun(ctx))
}

func TestScratchpad_StartRun_NoChatContext(t *testing.T) {
	t.Parallel()
	sp := NewScratchpad(ModeDefault)
	ctx := context.Background()
	assert.NotPanics(t, func() { sp.StartRun(ctx) })
	assert.Empty(t, sp.runs)

	stats, buf := sp.EndRun(ctx)
	assert.Nil(t, stats)
	assert.Nil(t, buf)
}

func TestScratchpad_OnCallbacks(t *testing.T) {
	t.Parallel()
	sp := NewScratchpad(ModeVerbose)
	ctx, _ := newTestChatContext()
	sp.StartRun(ctx)
	ag := &spAgent{name: "A1"}
	tool := &spTool{name: "T1"}
	model := llmtest.New()
	resp := &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: "Answer 1"}}}

	sp.OnAgentStart(ctx, ag, "input")
	sp.OnModelCallStart(ctx, ag, model, []llms.Message{
		llms.MessageFromTextParts(llms.RoleHuman, "foo"),
	})
	sp.OnModelCallEnd(ctx, ag, model, resp)
	sp.OnToolStart(ctx, tool, ag.Name(), "tinput")
	sp.OnToolEnd(ctx, tool, ag.Name(), "tinput", "toutput")
	sp.OnToolError(ctx, tool, ag.Name(), "tinput", errors.New("terr"))
	sp.OnToolNotFound(ctx, ag, "T2")
	sp.OnAgentEnd(ctx, ag, "input", &agent.Response{Content: "Answer 1"})
	sp.OnAgentError(ctx, ag, "input", errors.New("fail"), nil)

	stats, output := sp.EndRun(ctx)
	require.NotNil(t, stats)
	assert.Equal(t, uint32(1), stats.AgentCalls)
	assert.Equal(t, uint32(1), stats.AgentCallsSucceeded)
	assert.Equal(t, uint32(1), stats.AgentCallsFailed)
	assert.Equal(t, uint32(1), stats.LLMCalls)
	assert.Equal(t, uint32(1), stats.ToolsCalls)
	assert.Equal(t, uint32(1), stats.ToolsCallsFailed)
	assert.Equal(t, uint32(1), stats.ToolNotFound)

	outStr := string(output)
	assert.Contains(t, outStr, "A1 *** Agent Start ***")
	assert.Contains(t, outStr, "A1 *** Agent End ***")
	assert.Contains(t, outStr, "A1 T1 *** Tool Start ***")
	assert.Contains(t, outStr, "A1 T1 *** Tool End ***")
	assert.Contains(t, outStr, "LLM Call")
	assert.Contains(t, outStr, "Error")
	assert.Contains(t, outStr, "Tool Not Found")

	// callback methods should still work with no run
	sp.OnAgentStart(ctx, ag, "input")
	sp.OnModelCallStart(ctx, ag, model, nil)
	sp.OnModelCallEnd(ctx, ag, model, resp)
	sp.OnToolStart(ctx, tool, ag.Name(), "tinput")
	sp.OnToolEnd(ctx, tool, ag.Name(), "tinput", "toutput")
	sp.OnToolError(ctx, tool, ag.Name(), "tinput", errors.New("terr2"))
	sp.OnToolNotFound(ctx, ag, "T3")
	sp.OnAgentEnd(ctx, ag, "input", &agent.Response{})
	sp.OnAgentError(ctx, ag, "input", errors.New("fail2"), nil)
}

func Test_run_print_format(t *testing.T) {
	t.Parallel()
	_, chatCtx := newTestChatContext()
	r := &run{chatCtx: chatCtx}
	oldTimeFn := TimeNowFn
	TimeNowFn = func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) }
	defer func() { TimeNowFn = oldTimeFn }()

	r.print("hello", "again")
	lines := strings.Split(r.w.String(), "\n")
	require.NotEmpty(t, lines[0])
	// Format: [timestamp chatID.runID] hello again
	assert.Contains(t, lines[0], "2024-01-01 12:00:00 "+chatCtx.GetChatID()+"."+chatCtx.RunID()+" hello again")
}
