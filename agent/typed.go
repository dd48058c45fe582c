package agent

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentcall/encoding"
)

// RespondAs runs the loop and decodes the final answer into T, using the
// schema encoder for the agent's configured mode. Format instructions
// derived from T's schema are appended to the request so the model knows
// the expected shape. Plain-text mode falls back to lenient JSON.
func RespondAs[T any](ctx context.Context, a *Agent, input string) (*T, *Response, error) {
	mode := a.cfg.Mode
	if mode == "" || mode == encoding.ModePlainText {
		mode = encoding.ModeJSON
	}
	var source T
	parser, err := encoding.NewTypedOutputParser(source, mode)
	if err != nil {
		return nil, nil, err
	}

	resp, err := a.Respond(ctx, input+"\n"+parser.GetFormatInstructions())
	if err != nil {
		return nil, nil, err
	}

	out, err := parser.Parse(resp.Content)
	if err != nil {
		return nil, resp, errors.WithMessagef(err, "agent %s: failed to decode response", a.name)
	}
	return out, resp, nil
}
