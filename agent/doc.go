// Package agent provides a bounded tool-use orchestration loop:
// an Agent combines learned capabilities, registered functions and a
// chat model, and drives model round-trips interleaved with tool
// execution until the model produces a final answer.
package agent
