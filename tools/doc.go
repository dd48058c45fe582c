// Package tools defines the Tool interface for LLM agents, including the
// function registry, parameter declarations and argument validation.
// Tools enable agents to interact with external systems and APIs in a
// structured, extensible way.
package tools
