// Package tools defines the Tool interface for LLM agents: name, description,
// parameter schema and the call with JSON input.
package tools
