// Package tools provides the tool registry and execution framework.
//
// This file defines sentinel error types for tool execution.
package tools

import "fmt"

// UnknownToolError is returned when a tool call targets a name not
// present in the registry. Models hallucinate tool names; this is
// conversation content, not a program fault.
type UnknownToolError struct {
	Name string
}

// Error implements the error interface.
func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool %q", e.Name)
}

// MissingArgumentError is returned when a required argument declared in
// the tool's parameter schema is absent from the call.
type MissingArgumentError struct {
	Tool     string
	Argument string
}

// Error implements the error interface.
func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("tool %q requires argument %q", e.Tool, e.Argument)
}
