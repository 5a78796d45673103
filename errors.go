package reactloop

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Typed errors below unwrap to these so callers can use errors.Is.
var (
	ErrParse                = errors.New("could not parse model output")
	ErrUnknownTool          = errors.New("unknown tool")
	ErrToolExecution        = errors.New("tool execution failed")
	ErrConfiguration        = errors.New("invalid configuration")
	ErrDuplicateToolName    = errors.New("duplicate tool name")
	ErrUnsupportedOperation = errors.New("unsupported operation")
)

// ParseError is returned by output parsers when a completion matches neither the finish
// grammar nor the action grammar.
type ParseError struct {
	// Output is the raw completion that failed to parse.
	Output string

	// Reason is a short description of what was missing.
	Reason string
}

// NewParseError creates a ParseError for the given completion.
func NewParseError(output, reason string) *ParseError {
	return &ParseError{Output: output, Reason: reason}
}

func (e *ParseError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%v: `%s`", ErrParse, e.Output)
	}
	return fmt.Sprintf("%v (%s): `%s`", ErrParse, e.Reason, e.Output)
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}

// UnknownToolError is returned when dispatching to a name that is not registered.
type UnknownToolError struct {
	Name  string
	Valid []string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("%s is not a valid tool, try one of [%s]", e.Name, strings.Join(e.Valid, ", "))
}

func (e *UnknownToolError) Unwrap() error {
	return ErrUnknownTool
}

// ToolExecutionError wraps a failure raised by a tool.
type ToolExecutionError struct {
	Tool string
	Err  error
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("tool %q: %v", e.Tool, e.Err)
}

// Is reports ErrToolExecution so callers can match the category without unwrapping the cause.
func (e *ToolExecutionError) Is(target error) bool {
	return target == ErrToolExecution
}

func (e *ToolExecutionError) Unwrap() error {
	return e.Err
}

// ConfigurationError is raised at construction time. It is always fatal.
type ConfigurationError struct {
	Component string
	Err       error
}

// NewConfigurationError creates a ConfigurationError with a formatted message.
func NewConfigurationError(component, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Component: component, Err: fmt.Errorf(format, args...)}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrConfiguration, e.Component, e.Err)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// RunError is the tagged failure returned when a run stops in a failed state.
// It carries the text needed to debug the prompt that led to the failure.
type RunError struct {
	State RunState

	// Err is the underlying failure (a *ParseError, *ToolExecutionError, or model error).
	Err error

	// LastLog is the rationale of the last recorded step, or "" if none.
	LastLog string

	// RawCompletion is the completion that caused the failure, when there is one.
	RawCompletion string
}

func (e *RunError) Error() string {
	return fmt.Sprintf("run %s: %v", e.State, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}
