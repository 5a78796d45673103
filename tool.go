package reactloop

import (
	"context"
	"fmt"
)

// Tool is a named capability the executor can dispatch to. It accepts one string input and
// returns one string output.
type Tool interface {
	Run(ctx context.Context, input string) (string, error)
}

// AsyncTool is implemented by tools that can also run without blocking the caller.
//
// The returned channel must deliver exactly one ToolResult and may then be closed.
type AsyncTool interface {
	Tool
	RunAsync(ctx context.Context, input string) <-chan ToolResult
}

// ToolResult is the outcome of an asynchronous tool call.
type ToolResult struct {
	Output string
	Err    error
}

// ToolFunc adapts a function to the Tool interface.
type ToolFunc func(ctx context.Context, input string) (string, error)

// Run calls f.
func (f ToolFunc) Run(ctx context.Context, input string) (string, error) {
	return f(ctx, input)
}

// ToolDescriptor describes a registered tool.
type ToolDescriptor struct {
	// Name is unique within a registry.
	Name string

	// Description is rendered into the prompt as "name: description".
	Description string

	// ReturnDirect makes the tool's output the final answer of the run.
	ReturnDirect bool

	// PropagateErrors makes a tool failure stop the run instead of becoming an observation.
	PropagateErrors bool
}

// AsyncToolFunc builds an AsyncTool from a synchronous function. RunAsync runs fn on a new
// goroutine.
type AsyncToolFunc func(ctx context.Context, input string) (string, error)

// Run calls f.
func (f AsyncToolFunc) Run(ctx context.Context, input string) (string, error) {
	return f(ctx, input)
}

// RunAsync calls f on a new goroutine and delivers the result on the returned channel.
func (f AsyncToolFunc) RunAsync(ctx context.Context, input string) <-chan ToolResult {
	ch := make(chan ToolResult, 1)
	go func() {
		defer close(ch)
		defer func() {
			if r := recover(); r != nil {
				ch <- ToolResult{Err: fmt.Errorf("panic: %v", r)}
			}
		}()
		out, err := f(ctx, input)
		ch <- ToolResult{Output: out, Err: err}
	}()
	return ch
}

var (
	_ Tool      = ToolFunc(nil)
	_ AsyncTool = AsyncToolFunc(nil)
)
