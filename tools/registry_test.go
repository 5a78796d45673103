package tools

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickchristie/reactloop"
)

func echo() reactloop.ToolFunc {
	return func(ctx context.Context, input string) (string, error) {
		return input, nil
	}
}

func desc(name string) reactloop.ToolDescriptor {
	return reactloop.ToolDescriptor{Name: name, Description: name + " tool"}
}

func TestNewRegistry_RejectsDuplicates(t *testing.T) {
	_, err := NewRegistry(
		Entry(desc("Search"), echo()),
		Entry(desc("Lookup"), echo()),
		Entry(desc("Search"), echo()),
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, reactloop.ErrDuplicateToolName)
	assert.ErrorIs(t, err, reactloop.ErrConfiguration)
	var cfgErr *reactloop.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "registry", cfgErr.Component)
	assert.Contains(t, err.Error(), "Search")
}

func TestRegistry_Register(t *testing.T) {
	tests := []struct {
		name     string
		input    reactloop.ToolDescriptor
		tool     reactloop.Tool
		expected error
	}{
		{name: "new name", input: desc("Lookup"), tool: echo()},
		{name: "duplicate name", input: desc("Search"), tool: echo(), expected: reactloop.ErrDuplicateToolName},
		{name: "empty name", input: desc(""), tool: echo(), expected: reactloop.ErrConfiguration},
		{name: "nil tool", input: desc("Calc"), tool: nil, expected: reactloop.ErrConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := MustNewRegistry(Entry(desc("Search"), echo()))
			err := r.Register(tt.input, tt.tool)
			if tt.expected != nil {
				assert.ErrorIs(t, err, tt.expected)
				assert.Equal(t, 1, r.Len())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []string{"Search", tt.input.Name}, r.Names())
		})
	}
}

func TestRegistry_DescriptorsKeepOrder(t *testing.T) {
	r := MustNewRegistry(
		Entry(reactloop.ToolDescriptor{Name: "b", ReturnDirect: true}, echo()),
		Entry(reactloop.ToolDescriptor{Name: "a"}, echo()),
	)

	descs := r.Descriptors()
	require.Len(t, descs, 2)
	assert.Equal(t, "b", descs[0].Name)
	assert.True(t, descs[0].ReturnDirect)
	assert.Equal(t, "a", descs[1].Name)

	entry, ok := r.Lookup("b")
	require.True(t, ok)
	assert.True(t, entry.Descriptor.ReturnDirect)

	_, ok = r.Lookup("c")
	assert.False(t, ok)
}

func TestRegistry_Invoke(t *testing.T) {
	boom := errors.New("boom")
	r := MustNewRegistry(
		Entry(desc("Echo"), echo()),
		Entry(desc("Fail"), reactloop.ToolFunc(func(ctx context.Context, input string) (string, error) {
			return "", boom
		})),
		Entry(desc("Panic"), reactloop.ToolFunc(func(ctx context.Context, input string) (string, error) {
			panic("kaboom")
		})),
	)

	type expected struct {
		output   string
		errIs    error
		errMatch string
	}

	tests := []struct {
		name     string
		tool     string
		expected expected
	}{
		{name: "success", tool: "Echo", expected: expected{output: "hi"}},
		{name: "tool error", tool: "Fail", expected: expected{errIs: boom, errMatch: "boom"}},
		{name: "tool panic", tool: "Panic", expected: expected{errIs: reactloop.ErrToolExecution, errMatch: "kaboom"}},
		{
			name:     "unknown",
			tool:     "Nope",
			expected: expected{errIs: reactloop.ErrUnknownTool, errMatch: "Nope is not a valid tool, try one of [Echo, Fail, Panic]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.Invoke(context.Background(), tt.tool, "hi")
			if tt.expected.errIs != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expected.errIs)
				assert.Contains(t, err.Error(), tt.expected.errMatch)
				assert.Empty(t, out)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected.output, out)
		})
	}
}

func TestRegistry_InvokeAsync(t *testing.T) {
	r := MustNewRegistry(
		Entry(desc("Sync"), echo()),
		Entry(desc("Async"), reactloop.AsyncToolFunc(func(ctx context.Context, input string) (string, error) {
			return strings.ToUpper(input), nil
		})),
		Entry(desc("AsyncPanic"), reactloop.AsyncToolFunc(func(ctx context.Context, input string) (string, error) {
			panic("async kaboom")
		})),
	)

	out, err := r.InvokeAsync(context.Background(), "Async", "hi")
	require.NoError(t, err)
	assert.Equal(t, "HI", out)

	_, err = r.InvokeAsync(context.Background(), "Sync", "hi")
	assert.ErrorIs(t, err, reactloop.ErrUnsupportedOperation)

	_, err = r.InvokeAsync(context.Background(), "AsyncPanic", "hi")
	assert.ErrorIs(t, err, reactloop.ErrToolExecution)
	assert.Contains(t, err.Error(), "async kaboom")

	_, err = r.InvokeAsync(context.Background(), "Missing", "hi")
	assert.ErrorIs(t, err, reactloop.ErrUnknownTool)
}

func TestRegistry_InvokeAsyncCanceled(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	r := MustNewRegistry(
		Entry(desc("Slow"), reactloop.AsyncToolFunc(func(ctx context.Context, input string) (string, error) {
			<-release
			return "late", nil
		})),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.InvokeAsync(ctx, "Slow", "x")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, reactloop.ErrToolExecution)
}

func TestRegistry_ConcurrentInvoke(t *testing.T) {
	r := MustNewRegistry(Entry(desc("Echo"), echo()))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := r.Invoke(context.Background(), "Echo", "x")
			assert.NoError(t, err)
			assert.Equal(t, "x", out)
		}()
	}
	wg.Wait()
}
