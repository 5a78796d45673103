package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestCompile(t *testing.T) {
	s, err := Compile(nil)
	assert.NoError(t, err)
	assert.Nil(t, s)

	s, err = Compile(map[string]any{"type": "object"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"type": "object"}, s.Raw())

	_, err = Compile(map[string]any{"type": 12})
	assert.ErrorContains(t, err, "compile schema")

	assert.Panics(t, func() { MustCompile(map[string]any{"minimum": "zero"}) })
}

func agentSchema() *Schema {
	return MustCompile(Object(map[string]*Property{
		"type":  String("Agent type").Enum("zero-shot", "self-ask"),
		"name":  String("Name").MinLength(1).Pattern("^[a-z-]+$"),
		"ratio": Number("Ratio").Min(0).Max(1),
		"tools": Array("Tools", ObjectProperty("", map[string]*Property{
			"name":          String("Tool name").MinLength(1),
			"return_direct": Boolean("Return directly"),
		}, "name").Items()),
		"limits": ObjectProperty("Limits", map[string]*Property{
			"max_iterations": Integer("Iterations").Min(0).Default(15),
		}),
		"labels": MapOf("Labels", String("")),
		"extra":  ObjectProperty("Free-form", nil).Open(),
	}, "type"))
}

func TestSchema_Validate(t *testing.T) {
	tests := []struct {
		name     string
		input    map[string]any
		expected bool
	}{
		{
			name: "valid document",
			input: map[string]any{
				"type":   "zero-shot",
				"name":   "demo-agent",
				"ratio":  0.5,
				"tools":  []any{map[string]any{"name": "Search", "return_direct": true}},
				"limits": map[string]any{"max_iterations": 3},
				"labels": map[string]any{"team": "search"},
				"extra":  map[string]any{"anything": []int{1, 2}},
			},
			expected: true,
		},
		{name: "missing required", input: map[string]any{"name": "x"}},
		{name: "enum violation", input: map[string]any{"type": "mrkl"}},
		{name: "pattern violation", input: map[string]any{"type": "self-ask", "name": "Bad Name"}},
		{name: "maximum violation", input: map[string]any{"type": "self-ask", "ratio": 2}},
		{name: "unknown property", input: map[string]any{"type": "self-ask", "colour": "red"}},
		{
			name:  "nested unknown property",
			input: map[string]any{"type": "self-ask", "limits": map[string]any{"max_tokens": 1}},
		},
		{
			name:  "negative integer",
			input: map[string]any{"type": "self-ask", "limits": map[string]any{"max_iterations": -1}},
		},
		{
			name:  "map value type",
			input: map[string]any{"type": "self-ask", "labels": map[string]any{"team": 1}},
		},
		{
			name:  "array item missing name",
			input: map[string]any{"type": "self-ask", "tools": []any{map[string]any{"return_direct": true}}},
		},
	}

	s := agentSchema()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := s.Validate(tc.input)
			if tc.expected {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var vErr *ValidationError
			assert.True(t, errors.As(err, &vErr), "expected *ValidationError, got %T", err)
		})
	}
}

func TestSchema_ValidateYAML(t *testing.T) {
	var doc any
	require.NoError(t, yaml.Unmarshal([]byte(`
type: zero-shot
limits:
  max_iterations: 4
tools:
  - name: Search
`), &doc))

	assert.NoError(t, agentSchema().Validate(doc))
}

func TestSchema_NilAcceptsEverything(t *testing.T) {
	var s *Schema
	assert.NoError(t, s.Validate(map[string]any{"foo": "bar"}))
	assert.Nil(t, s.Raw())
}

func TestSchema_UnmarshalableDocument(t *testing.T) {
	err := agentSchema().Validate(map[string]any{"type": func() {}})
	assert.ErrorContains(t, err, "marshal document")
}

func TestBuilders(t *testing.T) {
	tests := []struct {
		name     string
		input    *Property
		expected map[string]any
	}{
		{
			name:     "string with constraints",
			input:    String("A name").MinLength(1).Pattern("^[a-z]+$").Default("go"),
			expected: map[string]any{"type": "string", "description": "A name", "minLength": 1, "pattern": "^[a-z]+$", "default": "go"},
		},
		{
			name:     "integer bounds",
			input:    Integer("Count").Min(0).Max(100),
			expected: map[string]any{"type": "integer", "description": "Count", "minimum": float64(0), "maximum": float64(100)},
		},
		{
			name:     "enum",
			input:    String("").Enum("a", "b"),
			expected: map[string]any{"type": "string", "enum": []any{"a", "b"}},
		},
		{
			name:     "closed object",
			input:    ObjectProperty("", map[string]*Property{"a": Boolean("")}, "a"),
			expected: map[string]any{"type": "object", "properties": map[string]any{"a": map[string]any{"type": "boolean"}}, "additionalProperties": false, "required": []string{"a"}},
		},
		{
			name:     "open object",
			input:    ObjectProperty("", nil).Open(),
			expected: map[string]any{"type": "object"},
		},
		{
			name:     "map of numbers",
			input:    MapOf("", Number("")),
			expected: map[string]any{"type": "object", "additionalProperties": map[string]any{"type": "number"}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.input.build())
		})
	}
}

func TestValidationError(t *testing.T) {
	inner := errors.New("boom")
	err := &ValidationError{Err: inner}
	assert.Equal(t, "schema validation failed: boom", err.Error())
	assert.ErrorIs(t, err, inner)
}
