// Package schema builds and validates JSON Schemas. It backs validation of agent config
// files (see the config package), which are decoded from YAML or JSON before validation.
//
//	raw := schema.Object(map[string]*schema.Property{
//	    "type":           schema.String("Agent type").Enum("zero-shot-react-description"),
//	    "max_iterations": schema.Integer("Iteration budget").Min(0),
//	}, "type")
//	s := schema.MustCompile(raw)
//	err := s.Validate(doc)
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema pairs a raw schema map with its compiled validator.
type Schema struct {
	raw      map[string]any
	compiled *jsonschema.Schema
}

// Raw returns the schema as a map, e.g. for printing with `reactloop schema`.
func (s *Schema) Raw() map[string]any {
	if s == nil {
		return nil
	}
	return s.raw
}

// Validate checks data against the schema. data may be any value that marshals to JSON,
// including maps decoded from YAML. A nil Schema accepts everything.
func (s *Schema) Validate(data any) error {
	if s == nil || s.compiled == nil {
		return nil
	}
	doc, err := normalize(data)
	if err != nil {
		return err
	}
	if err := s.compiled.Validate(doc); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

// normalize converts data to the generic JSON values the validator expects.
func normalize(data any) (any, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

// ValidationError wraps a JSON Schema validation failure.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("schema validation failed: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Compile compiles a raw schema map. A nil map compiles to a nil Schema.
func Compile(raw map[string]any) (*Schema, error) {
	if raw == nil {
		return nil, nil
	}

	doc, err := normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{raw: raw, compiled: compiled}, nil
}

// MustCompile is like Compile but panics on error. Use it for schemas defined at init.
func MustCompile(raw map[string]any) *Schema {
	s, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return s
}

// Object creates a closed object schema: properties not listed are rejected. Names
// passed as required must be present.
func Object(properties map[string]*Property, required ...string) map[string]any {
	return ObjectProperty("", properties, required...).build()
}

// Property is a schema fragment built with the functions below.
type Property struct {
	typ         string
	description string
	enum        []any
	minimum     *float64
	maximum     *float64
	minLength   *int
	pattern     string
	items       map[string]any
	properties  map[string]*Property
	required    []string
	open        bool
	values      *Property
	def         any
}

func (p *Property) build() map[string]any {
	m := map[string]any{}
	if p.typ != "" {
		m["type"] = p.typ
	}
	if p.description != "" {
		m["description"] = p.description
	}
	if len(p.enum) > 0 {
		m["enum"] = p.enum
	}
	if p.minimum != nil {
		m["minimum"] = *p.minimum
	}
	if p.maximum != nil {
		m["maximum"] = *p.maximum
	}
	if p.minLength != nil {
		m["minLength"] = *p.minLength
	}
	if p.pattern != "" {
		m["pattern"] = p.pattern
	}
	if p.items != nil {
		m["items"] = p.items
	}
	if p.typ == "object" {
		if p.properties != nil {
			props := make(map[string]any, len(p.properties))
			for name, prop := range p.properties {
				props[name] = prop.build()
			}
			m["properties"] = props
		}
		switch {
		case p.values != nil:
			m["additionalProperties"] = p.values.build()
		case !p.open:
			m["additionalProperties"] = false
		}
	}
	if len(p.required) > 0 {
		m["required"] = p.required
	}
	if p.def != nil {
		m["default"] = p.def
	}
	return m
}

// String creates a string property.
func String(description string) *Property {
	return &Property{typ: "string", description: description}
}

// Integer creates an integer property.
func Integer(description string) *Property {
	return &Property{typ: "integer", description: description}
}

// Number creates a number property.
func Number(description string) *Property {
	return &Property{typ: "number", description: description}
}

// Boolean creates a boolean property.
func Boolean(description string) *Property {
	return &Property{typ: "boolean", description: description}
}

// Array creates an array property with the given item schema.
//
//	schema.Array("Tool names", map[string]any{"type": "string"})
func Array(description string, items map[string]any) *Property {
	return &Property{typ: "array", description: description, items: items}
}

// ObjectProperty creates a nested, closed object property.
func ObjectProperty(description string, properties map[string]*Property, required ...string) *Property {
	return &Property{typ: "object", description: description, properties: properties, required: required}
}

// MapOf creates an object property whose values all match values, with arbitrary keys.
func MapOf(description string, values *Property) *Property {
	return &Property{typ: "object", description: description, values: values}
}

// Open allows properties beyond the listed ones on an object property.
func (p *Property) Open() *Property {
	p.open = true
	return p
}

// Items returns the property as an items schema for Array.
func (p *Property) Items() map[string]any {
	return p.build()
}

// Enum sets the allowed values.
func (p *Property) Enum(values ...any) *Property {
	p.enum = values
	return p
}

// Min sets the minimum of a number or integer.
func (p *Property) Min(min float64) *Property {
	p.minimum = &min
	return p
}

// Max sets the maximum of a number or integer.
func (p *Property) Max(max float64) *Property {
	p.maximum = &max
	return p
}

// MinLength sets the minimum string length.
func (p *Property) MinLength(min int) *Property {
	p.minLength = &min
	return p
}

// Pattern sets a regular expression strings must match.
func (p *Property) Pattern(pattern string) *Property {
	p.pattern = pattern
	return p
}

// Default sets the documented default value.
func (p *Property) Default(value any) *Property {
	p.def = value
	return p
}
