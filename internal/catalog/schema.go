package catalog

import (
	"bytes"
	"encoding/json"
)

// Property describes one named parameter of an operation.
type Property struct {
	Name        string
	Type        string
	Description string
	Enum        []string
	Default     any
	Items       *Property
	Required    bool
}

func prop(typ, name, description string) Property {
	return Property{Name: name, Type: typ, Description: description}
}

// String declares a string parameter.
func String(name, description string) Property { return prop("string", name, description) }

// Integer declares an integer parameter.
func Integer(name, description string) Property { return prop("integer", name, description) }

// Number declares a floating point parameter.
func Number(name, description string) Property { return prop("number", name, description) }

// Boolean declares a boolean parameter.
func Boolean(name, description string) Property { return prop("boolean", name, description) }

// Array declares an array parameter whose elements are described by items.
func Array(name, description string, items Property) Property {
	p := prop("array", name, description)
	p.Items = &items
	return p
}

// Req marks the parameter as required.
func (p Property) Req() Property {
	p.Required = true
	return p
}

// WithDefault sets the value used when the caller omits the parameter.
func (p Property) WithDefault(v any) Property {
	p.Default = v
	return p
}

// OneOf restricts the parameter to the given values.
func (p Property) OneOf(values ...string) Property {
	p.Enum = append([]string(nil), values...)
	return p
}

func (p Property) jsonSchema() map[string]any {
	out := map[string]any{"type": p.Type}
	if p.Description != "" {
		out["description"] = p.Description
	}
	if len(p.Enum) > 0 {
		out["enum"] = p.Enum
	}
	if p.Default != nil {
		out["default"] = p.Default
	}
	if p.Items != nil {
		out["items"] = p.Items.jsonSchema()
	}
	return out
}

// Schema is the parameter schema of an operation: an object whose named
// properties are kept in declaration order.
type Schema struct {
	Properties []Property
}

// Object builds a Schema from its properties.
func Object(props ...Property) Schema {
	return Schema{Properties: props}
}

// Property returns the named property.
func (s Schema) Property(name string) (Property, bool) {
	for _, p := range s.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// Required lists required property names in declaration order.
func (s Schema) Required() []string {
	out := make([]string, 0)
	for _, p := range s.Properties {
		if p.Required {
			out = append(out, p.Name)
		}
	}
	return out
}

// Defaults returns the default value of every property that declares one.
func (s Schema) Defaults() map[string]any {
	out := make(map[string]any)
	for _, p := range s.Properties {
		if p.Default != nil {
			out[p.Name] = p.Default
		}
	}
	return out
}

// JSONSchema renders the schema as a JSON Schema object. Map keys carry no
// order; MarshalJSON keeps properties in declaration order.
func (s Schema) JSONSchema() map[string]any {
	props := make(map[string]any, len(s.Properties))
	for _, p := range s.Properties {
		props[p.Name] = p.jsonSchema()
	}
	out := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if req := s.Required(); len(req) > 0 {
		out["required"] = req
	}
	return out
}

func (s Schema) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"type":"object","properties":{`)
	for i, p := range s.Properties {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(p.Name)
		if err != nil {
			return nil, err
		}
		prop, err := json.Marshal(p.jsonSchema())
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(prop)
	}
	buf.WriteByte('}')
	if req := s.Required(); len(req) > 0 {
		raw, err := json.Marshal(req)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`,"required":`)
		buf.Write(raw)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
