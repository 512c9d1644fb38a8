package dispatch

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/joseb33w/google-docs-mcp-server/internal/catalog"
)

// argumentValidator checks argument maps against each operation's JSON
// Schema. Schemas are compiled once, up front.
type argumentValidator struct {
	schemas map[string]*gojsonschema.Schema
}

func newArgumentValidator(cat *catalog.Catalog) (*argumentValidator, error) {
	v := &argumentValidator{schemas: make(map[string]*gojsonschema.Schema, cat.Len())}
	for _, d := range cat.List() {
		s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(d.InputSchema.JSONSchema()))
		if err != nil {
			return nil, fmt.Errorf("compile schema for %s: %w", d.Name, err)
		}
		v.schemas[d.Name] = s
	}
	return v, nil
}

func (v *argumentValidator) validate(name string, args map[string]any) error {
	s, ok := v.schemas[name]
	if !ok {
		return nil
	}
	if args == nil {
		args = map[string]any{}
	}
	result, err := s.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("invalid arguments: %s", strings.Join(msgs, "; "))
}
