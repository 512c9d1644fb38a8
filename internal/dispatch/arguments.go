package dispatch

import "github.com/joseb33w/google-docs-mcp-server/internal/catalog"

// applyDefaults returns a copy of args with schema defaults filled in for
// absent parameters. Missing required parameters are left absent.
func applyDefaults(schema catalog.Schema, args map[string]any) map[string]any {
	out := make(map[string]any, len(args)+len(schema.Properties))
	for k, v := range args {
		out[k] = v
	}
	for name, def := range schema.Defaults() {
		if v, ok := out[name]; !ok || v == nil {
			out[name] = def
		}
	}
	return out
}
