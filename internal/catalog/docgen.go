package catalog

import (
	"fmt"
	"io"
	"strings"
)

// RenderMarkdown writes a human readable listing of the catalog.
func RenderMarkdown(w io.Writer, c *Catalog) error {
	var sb strings.Builder
	sb.WriteString("# MCP Tools (Generated)\n\n")
	sb.WriteString("This file is generated by `google-docs-mcp tools`.\n\n")

	for _, d := range c.List() {
		fmt.Fprintf(&sb, "- `%s`\n", d.Name)
		if d.Description != "" {
			fmt.Fprintf(&sb, "  - Description: %s\n", d.Description)
		}
		if len(d.InputSchema.Properties) > 0 {
			sb.WriteString("  - Input:\n")
			for _, p := range d.InputSchema.Properties {
				req := "optional"
				if p.Required {
					req = "required"
				}
				fmt.Fprintf(&sb, "    - `%s` (%s, %s)", p.Name, p.Type, req)
				if len(p.Enum) > 0 {
					fmt.Fprintf(&sb, " one of %s", strings.Join(p.Enum, ", "))
				}
				if p.Default != nil {
					fmt.Fprintf(&sb, " default `%v`", p.Default)
				}
				sb.WriteString("\n")
			}
		}
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
