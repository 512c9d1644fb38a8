package core

import (
	"fmt"
	"strings"

	"github.com/joseb33w/google-docs-mcp-server/internal/catalog"
)

// Policy decides which catalog operations are exposed. Entries are exact
// tool names or prefixes ending in "*" (e.g. "drive_delete_*").
type Policy struct {
	allowed []string
	denied  []string
}

// NewPolicy creates a Policy from comma-separated allow and deny lists.
// An empty allow list allows every tool; the deny list always wins.
func NewPolicy(allowCSV, denyCSV string) *Policy {
	return &Policy{
		allowed: parseCSV(allowCSV),
		denied:  parseCSV(denyCSV),
	}
}

// CheckTool returns an error if toolName is not exposed.
func (p *Policy) CheckTool(toolName string) error {
	if matchAny(p.denied, toolName) {
		return fmt.Errorf("tool %q denied by policy", toolName)
	}
	if len(p.allowed) > 0 && !matchAny(p.allowed, toolName) {
		return fmt.Errorf("tool %q not in allowlist", toolName)
	}
	return nil
}

// FilterCatalog returns the subset of cat this policy exposes, in order.
// Filtered tools are unknown to every transport.
func (p *Policy) FilterCatalog(cat *catalog.Catalog) *catalog.Catalog {
	return cat.Filter(func(d catalog.Descriptor) bool {
		return p.CheckTool(d.Name) == nil
	})
}

func matchAny(patterns []string, name string) bool {
	for _, pat := range patterns {
		if prefix, ok := strings.CutSuffix(pat, "*"); ok {
			if strings.HasPrefix(name, prefix) {
				return true
			}
			continue
		}
		if pat == name {
			return true
		}
	}
	return false
}

func parseCSV(s string) []string {
	out := make([]string, 0)
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
