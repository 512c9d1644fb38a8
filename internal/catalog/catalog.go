// Package catalog holds the registry of operations the server advertises:
// their names, descriptions and parameter schemas.
package catalog

import "fmt"

// Descriptor describes a single callable operation.
type Descriptor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	InputSchema Schema `json:"inputSchema"`
}

// Catalog is an ordered, read-only set of descriptors. Registration order is
// preserved and surfaced to callers verbatim.
type Catalog struct {
	descs []Descriptor
	index map[string]int
}

// New builds a catalog. Duplicate names are a programming error and panic.
func New(descs ...Descriptor) *Catalog {
	c := &Catalog{
		descs: make([]Descriptor, 0, len(descs)),
		index: make(map[string]int, len(descs)),
	}
	for _, d := range descs {
		if _, dup := c.index[d.Name]; dup {
			panic(fmt.Sprintf("catalog: duplicate operation %q", d.Name))
		}
		c.index[d.Name] = len(c.descs)
		c.descs = append(c.descs, d)
	}
	return c
}

// List returns a copy of all descriptors in registration order.
func (c *Catalog) List() []Descriptor {
	out := make([]Descriptor, len(c.descs))
	copy(out, c.descs)
	return out
}

// Lookup finds a descriptor by name.
func (c *Catalog) Lookup(name string) (Descriptor, bool) {
	i, ok := c.index[name]
	if !ok {
		return Descriptor{}, false
	}
	return c.descs[i], true
}

// Names returns operation names in registration order.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.descs))
	for _, d := range c.descs {
		out = append(out, d.Name)
	}
	return out
}

func (c *Catalog) Len() int { return len(c.descs) }

// Filter returns a new catalog containing the descriptors for which keep
// reports true, in the original order.
func (c *Catalog) Filter(keep func(Descriptor) bool) *Catalog {
	kept := make([]Descriptor, 0, len(c.descs))
	for _, d := range c.descs {
		if keep(d) {
			kept = append(kept, d)
		}
	}
	return New(kept...)
}
