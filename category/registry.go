// Package category assigns integer identifiers to class names.
package category

import (
	"fmt"
	"sort"

	"github.com/jackvalmadre/dataset-tools/report"
	"github.com/jackvalmadre/dataset-tools/voc"
)

// Registry maps class names to identifiers.
// Identifiers are never renumbered once assigned.
type Registry struct {
	base  int
	ids   map[string]int
	names map[int]string
	max   int
}

// Build collects every distinct class name in anns, sorts the names
// lexicographically and numbers them from base.
// The result does not depend on the order of anns.
func Build(anns []*voc.Annotation, base int) *Registry {
	set := make(map[string]bool)
	for _, a := range anns {
		for _, obj := range a.Objects {
			set[obj.Class] = true
		}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)

	r := empty(base)
	for i, name := range names {
		r.add(name, base+i)
	}
	return r
}

// Seed creates a registry from a fixed mapping.
// Identifiers must be distinct and not less than base.
func Seed(mapping map[string]int, base int) (*Registry, error) {
	r := empty(base)
	names := make([]string, 0, len(mapping))
	for name := range mapping {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		id := mapping[name]
		if name == "" {
			return nil, report.Configf("category with id %d has an empty name", id)
		}
		if id < base {
			return nil, report.Configf("category %q: id %d is less than base %d", name, id, base)
		}
		if other, ok := r.names[id]; ok {
			return nil, report.Configf("categories %q and %q share id %d", other, name, id)
		}
		r.add(name, id)
	}
	return r, nil
}

func empty(base int) *Registry {
	return &Registry{
		base:  base,
		ids:   make(map[string]int),
		names: make(map[int]string),
		max:   base - 1,
	}
}

func (r *Registry) add(name string, id int) {
	r.ids[name] = id
	r.names[id] = name
	if id > r.max {
		r.max = id
	}
}

// Lookup returns the identifier of a class.
func (r *Registry) Lookup(name string) (int, bool) {
	id, ok := r.ids[name]
	return id, ok
}

// LookupOrExtend returns the identifier of a class, assigning the next
// free identifier after the largest one if the class is new.
func (r *Registry) LookupOrExtend(name string) int {
	if id, ok := r.ids[name]; ok {
		return id
	}
	id := r.max + 1
	r.add(name, id)
	return id
}

// MustLookup is like Lookup but returns an error for unknown classes.
func (r *Registry) MustLookup(name string) (int, error) {
	id, ok := r.ids[name]
	if !ok {
		return 0, fmt.Errorf("unknown category %q", name)
	}
	return id, nil
}

// Names returns the class names in identifier order.
func (r *Registry) Names() []string {
	ids := r.IDs()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = r.names[id]
	}
	return names
}

// IDs returns the identifiers in increasing order.
func (r *Registry) IDs() []int {
	ids := make([]int, 0, len(r.names))
	for id := range r.names {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Name returns the class with the given identifier.
func (r *Registry) Name(id int) (string, bool) {
	name, ok := r.names[id]
	return name, ok
}

// Dense reports whether the identifiers are exactly base..base+Len()-1.
func (r *Registry) Dense() bool {
	return r.Len() == 0 || r.max == r.base+r.Len()-1
}

func (r *Registry) Len() int  { return len(r.ids) }
func (r *Registry) Base() int { return r.base }
