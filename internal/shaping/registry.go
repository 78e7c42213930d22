package shaping

import (
	"fmt"
	"sort"
	"strings"
)

// Shape names a record shape, either a public DTO ("AuthorDto") or a storage
// entity ("Author").
type Shape string

// Entry maps one external (client facing) field name onto one or more
// internal field names. Reverse flips the sort direction for every internal
// field, e.g. Age sorts by DateOfBirth the other way round.
type Entry struct {
	External string
	Internal []string
	Reverse  bool
}

// Mapping is the set of entries registered for one shape pair, keyed by the
// folded external name.
type Mapping map[string]Entry

// Lookup finds the entry for an external name, ignoring case.
func (m Mapping) Lookup(name string) (Entry, bool) {
	e, ok := m[foldKey(name)]
	return e, ok
}

// Names returns the external names in their declared spelling, sorted.
func (m Mapping) Names() []string {
	out := make([]string, 0, len(m))
	for _, e := range m {
		out = append(out, e.External)
	}
	sort.Strings(out)
	return out
}

type pair struct {
	source Shape
	target Shape
}

// Registry holds property mappings per (source, target) shape pair.
// Registration happens at startup; afterwards the registry is only read and
// may be shared between goroutines.
type Registry struct {
	mappings map[pair]Mapping
}

func NewRegistry() *Registry {
	return &Registry{mappings: make(map[pair]Mapping)}
}

// Register installs the entries for a shape pair, replacing any previous
// registration for the same pair.
func (r *Registry) Register(source, target Shape, entries ...Entry) error {
	m := make(Mapping, len(entries))
	for _, e := range entries {
		key := foldKey(e.External)
		if key == "" {
			return fmt.Errorf("%w: %s->%s: empty external name", ErrConfiguration, source, target)
		}
		if len(e.Internal) == 0 {
			return fmt.Errorf("%w: %s->%s: %q has no internal fields", ErrConfiguration, source, target, e.External)
		}
		for _, in := range e.Internal {
			if strings.TrimSpace(in) == "" {
				return fmt.Errorf("%w: %s->%s: %q has a blank internal field", ErrConfiguration, source, target, e.External)
			}
		}
		if _, dup := m[key]; dup {
			return fmt.Errorf("%w: %s->%s: duplicate external name %q", ErrConfiguration, source, target, e.External)
		}
		e.External = strings.TrimSpace(e.External)
		e.Internal = append([]string(nil), e.Internal...)
		m[key] = e
	}
	r.mappings[pair{source, target}] = m
	return nil
}

// Mapping returns the entries registered for the pair.
func (r *Registry) Mapping(source, target Shape) (Mapping, error) {
	m, ok := r.mappings[pair{source, target}]
	if !ok {
		return nil, fmt.Errorf("%w: no mapping registered for %s->%s", ErrConfiguration, source, target)
	}
	return m, nil
}

// HasValidMapping reports whether every sort token in fields names a
// registered external field of the pair. Blank input is valid; an
// unregistered pair is not.
func (r *Registry) HasValidMapping(source, target Shape, fields string) bool {
	if isBlank(fields) {
		return true
	}
	m, ok := r.mappings[pair{source, target}]
	if !ok {
		return false
	}
	for _, tok := range splitList(fields) {
		name, _ := parseSortToken(tok)
		if _, ok := m.Lookup(name); !ok {
			return false
		}
	}
	return true
}
