package shaping

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SortSpec is one parsed token of an orderBy clause.
type SortSpec struct {
	Field      string
	Descending bool
}

// Orderer is a query that can take one more ordering step. The first call
// sets the primary key, later calls break ties.
type Orderer[Q any] interface {
	ThenBy(field string, descending bool) Q
}

// ParseOrderBy splits "Name, Age desc" into sort specs. A trailing "desc"
// or "asc" word sets the direction; everything before it is the field.
func ParseOrderBy(orderBy string) ([]SortSpec, error) {
	if isBlank(orderBy) {
		return nil, fmt.Errorf("%w: orderBy is empty", ErrValidation)
	}
	tokens := splitList(orderBy)
	out := make([]SortSpec, 0, len(tokens))
	for i, tok := range tokens {
		name, desc := parseSortToken(tok)
		if name == "" {
			return nil, fmt.Errorf("%w: orderBy token %d is empty", ErrValidation, i+1)
		}
		out = append(out, SortSpec{Field: name, Descending: desc})
	}
	return out, nil
}

func parseSortToken(tok string) (string, bool) {
	tok = strings.TrimSpace(tok)
	i := strings.LastIndexFunc(tok, unicode.IsSpace)
	if i < 0 {
		return tok, false
	}
	_, size := utf8.DecodeRuneInString(tok[i:])
	switch foldKey(tok[i+size:]) {
	case "desc":
		return strings.TrimSpace(tok[:i]), true
	case "asc":
		return strings.TrimSpace(tok[:i]), false
	}
	return tok, false
}

// ApplySort compiles orderBy against the mapping and appends the ordering
// steps to query. Each external field expands to its internal fields in
// declared order; a Reverse entry flips the requested direction. On error
// the query is returned unchanged.
func ApplySort[Q Orderer[Q]](query Q, orderBy string, m Mapping) (Q, error) {
	if isBlank(orderBy) {
		return query, fmt.Errorf("%w: orderBy is empty", ErrValidation)
	}
	if len(m) == 0 {
		return query, fmt.Errorf("%w: no sortable fields", ErrValidation)
	}
	specs, err := ParseOrderBy(orderBy)
	if err != nil {
		return query, err
	}
	out := query
	for _, s := range specs {
		e, ok := m.Lookup(s.Field)
		if !ok {
			return query, fmt.Errorf("%w: unknown sort field %q", ErrValidation, s.Field)
		}
		desc := s.Descending != e.Reverse
		for _, internal := range e.Internal {
			out = out.ThenBy(internal, desc)
		}
	}
	return out, nil
}
