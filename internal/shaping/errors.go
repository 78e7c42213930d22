package shaping

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

var (
	// ErrValidation reports caller input that cannot be honoured
	// (unknown sort keys, blank clauses, out of range paging).
	ErrValidation = errors.New("shaping: validation failed")
	// ErrConfiguration reports a registry or descriptor that was set up wrong.
	ErrConfiguration = errors.New("shaping: configuration error")
	// ErrFieldNotFound is matched by every *FieldNotFoundError.
	ErrFieldNotFound = errors.New("shaping: field not found")
)

// FieldNotFoundError is returned by the shaper when a requested field is not
// declared on the shape.
type FieldNotFoundError struct {
	Field string
	Shape string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("field %q was not found on %s", e.Field, e.Shape)
}

func (e *FieldNotFoundError) Is(target error) bool { return target == ErrFieldNotFound }

// foldKey normalizes a field name for case-insensitive lookups.
// cases.Caser keeps state, so a fresh one is taken per call.
func foldKey(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// splitList splits a comma separated list and trims every token.
// Empty tokens are kept so callers can reject them.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }
