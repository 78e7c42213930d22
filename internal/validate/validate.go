package validate

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/5w1tchy/library-api/internal/api/apperr"
)

// Paging defaults for collection endpoints.
const (
	DefaultPageNumber = 1
	DefaultPageSize   = 10
	MaxPageSize       = 20
)

// Bounded trims s and checks its length in runes. A failure is returned as
// a field error so callers can collect several before answering.
func Bounded(field, s string, min, max int) (string, *apperr.FieldError) {
	s = strings.TrimSpace(s)
	n := utf8.RuneCountInString(s)
	switch {
	case n == 0 && min > 0:
		return s, &apperr.FieldError{Field: field, Code: "required", Message: field + " is required"}
	case n < min || n > max:
		return s, &apperr.FieldError{
			Field:   field,
			Code:    "length",
			Message: field + " must be between " + strconv.Itoa(min) + " and " + strconv.Itoa(max) + " characters",
		}
	}
	return s, nil
}

// ClampPage parses paging parameters. Missing or unparsable values fall
// back to the defaults, a page number below 1 becomes 1 and the page size
// is kept within 1..max.
func ClampPage(numberRaw, sizeRaw string, def, max int) (int, int) {
	number := DefaultPageNumber
	if v, err := strconv.Atoi(strings.TrimSpace(numberRaw)); err == nil {
		number = v
	}
	number = maxInt(number, 1)

	size := def
	if v, err := strconv.Atoi(strings.TrimSpace(sizeRaw)); err == nil {
		size = v
	}
	size = minInt(maxInt(size, 1), max)
	return number, size
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
