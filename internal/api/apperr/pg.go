package apperr

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// constraintField maps schema constraint names to the JSON field clients send.
var constraintField = map[string]string{
	"authors_pkey":         "id",
	"books_pkey":           "id",
	"books_author_id_fkey": "authorId",
	"authors_genre_check":  "genre",
	"books_title_check":    "title",
}

type pgRule struct {
	status    int
	title     string
	code      string
	message   string
	retryable bool
}

// SQLSTATE → problem
var pgRules = map[string]pgRule{
	"23505": {http.StatusConflict, "Conflict", "unique", "value already exists", false},
	"23503": {http.StatusConflict, "Conflict", "fk", "resource is referenced by other records", false},
	"23502": {http.StatusBadRequest, "Bad Request", "not_null", "required field is missing", false},
	"23514": {http.StatusUnprocessableEntity, "Unprocessable Entity", "check", "constraint failed", false},
	"22P02": {http.StatusBadRequest, "Bad Request", "invalid", "invalid format", false},
	"22001": {http.StatusBadRequest, "Bad Request", "too_long", "value is too long", false},
	"40001": {http.StatusConflict, "Conflict", "", "transaction conflict, please retry", true},
	"40P01": {http.StatusConflict, "Conflict", "", "deadlock detected, please retry", true},
}

func fieldFor(pg *pgconn.PgError) string {
	if f, ok := constraintField[pg.ConstraintName]; ok {
		return f
	}
	if pg.ColumnName != "" {
		return pg.ColumnName
	}
	for _, k := range []string{"author_id", "title", "description", "genre", "id"} {
		if strings.Contains(pg.Detail, k) {
			return k
		}
	}
	return "field"
}

// FromPG maps a *pgconn.PgError to a Problem. Returns (Problem, true) if mapped.
func FromPG(err error) (Problem, bool) {
	var pg *pgconn.PgError
	if !errors.As(err, &pg) {
		return Problem{}, false
	}
	rule, ok := pgRules[pg.Code]
	if !ok {
		return Problem{Status: http.StatusInternalServerError, Title: "Database error"}, true
	}
	p := Problem{Status: rule.status, Title: rule.title, Retryable: rule.retryable}
	if rule.code == "" {
		p.Detail = rule.message
		return p, true
	}
	p.FieldErrors = []FieldError{{Field: fieldFor(pg), Code: rule.code, Message: rule.message}}
	return p, true
}

// HandleDBError maps err to a Problem and writes it. Returns true if handled.
func HandleDBError(w http.ResponseWriter, r *http.Request, err error, fallbackTitle string) bool {
	if err == nil {
		return false
	}
	if p, ok := FromPG(err); ok {
		Write(w, r, p)
		return true
	}
	Write(w, r, Problem{Status: http.StatusInternalServerError, Title: fallbackTitle})
	return true
}
