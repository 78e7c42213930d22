// Package sqlq is a small SELECT builder that plugs database/sql into the
// shaping sort compiler and pager.
package sqlq

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/5w1tchy/library-api/internal/store/dbx"
)

// ErrUnknownField is returned when ThenBy names a field the table does not
// expose for ordering.
var ErrUnknownField = errors.New("sqlq: unknown order field")

// DB is satisfied by *sql.DB and *sql.Tx.
type DB interface {
	dbx.Queryer
	dbx.Getter
}

// Table describes the FROM clause, the selected columns and the columns
// each internal field name orders by.
type Table struct {
	From     string
	Columns  string
	Order    map[string]string
	Tiebreak string // appended last so paging is deterministic
}

type Scanner = dbx.Scanner

// Select is an immutable query: Where and ThenBy return copies.
type Select[T any] struct {
	db    DB
	table *Table
	scan  func(Scanner) (T, error)
	where []string
	args  []any
	order []string
	err   error
}

func New[T any](db DB, table *Table, scan func(Scanner) (T, error)) Select[T] {
	return Select[T]{db: db, table: table, scan: scan}
}

// Where adds a condition joined with AND. Placeholders are written as "?"
// and renumbered to $n.
func (s Select[T]) Where(cond string, args ...any) Select[T] {
	s.where = append(slices.Clip(s.where), cond)
	s.args = append(slices.Clip(s.args), args...)
	return s
}

func (s Select[T]) ThenBy(field string, descending bool) Select[T] {
	col, ok := s.table.Order[field]
	if !ok {
		if s.err == nil {
			s.err = fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
		return s
	}
	dir := " ASC"
	if descending {
		dir = " DESC"
	}
	s.order = append(slices.Clip(s.order), col+dir)
	return s
}

func (s Select[T]) Err() error { return s.err }

// CountSQL renders the COUNT query.
func (s Select[T]) CountSQL() (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT COUNT(*) FROM ")
	b.WriteString(s.table.From)
	s.writeWhere(&b)
	return rebind(b.String()), s.args
}

// PageSQL renders the ordered SELECT with LIMIT and OFFSET.
func (s Select[T]) PageSQL(offset, limit int) (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(s.table.Columns)
	b.WriteString(" FROM ")
	b.WriteString(s.table.From)
	s.writeWhere(&b)
	order := s.order
	if s.table.Tiebreak != "" {
		order = append(slices.Clip(order), s.table.Tiebreak)
	}
	if len(order) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(order, ", "))
	}
	b.WriteString(" LIMIT ? OFFSET ?")
	args := append(slices.Clip(s.args), limit, offset)
	return rebind(b.String()), args
}

func (s Select[T]) Count(ctx context.Context) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	q, args := s.CountSQL()
	var n int
	if err := dbx.Get(ctx, s.db, q, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s Select[T]) Slice(ctx context.Context, offset, limit int) ([]T, error) {
	if s.err != nil {
		return nil, s.err
	}
	q, args := s.PageSQL(offset, limit)
	rows, err := dbx.Query(ctx, s.db, q, args...)
	if err != nil {
		return nil, err
	}
	return dbx.ScanAll(rows, s.scan)
}

func (s Select[T]) writeWhere(b *strings.Builder) {
	if len(s.where) == 0 {
		return
	}
	b.WriteString(" WHERE ")
	for i, w := range s.where {
		if i > 0 {
			b.WriteString(" AND ")
		}
		b.WriteString(w)
	}
}

func rebind(q string) string {
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Like escapes s for use inside a LIKE pattern and wraps it in %.
func Like(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
