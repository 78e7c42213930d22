// Package authors stores authors and serves the sortable, pageable author
// listing.
package authors

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/5w1tchy/library-api/internal/models"
	"github.com/5w1tchy/library-api/internal/shaping"
	"github.com/5w1tchy/library-api/internal/store/books"
	"github.com/5w1tchy/library-api/internal/store/dbx"
	"github.com/5w1tchy/library-api/internal/store/sqlq"
)

var ErrNotFound = errors.New("author not found")

// table exposes the Author entity's internal field names for ordering.
var table = &sqlq.Table{
	From:    "authors a",
	Columns: "a.id, a.first_name, a.last_name, a.date_of_birth, a.date_of_death, a.genre",
	Order: map[string]string{
		"Id":          "a.id",
		"FirstName":   "a.first_name",
		"LastName":    "a.last_name",
		"DateOfBirth": "a.date_of_birth",
		"DateOfDeath": "a.date_of_death",
		"Genre":       "a.genre",
	},
	Tiebreak: "a.id",
}

func scan(s sqlq.Scanner) (models.Author, error) {
	var a models.Author
	var death sql.NullTime
	if err := s.Scan(&a.ID, &a.FirstName, &a.LastName, &a.DateOfBirth, &death, &a.Genre); err != nil {
		return models.Author{}, err
	}
	if death.Valid {
		t := death.Time
		a.DateOfDeath = &t
	}
	return a, nil
}

// ListParams filters, orders and pages the author listing.
type ListParams struct {
	OrderBy     string
	Genre       string
	SearchQuery string
	PageNumber  int
	PageSize    int
}

// List compiles p.OrderBy through m and returns the requested page.
// Sort errors wrap shaping.ErrValidation.
func List(ctx context.Context, db sqlq.DB, m shaping.Mapping, p ListParams) (shaping.Page[models.Author], error) {
	q := sqlq.New(db, table, scan)
	if g := strings.TrimSpace(p.Genre); g != "" {
		q = q.Where("lower(a.genre) = lower(?)", g)
	}
	if s := strings.TrimSpace(p.SearchQuery); s != "" {
		like := sqlq.Like(strings.ToLower(s))
		q = q.Where("(lower(a.genre) LIKE ? OR lower(a.first_name) LIKE ? OR lower(a.last_name) LIKE ?)", like, like, like)
	}
	q, err := shaping.ApplySort(q, p.OrderBy, m)
	if err != nil {
		return shaping.Page[models.Author]{}, err
	}
	return shaping.Paginate[models.Author](ctx, q, p.PageNumber, p.PageSize)
}

func Get(ctx context.Context, g dbx.Getter, id uuid.UUID) (models.Author, error) {
	a, err := scan(dbx.Get(ctx, g, `SELECT `+table.Columns+` FROM authors a WHERE a.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Author{}, ErrNotFound
	}
	return a, err
}

func Exists(ctx context.Context, g dbx.Getter, id uuid.UUID) (bool, error) {
	var ok bool
	err := dbx.Get(ctx, g, `SELECT EXISTS (SELECT 1 FROM authors WHERE id = $1)`, id).Scan(&ok)
	return ok, err
}

// Create inserts a and its books in one transaction, assigning ids.
func Create(ctx context.Context, db *sql.DB, a *models.Author) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return dbx.WithinTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := dbx.Exec(ctx, tx,
			`INSERT INTO authors (id, first_name, last_name, date_of_birth, date_of_death, genre) VALUES ($1, $2, $3, $4, $5, $6)`,
			a.ID, a.FirstName, a.LastName, a.DateOfBirth, a.DateOfDeath, a.Genre,
		); err != nil {
			return err
		}
		for i := range a.Books {
			a.Books[i].AuthorID = a.ID
			if err := books.Insert(ctx, tx, &a.Books[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the author and its books.
func Delete(ctx context.Context, db *sql.DB, id uuid.UUID) error {
	return dbx.WithinTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := dbx.Exec(ctx, tx, `DELETE FROM books WHERE author_id = $1`, id); err != nil {
			return err
		}
		return dbx.ExecAffecting(ctx, tx, ErrNotFound, `DELETE FROM authors WHERE id = $1`, id)
	})
}

// Reset removes every author and book.
func Reset(ctx context.Context, db *sql.DB) error {
	return dbx.WithinTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := dbx.Exec(ctx, tx, `DELETE FROM books`); err != nil {
			return err
		}
		_, err := dbx.Exec(ctx, tx, `DELETE FROM authors`)
		return err
	})
}
