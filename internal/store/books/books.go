// Package books stores the books of an author.
package books

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/5w1tchy/library-api/internal/models"
	"github.com/5w1tchy/library-api/internal/store/dbx"
)

var ErrNotFound = errors.New("book not found")

const columns = `id, title, description, author_id`

func scan(row dbx.Scanner) (models.Book, error) {
	var b models.Book
	err := row.Scan(&b.ID, &b.Title, &b.Description, &b.AuthorID)
	return b, err
}

// ListForAuthor returns the author's books ordered by title.
func ListForAuthor(ctx context.Context, q dbx.Queryer, authorID uuid.UUID) ([]models.Book, error) {
	rows, err := dbx.Query(ctx, q,
		`SELECT `+columns+` FROM books WHERE author_id = $1 ORDER BY title, id`, authorID)
	if err != nil {
		return nil, err
	}
	return dbx.ScanAll(rows, scan)
}

func Get(ctx context.Context, g dbx.Getter, authorID, id uuid.UUID) (models.Book, error) {
	b, err := scan(dbx.Get(ctx, g,
		`SELECT `+columns+` FROM books WHERE author_id = $1 AND id = $2`, authorID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Book{}, ErrNotFound
	}
	return b, err
}

// Insert stores b, assigning an id when b has none.
func Insert(ctx context.Context, e dbx.Execer, b *models.Book) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	_, err := dbx.Exec(ctx, e,
		`INSERT INTO books (id, title, description, author_id) VALUES ($1, $2, $3, $4)`,
		b.ID, b.Title, b.Description, b.AuthorID)
	return err
}

func Update(ctx context.Context, e dbx.Execer, b models.Book) error {
	return dbx.ExecAffecting(ctx, e, ErrNotFound,
		`UPDATE books SET title = $1, description = $2 WHERE author_id = $3 AND id = $4`,
		b.Title, b.Description, b.AuthorID, b.ID)
}

func Delete(ctx context.Context, e dbx.Execer, authorID, id uuid.UUID) error {
	return dbx.ExecAffecting(ctx, e, ErrNotFound, `DELETE FROM books WHERE author_id = $1 AND id = $2`, authorID, id)
}
