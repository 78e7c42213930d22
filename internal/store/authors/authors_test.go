package authors_test

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/5w1tchy/library-api/internal/models"
	"github.com/5w1tchy/library-api/internal/shaping"
	"github.com/5w1tchy/library-api/internal/store/authors"
)

var authorCols = []string{"id", "first_name", "last_name", "date_of_birth", "date_of_death", "genre"}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func authorMapping(t *testing.T) shaping.Mapping {
	t.Helper()
	reg, err := models.NewRegistry()
	if err != nil {
		t.Fatal(err)
	}
	m, err := reg.Mapping(models.ShapeAuthorDto, models.ShapeAuthor)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestList_SortsFiltersAndPages(t *testing.T) {
	db, mock := newMock(t)
	id := uuid.New()
	dob := time.Date(1947, 9, 21, 0, 0, 0, 0, time.UTC)

	where := ` WHERE lower(a.genre) = lower($1) AND (lower(a.genre) LIKE $2 OR lower(a.first_name) LIKE $3 OR lower(a.last_name) LIKE $4)`
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM authors a`+where)).
		WithArgs("Horror", "%ste%", "%ste%", "%ste%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT a.id, a.first_name, a.last_name, a.date_of_birth, a.date_of_death, a.genre FROM authors a`+where+
			` ORDER BY a.date_of_birth ASC, a.first_name ASC, a.last_name ASC, a.id LIMIT $5 OFFSET $6`,
	)).WithArgs("Horror", "%ste%", "%ste%", "%ste%", 5, 10).
		WillReturnRows(sqlmock.NewRows(authorCols).AddRow(id.String(), "Stephen", "King", dob, nil, "Horror"))

	page, err := authors.List(t.Context(), db, authorMapping(t), authors.ListParams{
		OrderBy:     "Age desc, Name",
		Genre:       " Horror ",
		SearchQuery: "STE",
		PageNumber:  3,
		PageSize:    5,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if page.TotalCount != 11 || page.TotalPages != 3 || page.HasNext() || !page.HasPrevious() {
		t.Fatalf("unexpected page meta: %+v", page)
	}
	if len(page.Items) != 1 || page.Items[0].ID != id || page.Items[0].DateOfDeath != nil {
		t.Fatalf("unexpected items: %+v", page.Items)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestList_UnknownSortField(t *testing.T) {
	db, mock := newMock(t)
	_, err := authors.List(t.Context(), db, authorMapping(t), authors.ListParams{OrderBy: "Title", PageNumber: 1, PageSize: 10})
	if !errors.Is(err, shaping.ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGet(t *testing.T) {
	db, mock := newMock(t)
	id := uuid.New()
	dob := time.Date(1903, 6, 25, 0, 0, 0, 0, time.UTC)
	dod := time.Date(1950, 1, 21, 0, 0, 0, 0, time.UTC)
	q := regexp.QuoteMeta(`SELECT a.id, a.first_name, a.last_name, a.date_of_birth, a.date_of_death, a.genre FROM authors a WHERE a.id = $1`)

	mock.ExpectQuery(q).WithArgs(id).
		WillReturnRows(sqlmock.NewRows(authorCols).AddRow(id.String(), "George", "Orwell", dob, dod, "Dystopia"))
	mock.ExpectQuery(q).WillReturnError(sql.ErrNoRows)

	a, err := authors.Get(t.Context(), db, id)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if a.DateOfDeath == nil || !a.DateOfDeath.Equal(dod) {
		t.Fatalf("date of death not scanned: %+v", a)
	}
	if _, err := authors.Get(t.Context(), db, uuid.New()); !errors.Is(err, authors.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestCreate_InsertsBooksInTx(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO authors (id, first_name, last_name, date_of_birth, date_of_death, genre) VALUES ($1, $2, $3, $4, $5, $6)`,
	)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO books (id, title, description, author_id) VALUES ($1, $2, $3, $4)`,
	)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	a := models.Author{FirstName: "Neil", LastName: "Gaiman", Genre: "Fantasy", Books: []models.Book{{Title: "Coraline", Description: "door"}}}
	if err := authors.Create(t.Context(), db, &a); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if a.ID == uuid.Nil || a.Books[0].AuthorID != a.ID || a.Books[0].ID == uuid.Nil {
		t.Fatalf("ids not assigned: %+v", a)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreate_RollsBackOnBookFailure(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO authors`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO books`).WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	a := models.Author{Books: []models.Book{{Title: "x"}}}
	if err := authors.Create(t.Context(), db, &a); err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	db, mock := newMock(t)
	id := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM books WHERE author_id = $1`)).WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM authors WHERE id = $1`)).WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	if err := authors.Delete(t.Context(), db, id); !errors.Is(err, authors.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestExists(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM authors WHERE id = $1)`)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := authors.Exists(t.Context(), db, uuid.New())
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v", ok, err)
	}
}
