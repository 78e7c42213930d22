package authors

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/5w1tchy/library-api/internal/api/httpx"
	"github.com/5w1tchy/library-api/internal/metrics"
	"github.com/5w1tchy/library-api/internal/models"
)

var (
	authorCols = []string{"id", "first_name", "last_name", "date_of_birth", "date_of_death", "genre"}
	fixedNow   = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	kingID     = uuid.MustParse("25320c5e-f58a-4b1f-b63a-8ee07a840bdf")
)

const (
	countSQL  = `SELECT COUNT(*) FROM authors a`
	selectSQL = `SELECT a.id, a.first_name, a.last_name, a.date_of_birth, a.date_of_death, a.genre FROM authors a`
	existsSQL = `SELECT EXISTS (SELECT 1 FROM authors WHERE id = $1)`
)

type fixture struct {
	mux     *http.ServeMux
	mock    sqlmock.Sqlmock
	metrics *metrics.Collector
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	reg, err := models.NewRegistry()
	require.NoError(t, err)
	m := metrics.NewWithRegistry(prometheus.NewRegistry())

	h := &Handler{DB: db, Registry: reg, Metrics: m, Log: zerolog.Nop(), Now: func() time.Time { return fixedNow }}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/authors", h.List)
	mux.HandleFunc("OPTIONS /api/authors", h.Options)
	mux.HandleFunc("POST /api/authors", h.Create)
	mux.HandleFunc("GET /api/authors/{id}", h.Get)
	mux.HandleFunc("POST /api/authors/{id}", h.BlockCreate)
	mux.HandleFunc("DELETE /api/authors/{id}", h.Delete)
	return fixture{mux: mux, mock: mock, metrics: m}
}

func (f fixture) do(req *http.Request) *httptest.ResponseRecorder {
	req.Host = "library.test"
	rr := httptest.NewRecorder()
	f.mux.ServeHTTP(rr, req)
	return rr
}

// timeArg matches a time argument by instant.
type timeArg time.Time

func (a timeArg) Match(v driver.Value) bool {
	t, ok := v.(time.Time)
	return ok && t.Equal(time.Time(a))
}

func kingRow() *sqlmock.Rows {
	return sqlmock.NewRows(authorCols).
		AddRow(kingID.String(), "Stephen", "King", time.Date(1947, 9, 21, 0, 0, 0, 0, time.UTC), nil, "Horror")
}

func TestList_ShapesAndPages(t *testing.T) {
	f := newFixture(t)
	f.mock.ExpectQuery(regexp.QuoteMeta(countSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	f.mock.ExpectQuery(regexp.QuoteMeta(selectSQL+` ORDER BY a.first_name ASC, a.last_name ASC, a.id LIMIT $1 OFFSET $2`)).
		WithArgs(1, 1).
		WillReturnRows(kingRow())

	rr := f.do(httptest.NewRequest(http.MethodGet, "/api/authors?fields=name,age&pageSize=1&pageNumber=2", nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `[{"name":"Stephen King","age":78}]`, rr.Body.String())

	var meta paginationHeader
	require.NoError(t, json.Unmarshal([]byte(rr.Header().Get("X-Pagination")), &meta))
	assert.Equal(t, 3, meta.TotalCount)
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, 2, meta.CurrentPage)
	assert.Equal(t, 1, meta.PageSize)
	assert.Contains(t, meta.PreviousPageLink, "pageNumber=1")
	assert.Contains(t, meta.NextPageLink, "pageNumber=3")
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestList_Hateoas(t *testing.T) {
	f := newFixture(t)
	f.mock.ExpectQuery(regexp.QuoteMeta(countSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	f.mock.ExpectQuery(regexp.QuoteMeta(selectSQL+` ORDER BY a.genre DESC, a.id LIMIT $1 OFFSET $2`)).
		WithArgs(10, 0).
		WillReturnRows(kingRow())

	req := httptest.NewRequest(http.MethodGet, "/api/authors?orderBy=genre%20desc&fields=id", nil)
	req.Header.Set("Accept", httpx.MediaHATEOAS)
	rr := f.do(req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, httpx.MediaHATEOAS, rr.Header().Get("Content-Type"))

	var body struct {
		Value []map[string]json.RawMessage `json:"value"`
		Links []struct{ Rel string }       `json:"links"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Value, 1)
	assert.JSONEq(t, `"`+kingID.String()+`"`, string(body.Value[0]["id"]))
	assert.Contains(t, string(body.Value[0]["links"]), "delete_author")
	require.Len(t, body.Links, 1)
	assert.Equal(t, "self", body.Links[0].Rel)
	assert.NotContains(t, rr.Header().Get("X-Pagination"), "nextPageLink")
}

func TestList_RejectsBadQuery(t *testing.T) {
	f := newFixture(t)

	rr := f.do(httptest.NewRequest(http.MethodGet, "/api/authors?orderBy=Title", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))

	rr = f.do(httptest.NewRequest(http.MethodGet, "/api/authors?fields=name,shoeSize", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.QueryRejections.WithLabelValues("authors", "orderBy")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.QueryRejections.WithLabelValues("authors", "fields")))
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestList_PageNumberOutOfRange(t *testing.T) {
	f := newFixture(t)

	rr := f.do(httptest.NewRequest(http.MethodGet, "/api/authors?pageNumber=9223372036854775807&pageSize=20", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.QueryRejections.WithLabelValues("authors", "pageNumber")))
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestGet(t *testing.T) {
	f := newFixture(t)
	q := regexp.QuoteMeta(selectSQL + ` WHERE a.id = $1`)
	f.mock.ExpectQuery(q).WithArgs(kingID).WillReturnRows(kingRow())
	f.mock.ExpectQuery(q).WillReturnError(sql.ErrNoRows)

	rr := f.do(httptest.NewRequest(http.MethodGet, "/api/authors/"+kingID.String()+"?fields=genre,id", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `{"genre":"Horror","id":"`+kingID.String()+`"}`, strings.TrimSpace(rr.Body.String()))

	rr = f.do(httptest.NewRequest(http.MethodGet, "/api/authors/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = f.do(httptest.NewRequest(http.MethodGet, "/api/authors/not-a-uuid", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = f.do(httptest.NewRequest(http.MethodGet, "/api/authors/"+kingID.String()+"?fields=nope", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectExec(`INSERT INTO authors`).
		WithArgs(sqlmock.AnyArg(), "Neil", "Gaiman", timeArg(time.Date(1960, 11, 10, 0, 0, 0, 0, time.UTC)), nil, "Fantasy").
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectExec(`INSERT INTO books`).
		WithArgs(sqlmock.AnyArg(), "Coraline", "A door to another world", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectCommit()

	body := `{"firstName":" Neil ","lastName":"Gaiman","dateOfBirth":"1960-11-10T00:00:00Z","genre":"Fantasy",
		"books":[{"title":"Coraline","description":"A door to another world"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/authors", strings.NewReader(body))
	req.Header.Set("Content-Type", httpx.MediaAuthorFull)
	rr := f.do(req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var out struct {
		ID   uuid.UUID `json:"id"`
		Name string    `json:"name"`
		Age  int       `json:"age"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, "Neil Gaiman", out.Name)
	assert.Equal(t, 65, out.Age)
	assert.Equal(t, "http://library.test/api/authors/"+out.ID.String(), rr.Header().Get("Location"))
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreate_WithDateOfDeath(t *testing.T) {
	f := newFixture(t)
	dod := time.Date(1950, 1, 21, 0, 0, 0, 0, time.UTC)
	f.mock.ExpectBegin()
	f.mock.ExpectExec(`INSERT INTO authors`).
		WithArgs(sqlmock.AnyArg(), "George", "Orwell", sqlmock.AnyArg(), timeArg(dod), "Dystopia").
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectCommit()

	body := `{"firstName":"George","lastName":"Orwell","dateOfBirth":"1903-06-25T00:00:00Z","dateOfDeath":"1950-01-21T00:00:00Z","genre":"Dystopia"}`
	req := httptest.NewRequest(http.MethodPost, "/api/authors", strings.NewReader(body))
	req.Header.Set("Content-Type", httpx.MediaAuthorWithDeath)
	rr := f.do(req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"age":46`)

	// The plain layout does not know dateOfDeath.
	req = httptest.NewRequest(http.MethodPost, "/api/authors", strings.NewReader(body))
	req.Header.Set("Content-Type", httpx.MediaJSON)
	rr = f.do(req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreate_Rejections(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/authors", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	assert.Equal(t, http.StatusUnsupportedMediaType, f.do(req).Code)

	req = httptest.NewRequest(http.MethodPost, "/api/authors", http.NoBody)
	assert.Equal(t, http.StatusBadRequest, f.do(req).Code)

	body := `{"firstName":"","lastName":"Gaiman","dateOfBirth":"2090-01-01T00:00:00Z","genre":"Fantasy",
		"books":[{"title":"Same","description":"same"}]}`
	req = httptest.NewRequest(http.MethodPost, "/api/authors", strings.NewReader(body))
	rr := f.do(req)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	var p struct {
		FieldErrors []struct{ Field, Code string } `json:"field_errors"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	var fields []string
	for _, fe := range p.FieldErrors {
		fields = append(fields, fe.Field+":"+fe.Code)
	}
	assert.ElementsMatch(t, []string{"firstName:required", "dateOfBirth:future", "books[0].description:same_as_title"}, fields)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestBlockCreate(t *testing.T) {
	f := newFixture(t)
	other := uuid.New()
	f.mock.ExpectQuery(regexp.QuoteMeta(existsSQL)).WithArgs(kingID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	f.mock.ExpectQuery(regexp.QuoteMeta(existsSQL)).WithArgs(other).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	assert.Equal(t, http.StatusConflict, f.do(httptest.NewRequest(http.MethodPost, "/api/authors/"+kingID.String(), nil)).Code)
	assert.Equal(t, http.StatusNotFound, f.do(httptest.NewRequest(http.MethodPost, "/api/authors/"+other.String(), nil)).Code)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM books WHERE author_id = $1`)).WithArgs(kingID).
		WillReturnResult(sqlmock.NewResult(0, 2))
	f.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM authors WHERE id = $1`)).WithArgs(kingID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectCommit()
	f.mock.ExpectBegin()
	f.mock.ExpectExec(`DELETE FROM books`).WillReturnResult(sqlmock.NewResult(0, 0))
	f.mock.ExpectExec(`DELETE FROM authors`).WillReturnResult(sqlmock.NewResult(0, 0))
	f.mock.ExpectRollback()

	assert.Equal(t, http.StatusNoContent, f.do(httptest.NewRequest(http.MethodDelete, "/api/authors/"+kingID.String(), nil)).Code)
	assert.Equal(t, http.StatusNotFound, f.do(httptest.NewRequest(http.MethodDelete, "/api/authors/"+uuid.NewString(), nil)).Code)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestOptions(t *testing.T) {
	f := newFixture(t)
	rr := f.do(httptest.NewRequest(http.MethodOptions, "/api/authors", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, allowAuthors, rr.Header().Get("Allow"))
}
