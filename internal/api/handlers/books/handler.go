// Package books serves the books of one author under
// /api/authors/{authorId}/books.
package books

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/5w1tchy/library-api/internal/api/apperr"
	"github.com/5w1tchy/library-api/internal/api/httpx"
	"github.com/5w1tchy/library-api/internal/api/links"
	"github.com/5w1tchy/library-api/internal/models"
	"github.com/5w1tchy/library-api/internal/store/authors"
)

type Handler struct {
	DB  *sql.DB
	Log zerolog.Logger
}

// bookResource is a book with its links, used in hypermedia responses.
type bookResource struct {
	models.BookDto
	Links []links.Link `json:"links"`
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	h.Log.Error().Err(err).Str("path", r.URL.Path).Msg(msg)
	apperr.HandleDBError(w, r, err, msg)
}

// author resolves {authorId} and answers 404 when it names no author.
func (h *Handler) author(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("authorId"))
	if err != nil {
		apperr.NotFound(w, r, "author not found")
		return uuid.Nil, false
	}
	ok, err := authors.Exists(r.Context(), h.DB, id)
	if err != nil {
		h.serverError(w, r, err, "author lookup failed")
		return uuid.Nil, false
	}
	if !ok {
		apperr.NotFound(w, r, "author not found")
		return uuid.Nil, false
	}
	return id, true
}

func bookID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		apperr.NotFound(w, r, "book not found")
		return uuid.Nil, false
	}
	return id, true
}

func writeBook(w http.ResponseWriter, r *http.Request, status int, b models.Book) {
	dto := models.ToBookDto(b)
	if httpx.Accepts(r, httpx.MediaHATEOAS) {
		httpx.WriteMedia(w, httpx.MediaHATEOAS, status, bookResource{BookDto: dto, Links: links.ForBook(r, b.AuthorID, b.ID)})
		return
	}
	httpx.WriteJSON(w, status, dto)
}

// decodeBody answers 400 for a missing or malformed body.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.DecodeJSON(r, dst); err != nil {
		if errors.Is(err, httpx.ErrEmptyBody) {
			apperr.BadRequest(w, r, "request body is required")
			return false
		}
		apperr.BadRequest(w, r, "invalid JSON: "+err.Error())
		return false
	}
	return true
}
