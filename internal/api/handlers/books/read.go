package books

import (
	"errors"
	"net/http"

	"github.com/5w1tchy/library-api/internal/api/apperr"
	"github.com/5w1tchy/library-api/internal/api/httpx"
	"github.com/5w1tchy/library-api/internal/api/links"
	"github.com/5w1tchy/library-api/internal/models"
	storebooks "github.com/5w1tchy/library-api/internal/store/books"
)

// List handles GET /api/authors/{authorId}/books.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	authorID, ok := h.author(w, r)
	if !ok {
		return
	}
	bs, err := storebooks.ListForAuthor(r.Context(), h.DB, authorID)
	if err != nil {
		h.serverError(w, r, err, "list books failed")
		return
	}

	if httpx.Accepts(r, httpx.MediaHATEOAS) {
		out := struct {
			Value []bookResource `json:"value"`
			Links []links.Link   `json:"links"`
		}{
			Value: make([]bookResource, len(bs)),
			Links: links.ForBooks(r, authorID),
		}
		for i, b := range bs {
			out.Value[i] = bookResource{BookDto: models.ToBookDto(b), Links: links.ForBook(r, authorID, b.ID)}
		}
		httpx.WriteMedia(w, httpx.MediaHATEOAS, http.StatusOK, out)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, models.ToBookDtos(bs))
}

// Get handles GET /api/authors/{authorId}/books/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	authorID, ok := h.author(w, r)
	if !ok {
		return
	}
	id, ok := bookID(w, r)
	if !ok {
		return
	}
	b, err := storebooks.Get(r.Context(), h.DB, authorID, id)
	if errors.Is(err, storebooks.ErrNotFound) {
		apperr.NotFound(w, r, "book not found")
		return
	}
	if err != nil {
		h.serverError(w, r, err, "get book failed")
		return
	}
	writeBook(w, r, http.StatusOK, b)
}
