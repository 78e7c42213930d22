package books

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/5w1tchy/library-api/internal/api/apperr"
	"github.com/5w1tchy/library-api/internal/api/links"
	"github.com/5w1tchy/library-api/internal/models"
	storebooks "github.com/5w1tchy/library-api/internal/store/books"
)

// Create handles POST /api/authors/{authorId}/books.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	authorID, ok := h.author(w, r)
	if !ok {
		return
	}
	var in BookForCreation
	if !decodeBody(w, r, &in) {
		return
	}
	b, errs := in.ToBook()
	if len(errs) > 0 {
		apperr.Unprocessable(w, r, errs)
		return
	}
	b.AuthorID = authorID
	h.insert(w, r, b)
}

// Delete handles DELETE /api/authors/{authorId}/books/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	authorID, ok := h.author(w, r)
	if !ok {
		return
	}
	id, ok := bookID(w, r)
	if !ok {
		return
	}
	err := storebooks.Delete(r.Context(), h.DB, authorID, id)
	if errors.Is(err, storebooks.ErrNotFound) {
		apperr.NotFound(w, r, "book not found")
		return
	}
	if err != nil {
		h.serverError(w, r, err, "delete book failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Put handles PUT /api/authors/{authorId}/books/{id}. An unknown id is
// created under that id.
func (h *Handler) Put(w http.ResponseWriter, r *http.Request) {
	authorID, ok := h.author(w, r)
	if !ok {
		return
	}
	id, ok := bookID(w, r)
	if !ok {
		return
	}
	var in BookForCreation
	if !decodeBody(w, r, &in) {
		return
	}
	h.upsert(w, r, authorID, id, in)
}

// Patch handles PATCH /api/authors/{authorId}/books/{id}. Members present
// in the body replace the stored ones; an unknown id is created from the
// body alone.
func (h *Handler) Patch(w http.ResponseWriter, r *http.Request) {
	authorID, ok := h.author(w, r)
	if !ok {
		return
	}
	id, ok := bookID(w, r)
	if !ok {
		return
	}
	var p bookForPatch
	if !decodeBody(w, r, &p) {
		return
	}

	var base BookForCreation
	cur, err := storebooks.Get(r.Context(), h.DB, authorID, id)
	switch {
	case err == nil:
		base = BookForCreation{Title: cur.Title, Description: cur.Description}
	case !errors.Is(err, storebooks.ErrNotFound):
		h.serverError(w, r, err, "get book failed")
		return
	}
	h.upsert(w, r, authorID, id, p.applyTo(base))
}

func (h *Handler) upsert(w http.ResponseWriter, r *http.Request, authorID, id uuid.UUID, in BookForCreation) {
	b, errs := in.ToBook()
	if len(errs) > 0 {
		apperr.Unprocessable(w, r, errs)
		return
	}
	b.ID, b.AuthorID = id, authorID

	err := storebooks.Update(r.Context(), h.DB, b)
	if errors.Is(err, storebooks.ErrNotFound) {
		h.insert(w, r, b)
		return
	}
	if err != nil {
		h.serverError(w, r, err, "update book failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) insert(w http.ResponseWriter, r *http.Request, b models.Book) {
	if err := storebooks.Insert(r.Context(), h.DB, &b); err != nil {
		h.serverError(w, r, err, "create book failed")
		return
	}
	w.Header().Set("Location", links.BookURL(r, b.AuthorID, b.ID))
	writeBook(w, r, http.StatusCreated, b)
}
