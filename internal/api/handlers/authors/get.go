package authors

import (
	"errors"
	"net/http"

	"github.com/5w1tchy/library-api/internal/api/apperr"
	"github.com/5w1tchy/library-api/internal/api/httpx"
	"github.com/5w1tchy/library-api/internal/api/links"
	"github.com/5w1tchy/library-api/internal/models"
	"github.com/5w1tchy/library-api/internal/shaping"
	"github.com/5w1tchy/library-api/internal/store/authors"
)

// Get handles GET /api/authors/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := authorID(w, r)
	if !ok {
		return
	}
	fields := r.URL.Query().Get("fields")
	if !shaping.TypeHasFields(models.AuthorFields, fields) {
		h.reject(w, r, "fields", "fields contains an unknown field")
		return
	}

	a, err := authors.Get(r.Context(), h.DB, id)
	if errors.Is(err, authors.ErrNotFound) {
		apperr.NotFound(w, r, "author not found")
		return
	}
	if err != nil {
		h.serverError(w, r, err, "get author failed")
		return
	}

	rec, err := shaping.ShapeOne(models.ToAuthorDto(a, h.now()), models.AuthorFields, fields)
	if err != nil {
		h.reject(w, r, "fields", err.Error())
		return
	}
	if httpx.Accepts(r, httpx.MediaHATEOAS) {
		httpx.WriteMedia(w, httpx.MediaHATEOAS, http.StatusOK, links.Resource{Record: rec, Links: links.ForAuthor(r, id, fields)})
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rec)
}
