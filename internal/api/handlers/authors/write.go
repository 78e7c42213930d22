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

// Create handles POST /api/authors. The body layout follows Content-Type.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in authorWithDeathForCreation
	var err error
	switch ct := httpx.ContentType(r); ct {
	case "", httpx.MediaJSON, httpx.MediaAuthorFull:
		err = httpx.DecodeJSON(r, &in.authorForCreation)
	case httpx.MediaAuthorWithDeath:
		err = httpx.DecodeJSON(r, &in)
	default:
		apperr.WriteStatus(w, r, http.StatusUnsupportedMediaType, "Unsupported Media Type", "unsupported content type "+ct)
		return
	}
	if errors.Is(err, httpx.ErrEmptyBody) {
		apperr.BadRequest(w, r, "request body is required")
		return
	}
	if err != nil {
		apperr.BadRequest(w, r, "invalid JSON: "+err.Error())
		return
	}

	now := h.now()
	a, errs := in.toAuthor(now)
	if len(errs) > 0 {
		apperr.Unprocessable(w, r, errs)
		return
	}
	if err := authors.Create(r.Context(), h.DB, &a); err != nil {
		h.serverError(w, r, err, "create author failed")
		return
	}
	h.Log.Info().Str("author_id", a.ID.String()).Int("books", len(a.Books)).Msg("author created")

	rec, err := shaping.ShapeOne(models.ToAuthorDto(a, now), models.AuthorFields, "")
	if err != nil {
		h.serverError(w, r, err, "shape author failed")
		return
	}
	w.Header().Set("Location", links.AuthorURL(r, a.ID))
	if httpx.Accepts(r, httpx.MediaHATEOAS) {
		httpx.WriteMedia(w, httpx.MediaHATEOAS, http.StatusCreated, links.Resource{Record: rec, Links: links.ForAuthor(r, a.ID, "")})
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, rec)
}

// BlockCreate handles POST /api/authors/{id}. Clients may not choose ids.
func (h *Handler) BlockCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := authorID(w, r)
	if !ok {
		return
	}
	exists, err := authors.Exists(r.Context(), h.DB, id)
	if err != nil {
		h.serverError(w, r, err, "author lookup failed")
		return
	}
	if exists {
		apperr.WriteStatus(w, r, http.StatusConflict, "Conflict", "author already exists")
		return
	}
	apperr.NotFound(w, r, "author not found")
}

// Delete handles DELETE /api/authors/{id} together with the author's books.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := authorID(w, r)
	if !ok {
		return
	}
	err := authors.Delete(r.Context(), h.DB, id)
	if errors.Is(err, authors.ErrNotFound) {
		apperr.NotFound(w, r, "author not found")
		return
	}
	if err != nil {
		h.serverError(w, r, err, "delete author failed")
		return
	}
	h.Log.Info().Str("author_id", id.String()).Msg("author deleted")
	w.WriteHeader(http.StatusNoContent)
}
