// Package authors serves /api/authors with sparse fieldsets, sorting,
// paging and optional hypermedia.
package authors

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/5w1tchy/library-api/internal/api/apperr"
	"github.com/5w1tchy/library-api/internal/metrics"
	"github.com/5w1tchy/library-api/internal/shaping"
)

const allowAuthors = "GET, OPTIONS, POST"

type Handler struct {
	DB       *sql.DB
	Registry *shaping.Registry
	Metrics  *metrics.Collector
	Log      zerolog.Logger
	Now      func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// reject answers 400 for a bad query parameter and counts it.
func (h *Handler) reject(w http.ResponseWriter, r *http.Request, param, detail string) {
	if h.Metrics != nil {
		h.Metrics.QueryRejections.WithLabelValues("authors", param).Inc()
	}
	apperr.BadRequest(w, r, detail)
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	h.Log.Error().Err(err).Str("path", r.URL.Path).Msg(msg)
	apperr.HandleDBError(w, r, err, msg)
}

// Options handles OPTIONS /api/authors.
func (h *Handler) Options(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", allowAuthors)
	w.WriteHeader(http.StatusOK)
}

// authorID reads the {id} path value. A malformed id names no author.
func authorID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		apperr.NotFound(w, r, "author not found")
		return uuid.Nil, false
	}
	return id, true
}
