// Package router mounts the API endpoints on a ServeMux.
package router

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/5w1tchy/library-api/internal/api/handlers"
	"github.com/5w1tchy/library-api/internal/api/handlers/authors"
	"github.com/5w1tchy/library-api/internal/api/handlers/books"
	mw "github.com/5w1tchy/library-api/internal/api/middlewares"
	"github.com/5w1tchy/library-api/internal/metrics"
	"github.com/5w1tchy/library-api/internal/shaping"
)

type Deps struct {
	DB       *sql.DB
	Registry *shaping.Registry
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer
	Log      zerolog.Logger
	Now      func() time.Time
}

// Router returns the API mux wrapped in request metrics.
func Router(d Deps) http.Handler {
	mux := http.NewServeMux()

	ah := &authors.Handler{DB: d.DB, Registry: d.Registry, Metrics: d.Metrics, Log: d.Log, Now: d.Now}
	bh := &books.Handler{DB: d.DB, Log: d.Log}

	mux.HandleFunc("GET /api", handlers.Root)

	// Authors
	mux.HandleFunc("GET /api/authors", ah.List)
	mux.HandleFunc("OPTIONS /api/authors", ah.Options)
	mux.HandleFunc("POST /api/authors", ah.Create)
	mux.HandleFunc("GET /api/authors/{id}", ah.Get)
	mux.HandleFunc("POST /api/authors/{id}", ah.BlockCreate)
	mux.HandleFunc("DELETE /api/authors/{id}", ah.Delete)

	// Books of an author
	mux.HandleFunc("GET /api/authors/{authorId}/books", bh.List)
	mux.HandleFunc("POST /api/authors/{authorId}/books", bh.Create)
	mux.HandleFunc("GET /api/authors/{authorId}/books/{id}", bh.Get)
	mux.HandleFunc("PUT /api/authors/{authorId}/books/{id}", bh.Put)
	mux.HandleFunc("PATCH /api/authors/{authorId}/books/{id}", bh.Patch)
	mux.HandleFunc("DELETE /api/authors/{authorId}/books/{id}", bh.Delete)

	if d.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	if d.Metrics == nil {
		return mux
	}
	return mw.Instrument(d.Metrics)(mux)
}
