// Package handlers holds the endpoints that belong to no resource.
package handlers

import (
	"net/http"

	"github.com/5w1tchy/library-api/internal/api/httpx"
	"github.com/5w1tchy/library-api/internal/api/links"
)

// Root handles GET /api. Hypermedia clients get the entry links; everyone
// else gets 204.
func Root(w http.ResponseWriter, r *http.Request) {
	if !httpx.Accepts(r, httpx.MediaHATEOAS) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	httpx.WriteMedia(w, httpx.MediaHATEOAS, http.StatusOK, links.ForRoot(r))
}
