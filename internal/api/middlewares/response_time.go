package middlewares

import (
	"net/http"
	"time"
)

// ResponseTime sets X-Response-Time to the time spent before the header went out.
func ResponseTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := newStatusWriter(w)
		sw.beforeHeader = func(h http.Header) {
			h.Set("X-Response-Time", time.Since(start).String())
		}
		next.ServeHTTP(sw, r)

		// nothing written (e.g. HEAD)
		if !sw.wroteHeader {
			w.Header().Set("X-Response-Time", time.Since(start).String())
		}
	})
}
