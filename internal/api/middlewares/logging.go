package middlewares

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// AccessLog writes one line per request. 5xx responses log at error level.
func AccessLog(log zerolog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)

			ev := log.Info()
			if sw.status >= http.StatusInternalServerError {
				ev = log.Error()
			}
			ev.Str("request_id", GetRequestID(r)).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("query", r.URL.RawQuery).
				Int("status", sw.status).
				Int("bytes", sw.bytes).
				Dur("duration", time.Since(start)).
				Str("remote", clientIP(r, nil)).
				Str("forwarded_for", r.Header.Get("X-Forwarded-For")).
				Msg("request")
		})
	}
}
