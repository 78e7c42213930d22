package middlewares

import (
	"net/http"
	"time"

	"github.com/5w1tchy/library-api/internal/metrics"
)

// Instrument records request counts, latency and in-flight requests.
// It must wrap the ServeMux directly so that r.Pattern is filled in by the
// time the handler returns.
func Instrument(m *metrics.Collector) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m.RequestsInFlight.Inc()
			defer m.RequestsInFlight.Dec()

			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			m.RequestsTotal.WithLabelValues(r.Method, route, metrics.StatusClass(sw.status)).Inc()
			m.RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}
