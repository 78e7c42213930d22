package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mw "github.com/5w1tchy/library-api/internal/api/middlewares"
)

func TestResponseTime(t *testing.T) {
	tests := map[string]http.HandlerFunc{
		"WriteHeader": func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(5 * time.Millisecond)
			w.WriteHeader(http.StatusNoContent)
		},
		"Write": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("test response"))
		},
		"nothing": func(w http.ResponseWriter, r *http.Request) {},
	}
	for name, h := range tests {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mw.ResponseTime(h).ServeHTTP(rec, httptest.NewRequest("GET", "/test", nil))

			got := rec.Header().Get("X-Response-Time")
			if _, err := time.ParseDuration(got); err != nil {
				t.Errorf("X-Response-Time %q is not a duration", got)
			}
		})
	}
}
