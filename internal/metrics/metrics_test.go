package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/5w1tchy/library-api/internal/metrics"
)

func TestNewWithRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)

	m.RequestsTotal.WithLabelValues("GET", "GET /api/authors", "2xx").Inc()
	m.QueryRejections.WithLabelValues("authors", "orderBy").Add(2)
	m.PageItems.Observe(10)

	if got := testutil.ToFloat64(m.QueryRejections.WithLabelValues("authors", "orderBy")); got != 2 {
		t.Fatalf("query rejections = %v, want 2", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather error: %v", err)
	}
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{"library_requests_total", "library_query_rejections_total", "library_page_items"} {
		if !names[want] {
			t.Errorf("metric %s not gathered", want)
		}
	}
}

func TestStatusClass(t *testing.T) {
	tests := map[int]string{200: "2xx", 204: "2xx", 404: "4xx", 503: "5xx", 42: "unknown"}
	for code, want := range tests {
		if got := metrics.StatusClass(code); got != want {
			t.Errorf("StatusClass(%d) = %q, want %q", code, got, want)
		}
	}
}
