package middlewares

import (
	"net/http"
	"slices"
)

// HPP guards against HTTP parameter pollution: repeated query parameters
// keep their first value and parameters outside Whitelist are dropped.
type HPPOptions struct {
	Whitelist []string
}

func HPP(opts HPPOptions) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.RawQuery != "" {
				filterQueryParams(r, opts.Whitelist)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func filterQueryParams(r *http.Request, whitelist []string) {
	query := r.URL.Query()
	for k, v := range query {
		if !slices.Contains(whitelist, k) {
			query.Del(k)
			continue
		}
		if len(v) > 1 {
			query.Set(k, v[0])
		}
	}
	r.URL.RawQuery = query.Encode()
}

// DefaultHPPOptions whitelists the query parameters the API reads.
func DefaultHPPOptions() HPPOptions {
	return HPPOptions{
		Whitelist: []string{"fields", "orderBy", "genre", "searchQuery", "pageNumber", "pageSize"},
	}
}
