package middleware

import (
	"context"
	"net/http"

	"github.com/vitrinecms/vitrine/internal/region"
)

// Region returns an HTTP middleware that resolves the tenant region for every
// request and attaches the code to the context. Resolution never fails; the
// configured default region backstops requests with no recognizable path
// prefix or origin domain.
func Region(resolver *region.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := resolver.Resolve(r)
			ctx := context.WithValue(r.Context(), RegionKey, code)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
