package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/vitrinecms/vitrine/internal/auth"
	"github.com/vitrinecms/vitrine/internal/region"
)

// Authenticate returns an HTTP middleware that validates the JWT Bearer token
// on the Authorization header. On success the verified claims are attached to
// the request context; every authorization decision downstream reads those
// claims without touching the database. Deactivated accounts are rejected even
// when their token is otherwise valid.
func Authenticate(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				writeAuthError(w, http.StatusUnauthorized, "Authentication required", "")
				return
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "Invalid or expired token", "")
				return
			}
			if !claims.IsActive {
				writeAuthError(w, http.StatusUnauthorized, "Account is deactivated", "")
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSuperAdmin returns an HTTP middleware that restricts a route to
// super-admin accounts. Must be used after Authenticate.
func RequireSuperAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaims(r.Context())
			if claims == nil || !claims.IsSuperAdmin {
				writeAuthError(w, http.StatusForbidden, "Super admin access required", "")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRegionAccess returns an HTTP middleware that resolves the effective
// region for an admin request and verifies the caller is allowed to operate
// on it. An explicit `region` query parameter overrides the ambient region
// from the request path or headers. The effective code replaces the region in
// the request context so handlers see the one that was authorized.
//
// Must be used after Authenticate and the Region middleware.
func RequireRegionAccess(resolver *region.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := strings.ToUpper(r.URL.Query().Get("region"))
			if code == "" {
				code = GetRegion(r.Context())
			}
			if !resolver.Known(code) {
				writeAuthError(w, http.StatusBadRequest, "Unknown region: "+code, "")
				return
			}

			claims := GetClaims(r.Context())
			if claims == nil {
				writeAuthError(w, http.StatusUnauthorized, "Authentication required", "")
				return
			}
			if !region.HasAccess(claims.IsSuperAdmin, claims.Regions, code) {
				writeAuthError(w, http.StatusForbidden, "No access to region: "+code, "")
				return
			}

			ctx := context.WithValue(r.Context(), RegionKey, code)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
