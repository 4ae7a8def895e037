package middleware

import (
	"net/http"

	"github.com/vitrinecms/vitrine/internal/auth"
)

// CSRF returns an HTTP middleware that enforces the double-submit cookie
// check on state-changing requests. The raw token from the request header is
// hashed and compared against the hash stored in the cookie; a mismatch or a
// missing half produces a terminal 403 with a machine-readable code. Safe
// methods pass through untouched.
func CSRF(guard *auth.CSRFGuard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			if !guard.Validate(r) {
				writeAuthError(w, http.StatusForbidden,
					"CSRF token missing or invalid", "CSRF_TOKEN_INVALID")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
