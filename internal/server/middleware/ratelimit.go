package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"

	"github.com/vitrinecms/vitrine/internal/model"
	"github.com/vitrinecms/vitrine/internal/ratelimit"
)

// FloodCeiling returns a coarse per-IP limiter applied ahead of the policy
// limiters. It exists to shed abusive clients cheaply before any routing or
// auth work happens; legitimate traffic never comes near it.
func FloodCeiling(requestsPerMinute int) func(http.Handler) http.Handler {
	return httprate.LimitByIP(requestsPerMinute, time.Minute)
}

// KeyFunc derives the rate-limit bucket key for a request.
type KeyFunc func(r *http.Request) string

// PublicKey buckets unauthenticated traffic by client IP and path, so one
// hot endpoint cannot starve the rest of the site for the same visitor.
func PublicKey(r *http.Request) string {
	return clientIP(r) + ":" + r.URL.Path
}

// AdminKey buckets authenticated traffic by user ID, falling back to the
// client IP when no claims are present.
func AdminKey(r *http.Request) string {
	if claims := GetClaims(r.Context()); claims != nil {
		return "user:" + strconv.FormatInt(claims.UserID, 10)
	}
	return "ip:" + clientIP(r)
}

// RateLimit returns an HTTP middleware that enforces a fixed-window policy
// keyed by keyFn. X-RateLimit-Limit, X-RateLimit-Remaining, and
// X-RateLimit-Reset headers are set on every response; a rejected request
// additionally carries Retry-After and a 429 JSON body.
func RateLimit(limiter *ratelimit.Limiter, policy ratelimit.Policy, keyFn KeyFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			result := limiter.Check(keyFn(r), policy)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed {
				retryAfter := int(time.Until(result.ResetAt).Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				writeRateLimitError(w, retryAfter)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeRateLimitError(w http.ResponseWriter, retryAfter int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	writeJSONBody(w, model.ErrorResponse{
		Error:      "Too many requests",
		RetryAfter: retryAfter,
	})
}

// clientIP returns the remote IP without the port. chi's RealIP middleware
// runs earlier in the chain and rewrites RemoteAddr from forwarding headers,
// in which case there is no port to strip.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
