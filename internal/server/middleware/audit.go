package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/vitrinecms/vitrine/internal/model"
	"github.com/vitrinecms/vitrine/internal/store"
)

// Audit returns an HTTP middleware that attaches a fire-and-forget activity
// hook to the request context. The hook fills in the acting admin, region,
// and client IP from the request, then appends the entry in a goroutine so a
// slow or failing audit write never blocks or breaks the response. Failures
// are logged and swallowed.
//
// Must be used after Authenticate and the Region middleware.
func Audit(st *store.Store, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaims(r.Context())
			regionCode := GetRegion(r.Context())
			ip := clientIP(r)

			hook := ActivityFunc(func(entry model.ActivityEntry) {
				if claims != nil {
					entry.AdminID = claims.UserID
					entry.Username = claims.Username
				}
				if entry.Region == "" {
					entry.Region = regionCode
				}
				entry.IPAddress = ip

				go func() {
					ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					if err := st.AppendActivity(ctx, &entry); err != nil {
						logger.Warn("audit append failed",
							"action", entry.Action,
							"entity", entry.Entity,
							"error", err,
						)
					}
				}()
			})

			ctx := context.WithValue(r.Context(), AuditKey, hook)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
