package middleware

import (
	"context"

	"github.com/vitrinecms/vitrine/internal/auth"
	"github.com/vitrinecms/vitrine/internal/model"
)

type contextKey string

const (
	// RequestIDKey is the context key for the request ID.
	RequestIDKey contextKey = "request_id"

	// ClaimsKey is the context key for verified session claims.
	ClaimsKey contextKey = "auth_claims"

	// RegionKey is the context key for the resolved region code.
	RegionKey contextKey = "region"

	// AuditKey is the context key for the activity-log hook.
	AuditKey contextKey = "audit_hook"
)

// ActivityFunc appends one audit entry. Implementations are best-effort and
// must never propagate a failure to the caller.
type ActivityFunc func(entry model.ActivityEntry)

// GetRequestID extracts the request ID from the context, or "".
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// GetClaims extracts verified session claims from the context. Returns nil
// on public (unauthenticated) routes.
func GetClaims(ctx context.Context) *auth.Claims {
	if c, ok := ctx.Value(ClaimsKey).(*auth.Claims); ok {
		return c
	}
	return nil
}

// GetRegion extracts the resolved region code from the context, or "".
func GetRegion(ctx context.Context) string {
	if code, ok := ctx.Value(RegionKey).(string); ok {
		return code
	}
	return ""
}

// GetAuditor extracts the activity hook from the context. The returned
// function is never nil; without an attached hook it is a no-op.
func GetAuditor(ctx context.Context) ActivityFunc {
	if fn, ok := ctx.Value(AuditKey).(ActivityFunc); ok && fn != nil {
		return fn
	}
	return func(model.ActivityEntry) {}
}
