package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"
)

const (
	// CSRFCookieName holds the SHA-256 digest of the issued token. The raw
	// token is never stored server-side or in the cookie.
	CSRFCookieName = "csrf_token"

	// CSRFHeaderName is the request header the client must echo with the raw
	// token on state-changing requests.
	CSRFHeaderName = "x-csrf-token"

	csrfTokenLength = 32
	csrfCookieTTL   = 24 * time.Hour
)

// CSRFGuard implements double-submit CSRF protection: the client holds the
// raw token, the cookie holds its hash, and validity is hash(header) ==
// cookie. The guard itself is stateless.
type CSRFGuard struct{}

// NewCSRFGuard returns a CSRFGuard.
func NewCSRFGuard() *CSRFGuard {
	return &CSRFGuard{}
}

// GenerateToken returns a fresh raw token: 32 random bytes, hex-encoded.
func (g *CSRFGuard) GenerateToken() (string, error) {
	buf := make([]byte, csrfTokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate csrf token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashToken computes the SHA-256 hex digest stored in the cookie.
func (g *CSRFGuard) HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// SetCookie stores the hash of raw in the CSRF cookie and returns raw so the
// caller can hand it to the client for use in the header.
func (g *CSRFGuard) SetCookie(w http.ResponseWriter, raw string) string {
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    g.HashToken(raw),
		Path:     "/",
		MaxAge:   int(csrfCookieTTL.Seconds()),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
	return raw
}

// Validate checks the raw token in the request header against the hashed
// cookie. Missing header, missing cookie, or digest mismatch all fail closed.
func (g *CSRFGuard) Validate(r *http.Request) bool {
	header := r.Header.Get(CSRFHeaderName)
	if header == "" {
		return false
	}

	cookie, err := r.Cookie(CSRFCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(g.HashToken(header)), []byte(cookie.Value)) == 1
}
