package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned by Verify for any token that cannot be trusted:
// bad signature, malformed structure, or past expiry.
var ErrInvalidToken = errors.New("invalid token")

// DefaultTokenTTL is the session lifetime. There is no refresh or rotation;
// expiry forces a fresh login.
const DefaultTokenTTL = 24 * time.Hour

// Claims is the identity carried by a session token. Authorization decisions
// downstream trust these claims as-is for the token's lifetime; a deactivated
// or demoted account stays valid until expiry.
type Claims struct {
	UserID       int64    `json:"user_id"`
	Username     string   `json:"username"`
	IsSuperAdmin bool     `json:"is_super_admin"`
	IsActive     bool     `json:"is_active"`
	Regions      []string `json:"regions,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HMAC-SHA256 signed session tokens. It is
// stateless: every operation is a pure function of token and secret.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService with the given shared secret. A zero
// ttl selects DefaultTokenTTL.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs the claims with issued-at now and expiry now+ttl. Caller-supplied
// registered claims for those two fields are overwritten.
func (s *TokenService) Issue(claims Claims) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	claims.Issuer = "vitrine"

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify validates signature and expiry and returns the embedded claims.
// Any failure maps to ErrInvalidToken; callers get no detail beyond that.
func (s *TokenService) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
