package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/vitrinecms/vitrine/internal/auth"
	"github.com/vitrinecms/vitrine/internal/model"
	"github.com/vitrinecms/vitrine/internal/server/middleware"
	"github.com/vitrinecms/vitrine/internal/store"
)

// AuthHandler serves login, logout, and session refresh.
type AuthHandler struct {
	store   *store.Store
	tokens  *auth.TokenService
	csrf    *auth.CSRFGuard
	lockout *auth.LoginLimiter
	logger  *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(st *store.Store, tokens *auth.TokenService, csrf *auth.CSRFGuard, lockout *auth.LoginLimiter, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{store: st, tokens: tokens, csrf: csrf, lockout: lockout, logger: logger}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginUser struct {
	ID                int64    `json:"id"`
	Username          string   `json:"username"`
	FullName          string   `json:"fullName"`
	Email             string   `json:"email"`
	IsSuperAdmin      bool     `json:"isSuperAdmin"`
	Regions           []string `json:"regions"`
	ProfilePictureURL string   `json:"profilePictureUrl,omitempty"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      loginUser `json:"user"`
}

// invalidCredentials is the single response body for unknown username, wrong
// password, and deactivated account. A uniform shape prevents username
// enumeration.
const invalidCredentials = "Invalid username or password"

// Login handles POST /auth/login. Failed attempts count toward the per-username
// lockout regardless of whether the username exists; a successful login clears
// the record, stamps last_login_at, and issues both the session token and the
// CSRF cookie/header pair.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(r, &req); err != nil || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	if locked, retryAfter := h.lockout.Check(req.Username); locked {
		h.writeLocked(w, retryAfter)
		return
	}

	admin, err := h.store.GetAdminByUsername(r.Context(), req.Username)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.logger.Error("login lookup failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Login failed")
			return
		}
		h.recordFailure(w, req.Username)
		return
	}

	if !auth.VerifyPassword(req.Password, admin.PasswordHash) || !admin.IsActive {
		h.recordFailure(w, req.Username)
		return
	}

	h.lockout.Clear(req.Username)

	token, err := h.tokens.Issue(auth.Claims{
		UserID:       admin.ID,
		Username:     admin.Username,
		IsSuperAdmin: admin.IsSuperAdmin,
		IsActive:     admin.IsActive,
		Regions:      admin.Regions,
	})
	if err != nil {
		h.logger.Error("token issue failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	csrfToken, err := h.csrf.GenerateToken()
	if err != nil {
		h.logger.Error("csrf token generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}
	h.csrf.SetCookie(w, csrfToken)
	w.Header().Set(auth.CSRFHeaderName, csrfToken)

	if err := h.store.UpdateAdminLastLogin(r.Context(), admin.ID); err != nil {
		h.logger.Warn("last login stamp failed", "admin_id", admin.ID, "error", err)
	}

	middleware.GetAuditor(r.Context())(model.ActivityEntry{
		AdminID:  admin.ID,
		Username: admin.Username,
		Action:   "login",
		Entity:   "session",
	})

	writeJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(h.tokens.TTL()),
		User: loginUser{
			ID:                admin.ID,
			Username:          admin.Username,
			FullName:          admin.FullName,
			Email:             admin.Email,
			IsSuperAdmin:      admin.IsSuperAdmin,
			Regions:           admin.Regions,
			ProfilePictureURL: admin.ProfilePictureURL,
		},
	})
}

func (h *AuthHandler) recordFailure(w http.ResponseWriter, username string) {
	if locked, retryAfter := h.lockout.RecordFailure(username); locked {
		h.writeLocked(w, retryAfter)
		return
	}
	writeError(w, http.StatusUnauthorized, invalidCredentials)
}

func (h *AuthHandler) writeLocked(w http.ResponseWriter, retryAfter time.Duration) {
	seconds := int(retryAfter.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(seconds))
	writeJSON(w, http.StatusTooManyRequests, model.ErrorResponse{
		Error:      "Too many failed login attempts. Try again later.",
		RetryAfter: seconds,
	})
}

// Logout handles POST /auth/logout. Tokens are stateless, so logout clears the
// CSRF cookie and reports success unconditionally.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CSRFCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})

	if claims := middleware.GetClaims(r.Context()); claims != nil {
		middleware.GetAuditor(r.Context())(model.ActivityEntry{
			Action: "logout",
			Entity: "session",
		})
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Refresh handles GET /auth/me style session introspection: it echoes the
// verified claims so a client can restore its UI state. The token's expiry is
// not extended.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	writeJSON(w, http.StatusOK, loginUser{
		ID:           claims.UserID,
		Username:     claims.Username,
		IsSuperAdmin: claims.IsSuperAdmin,
		Regions:      claims.Regions,
	})
}
