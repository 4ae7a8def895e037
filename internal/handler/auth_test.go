package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vitrinecms/vitrine/internal/auth"
	"github.com/vitrinecms/vitrine/internal/model"
	"github.com/vitrinecms/vitrine/internal/server/middleware"
	"github.com/vitrinecms/vitrine/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(store.Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedAdmin(t *testing.T, st *store.Store, username, password string, active bool, regions []string) *model.Admin {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	admin := &model.Admin{
		Username:     username,
		Email:        username + "@example.in",
		FullName:     "Test Admin",
		PasswordHash: hash,
		IsActive:     active,
		Regions:      regions,
	}
	if err := st.CreateAdmin(context.Background(), admin); err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}
	return admin
}

func newAuthHandler(st *store.Store) *AuthHandler {
	return NewAuthHandler(st,
		auth.NewTokenService("test-secret", time.Hour),
		auth.NewCSRFGuard(),
		auth.NewLoginLimiter(),
		discardLogger())
}

func postLogin(h *AuthHandler, username, password string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Login(rr, req)
	return rr
}

func TestLoginSuccess(t *testing.T) {
	st := newTestStore(t)
	admin := seedAdmin(t, st, "editor", "s3cret-pass", true, []string{"IN"})
	h := newAuthHandler(st)

	rr := postLogin(h, "editor", "s3cret-pass")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp loginResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a session token")
	}
	if resp.User.ID != admin.ID || resp.User.Username != "editor" {
		t.Errorf("user payload: %+v", resp.User)
	}
	if len(resp.User.Regions) != 1 || resp.User.Regions[0] != "IN" {
		t.Errorf("regions: %v", resp.User.Regions)
	}

	// CSRF pair: cookie holds the hash, header carries the raw token.
	rawToken := rr.Header().Get(auth.CSRFHeaderName)
	if rawToken == "" {
		t.Fatal("expected raw CSRF token in response header")
	}
	var cookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == auth.CSRFCookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("expected CSRF cookie")
	}
	if cookie.Value == rawToken {
		t.Error("cookie must store the hash, not the raw token")
	}
	if cookie.Value != auth.NewCSRFGuard().HashToken(rawToken) {
		t.Error("cookie must be the SHA-256 digest of the header token")
	}

	// last_login_at is stamped.
	reloaded, _ := st.GetAdmin(context.Background(), admin.ID)
	if reloaded.LastLoginAt == nil {
		t.Error("expected last_login_at after successful login")
	}
}

func TestLoginUniformFailureShape(t *testing.T) {
	st := newTestStore(t)
	seedAdmin(t, st, "editor", "s3cret-pass", true, nil)
	seedAdmin(t, st, "ghost", "whatever-pw", false, nil)
	h := newAuthHandler(st)

	// Unknown username, wrong password, and inactive account must be
	// indistinguishable in status and body.
	bodies := map[string]*httptest.ResponseRecorder{
		"unknown username": postLogin(h, "nobody", "s3cret-pass"),
		"wrong password":   postLogin(h, "editor", "wrong-pass"),
		"inactive account": postLogin(h, "ghost", "whatever-pw"),
	}

	var want string
	for name, rr := range bodies {
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", name, rr.Code)
		}
		if want == "" {
			want = rr.Body.String()
		} else if rr.Body.String() != want {
			t.Errorf("%s: body %q differs from %q", name, rr.Body.String(), want)
		}
	}
}

func TestLoginLockoutAfterFiveFailures(t *testing.T) {
	st := newTestStore(t)
	seedAdmin(t, st, "editor", "s3cret-pass", true, nil)
	h := newAuthHandler(st)

	for i := 1; i <= 4; i++ {
		rr := postLogin(h, "editor", "wrong-pass")
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i, rr.Code)
		}
	}

	// Fifth failure triggers the lock.
	rr := postLogin(h, "editor", "wrong-pass")
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("fifth failure: expected 429, got %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Error("lockout must carry Retry-After")
	}

	// Even the correct password is rejected while locked.
	rr = postLogin(h, "editor", "s3cret-pass")
	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("locked correct attempt: expected 429, got %d", rr.Code)
	}
	var resp model.ErrorResponse
	json.NewDecoder(rr.Body).Decode(&resp)
	if resp.RetryAfter < 1 {
		t.Errorf("retryAfter hint: got %d", resp.RetryAfter)
	}

	// Other usernames are unaffected.
	seedAdmin(t, st, "other", "other-pass1", true, nil)
	rr = postLogin(h, "other", "other-pass1")
	if rr.Code != http.StatusOK {
		t.Errorf("unrelated user: expected 200, got %d", rr.Code)
	}
}

func TestLoginSuccessClearsLockout(t *testing.T) {
	st := newTestStore(t)
	seedAdmin(t, st, "editor", "s3cret-pass", true, nil)
	h := newAuthHandler(st)

	for i := 0; i < 3; i++ {
		postLogin(h, "editor", "wrong-pass")
	}
	if rr := postLogin(h, "editor", "s3cret-pass"); rr.Code != http.StatusOK {
		t.Fatalf("correct login before lock: expected 200, got %d", rr.Code)
	}

	// Counter reset: four more failures stay at 401.
	for i := 1; i <= 4; i++ {
		rr := postLogin(h, "editor", "wrong-pass")
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("failure %d after reset: expected 401, got %d", i, rr.Code)
		}
	}
}

func TestLoginValidation(t *testing.T) {
	h := newAuthHandler(newTestStore(t))

	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte(`{not json`)))
	rr := httptest.NewRecorder()
	h.Login(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("malformed body: expected 400, got %d", rr.Code)
	}

	if rr := postLogin(h, "editor", ""); rr.Code != http.StatusBadRequest {
		t.Errorf("empty password: expected 400, got %d", rr.Code)
	}
}

func TestLogoutAlwaysSucceeds(t *testing.T) {
	h := newAuthHandler(newTestStore(t))

	req := httptest.NewRequest("POST", "/auth/logout", nil)
	rr := httptest.NewRecorder()
	h.Logout(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp map[string]bool
	json.NewDecoder(rr.Body).Decode(&resp)
	if !resp["success"] {
		t.Error("expected success true")
	}

	// CSRF cookie is expired.
	for _, c := range rr.Result().Cookies() {
		if c.Name == auth.CSRFCookieName && c.MaxAge >= 0 {
			t.Error("logout should expire the CSRF cookie")
		}
	}
}

func TestRefreshEchoesClaims(t *testing.T) {
	h := newAuthHandler(newTestStore(t))

	claims := &auth.Claims{UserID: 9, Username: "editor", Regions: []string{"AE"}, IsActive: true}
	req := httptest.NewRequest("GET", "/auth/me", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.ClaimsKey, claims))
	rr := httptest.NewRecorder()
	h.Refresh(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var user loginUser
	json.NewDecoder(rr.Body).Decode(&user)
	if user.ID != 9 || user.Username != "editor" {
		t.Errorf("claims echo: %+v", user)
	}

	// Without claims: 401.
	rr = httptest.NewRecorder()
	h.Refresh(rr, httptest.NewRequest("GET", "/auth/me", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("no claims: expected 401, got %d", rr.Code)
	}
}
