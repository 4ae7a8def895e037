package server

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
	"github.com/vitrinecms/vitrine/internal/region"
	"github.com/vitrinecms/vitrine/internal/store"
)

const (
	testJWTSecret = "test-secret-for-integration-tests"
	testPassword  = "supersecretpassword"
)

// testEnv holds the shared state for integration tests: an in-memory store,
// seeded admin accounts, and a fully wired Server.
type testEnv struct {
	server *Server
	store  *store.Store
	super  *model.Admin
	editor *model.Admin
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := store.Open(store.Options{})
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	hash, err := auth.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	super := &model.Admin{
		Username: "root", Email: "root@example.in", FullName: "Root",
		PasswordHash: hash, IsSuperAdmin: true, IsActive: true,
	}
	editor := &model.Admin{
		Username: "editor.in", Email: "editor@example.in", FullName: "IN Editor",
		PasswordHash: hash, IsActive: true, Regions: []string{"IN"},
	}
	for _, a := range []*model.Admin{super, editor} {
		if err := st.CreateAdmin(context.Background(), a); err != nil {
			t.Fatalf("CreateAdmin: %v", err)
		}
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := auth.NewTokenService(testJWTSecret, time.Hour)

	cfg := DefaultConfig()
	cfg.FloodLimit = 0 // keep the coarse ceiling out of functional tests
	srv := New(cfg, st, tokens, region.DefaultConfig(), logger)

	return &testEnv{server: srv, store: st, super: super, editor: editor}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	e.server.ServeHTTP(rr, req)
	return rr
}

// session is an authenticated client state: bearer token plus CSRF pair.
type session struct {
	token      string
	csrfRaw    string
	csrfCookie *http.Cookie
}

func (e *testEnv) login(t *testing.T, username string) *session {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"username": username, "password": testPassword})
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := e.do(req)
	if rr.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d: %s", username, rr.Code, rr.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	json.NewDecoder(rr.Body).Decode(&resp)

	s := &session{token: resp.Token, csrfRaw: rr.Header().Get(auth.CSRFHeaderName)}
	for _, c := range rr.Result().Cookies() {
		if c.Name == auth.CSRFCookieName {
			s.csrfCookie = c
		}
	}
	if s.token == "" || s.csrfRaw == "" || s.csrfCookie == nil {
		t.Fatalf("incomplete session: token=%q csrf=%q cookie=%v", s.token, s.csrfRaw, s.csrfCookie)
	}
	return s
}

func (s *session) apply(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set(auth.CSRFHeaderName, s.csrfRaw)
	req.AddCookie(s.csrfCookie)
	return req
}

// ---------------------------------------------------------------------------
// Health
// ---------------------------------------------------------------------------

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	if rr := env.do(httptest.NewRequest("GET", "/healthz", nil)); rr.Code != http.StatusOK {
		t.Errorf("healthz: expected 200, got %d", rr.Code)
	}
	if rr := env.do(httptest.NewRequest("GET", "/readyz", nil)); rr.Code != http.StatusOK {
		t.Errorf("readyz: expected 200, got %d", rr.Code)
	}
}

// ---------------------------------------------------------------------------
// Full pipeline: login, create content, read it publicly
// ---------------------------------------------------------------------------

func TestContentRoundtripThroughPipeline(t *testing.T) {
	env := newTestEnv(t)
	sess := env.login(t, "editor.in")

	// Create a slide in the editor's region.
	body, _ := json.Marshal(model.SliderImage{ImageURL: "https://cdn/x.jpg", Caption: "hi", IsActive: true})
	req := sess.apply(httptest.NewRequest("POST", "/admin/slider?region=IN", bytes.NewReader(body)))
	req.Header.Set("Content-Type", "application/json")
	rr := env.do(req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	// Visible through the IN public prefix.
	rr = env.do(httptest.NewRequest("GET", "/en-in/slider", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("public IN: expected 200, got %d", rr.Code)
	}
	var list struct {
		Meta model.ResponseMeta `json:"meta"`
	}
	json.NewDecoder(rr.Body).Decode(&list)
	if list.Meta.Count != 1 {
		t.Errorf("IN count: got %d, want 1", list.Meta.Count)
	}

	// Invisible through the AE prefix.
	rr = env.do(httptest.NewRequest("GET", "/en-ae/slider", nil))
	json.NewDecoder(rr.Body).Decode(&list)
	if list.Meta.Count != 0 {
		t.Errorf("AE count: got %d, want 0", list.Meta.Count)
	}
}

// ---------------------------------------------------------------------------
// Pipeline rejections
// ---------------------------------------------------------------------------

func TestAdminRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(httptest.NewRequest("GET", "/admin/slider?region=IN", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
}

func TestAdminWritesRequireCSRF(t *testing.T) {
	env := newTestEnv(t)
	sess := env.login(t, "editor.in")

	body, _ := json.Marshal(model.SliderImage{ImageURL: "https://cdn/x.jpg"})
	req := httptest.NewRequest("POST", "/admin/slider?region=IN", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+sess.token)
	// No CSRF header or cookie.
	rr := env.do(req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
	var resp model.ErrorResponse
	json.NewDecoder(rr.Body).Decode(&resp)
	if resp.Code != "CSRF_TOKEN_INVALID" {
		t.Errorf("code: got %q, want CSRF_TOKEN_INVALID", resp.Code)
	}
}

func TestRegionGateThroughPipeline(t *testing.T) {
	env := newTestEnv(t)

	// The IN editor cannot touch AE.
	sess := env.login(t, "editor.in")
	rr := env.do(sess.apply(httptest.NewRequest("GET", "/admin/slider?region=AE", nil)))
	if rr.Code != http.StatusForbidden {
		t.Errorf("editor on AE: expected 403, got %d", rr.Code)
	}

	// A super admin can.
	rootSess := env.login(t, "root")
	rr = env.do(rootSess.apply(httptest.NewRequest("GET", "/admin/slider?region=AE", nil)))
	if rr.Code != http.StatusOK {
		t.Errorf("root on AE: expected 200, got %d", rr.Code)
	}
}

func TestAccountRoutesAreSuperAdminOnly(t *testing.T) {
	env := newTestEnv(t)

	sess := env.login(t, "editor.in")
	rr := env.do(sess.apply(httptest.NewRequest("GET", "/admin/accounts", nil)))
	if rr.Code != http.StatusForbidden {
		t.Errorf("editor: expected 403, got %d", rr.Code)
	}

	rootSess := env.login(t, "root")
	rr = env.do(rootSess.apply(httptest.NewRequest("GET", "/admin/accounts", nil)))
	if rr.Code != http.StatusOK {
		t.Errorf("root: expected 200, got %d", rr.Code)
	}
}

// ---------------------------------------------------------------------------
// Rate limiting and lockout through the full stack
// ---------------------------------------------------------------------------

func TestPublicRoutesCarryRateLimitHeaders(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(httptest.NewRequest("GET", "/en-in/services", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr.Header().Get("X-RateLimit-Limit") != "60" {
		t.Errorf("X-RateLimit-Limit = %q", rr.Header().Get("X-RateLimit-Limit"))
	}
	if rr.Header().Get("X-RateLimit-Remaining") == "" || rr.Header().Get("X-RateLimit-Reset") == "" {
		t.Error("missing rate-limit headers on allowed response")
	}
	if rr.Header().Get("Retry-After") != "" {
		t.Error("Retry-After must only appear on 429")
	}
}

func TestLoginLockoutEndToEnd(t *testing.T) {
	env := newTestEnv(t)

	attempt := func(password string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(map[string]string{"username": "editor.in", "password": password})
		req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return env.do(req)
	}

	if rr := attempt(testPassword); rr.Code != http.StatusOK {
		t.Fatalf("fresh login: expected 200, got %d", rr.Code)
	}

	for i := 1; i <= 4; i++ {
		if rr := attempt("wrong-password"); rr.Code != http.StatusUnauthorized {
			t.Fatalf("failure %d: expected 401, got %d", i, rr.Code)
		}
	}
	if rr := attempt("wrong-password"); rr.Code != http.StatusTooManyRequests {
		t.Fatalf("fifth failure: expected 429, got %d", rr.Code)
	}

	// Even the correct password is locked out now.
	rr := attempt(testPassword)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("locked correct attempt: expected 429, got %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Error("lockout response must carry Retry-After")
	}
}

// ---------------------------------------------------------------------------
// Audit trail
// ---------------------------------------------------------------------------

func TestLoginRecordsActivity(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "editor.in")

	// The audit write happens on a goroutine; poll briefly for it to land.
	deadline := time.Now().Add(2 * time.Second)
	for {
		entries, err := env.store.ListActivity(context.Background(), 10, 0)
		if err != nil {
			t.Fatal(err)
		}
		for _, e := range entries {
			if e.Action == "login" && e.Entity == "session" {
				if e.Username != "editor.in" || e.AdminID != env.editor.ID {
					t.Errorf("login entry actor: got %q/%d, want %q/%d",
						e.Username, e.AdminID, "editor.in", env.editor.ID)
				}
				return
			}
		}
		if time.Now().After(deadline) {
			t.Fatalf("no login entry in activity log; got %d entries", len(entries))
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// ---------------------------------------------------------------------------
// Ambient headers
// ---------------------------------------------------------------------------

func TestSecurityAndRequestIDHeaders(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(httptest.NewRequest("GET", "/healthz", nil))
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing security headers")
	}
}

func TestLogoutAndRefreshThroughPipeline(t *testing.T) {
	env := newTestEnv(t)
	sess := env.login(t, "root")

	rr := env.do(sess.apply(httptest.NewRequest("POST", "/auth/refresh", nil)))
	if rr.Code != http.StatusOK {
		t.Fatalf("refresh: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var user struct {
		Username     string `json:"username"`
		IsSuperAdmin bool   `json:"isSuperAdmin"`
	}
	json.NewDecoder(rr.Body).Decode(&user)
	if user.Username != "root" || !user.IsSuperAdmin {
		t.Errorf("claims echo: %+v", user)
	}

	rr = env.do(sess.apply(httptest.NewRequest("POST", "/auth/logout", nil)))
	if rr.Code != http.StatusOK {
		t.Errorf("logout: expected 200, got %d", rr.Code)
	}
}
