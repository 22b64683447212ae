// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/dcsdash/internal/auth"
	"github.com/tomtom215/dcsdash/internal/authz"
	"github.com/tomtom215/dcsdash/internal/middleware"
	"github.com/tomtom215/dcsdash/internal/models"
)

func withRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := &auth.Claims{Username: "u-" + role, Role: role}
			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

func TestRouter_Authorization(t *testing.T) {
	t.Parallel()

	enforcer, err := authz.NewEnforcer()
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}
	authorize := authz.NewMiddleware(enforcer).AuthorizeRequest

	tests := []struct {
		name   string
		role   string
		method string
		path   string
		body   string
		want   int
	}{
		{"viewer reads units", models.RoleViewer, http.MethodGet, "/api/units", "", http.StatusOK},
		{"viewer cannot add units", models.RoleViewer, http.MethodPost, "/api/units", `{"unit":"bar"}`, http.StatusForbidden},
		{"viewer cannot change settings", models.RoleViewer, http.MethodPost, "/api/tag-settings", `{"tag_name":"a"}`, http.StatusForbidden},
		{"viewer queries data", models.RoleViewer, http.MethodPost, "/api/data", `{"exec_from_dt":"2024-01-01","exec_to_dt":"2024-01-02"}`, http.StatusOK},
		{"viewer saves layouts", models.RoleViewer, http.MethodPost, "/api/saved-selections", `{"name":"x","tag_names":["a"]}`, http.StatusCreated},
		{"admin adds units", models.RoleAdmin, http.MethodPost, "/api/units", `{"unit":"bar"}`, http.StatusCreated},
		{"admin deletes settings", models.RoleAdmin, http.MethodDelete, "/api/tag-settings/a", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv()
			router := NewRouter(env.h, Middlewares{Authenticate: withRole(tt.role), Authorize: authorize})
			rec, _ := do(t, router, tt.method, tt.path, tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestRouter_AuthenticationRequired(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	authn := auth.NewMiddleware(nil, auth.ModeJWT).Authenticate
	router := NewRouter(env.h, Middlewares{Authenticate: authn})

	for _, path := range []string{"/api/meta", "/api/session", "/ws"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token: status = %d, want 401", path, rec.Code)
		}
	}

	// Login and health stay public.
	rec, _ := do(t, router, http.MethodPost, "/api/login", `{"username":"a"}`)
	if rec.Code == http.StatusUnauthorized {
		t.Error("login must not require a token")
	}
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("health: status = %d", rec.Code)
	}
}

func TestRouter_RateLimit(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	env.h.cfg.Security.RateLimitDisabled = false
	env.h.cfg.Security.RateLimitReqs = 2
	env.h.cfg.Security.RateLimitWindow = time.Minute
	router := NewRouter(env.h, Middlewares{})

	var last *httptest.ResponseRecorder
	var body envelope
	for i := 0; i < 3; i++ {
		last, body = do(t, router, http.MethodGet, "/api/units", "")
	}
	if last.Code != http.StatusTooManyRequests || body.Error == nil || body.Error.Code != CodeRateLimited {
		t.Errorf("third request: status = %d body = %s", last.Code, last.Body.String())
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("health must not be rate limited, got %d", rec.Code)
	}
}

func TestRouter_UnknownAPIRoute(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	rec, body := do(t, NewRouter(env.h, Middlewares{}), http.MethodGet, "/api/nope", "")
	if rec.Code != http.StatusNotFound || body.Error == nil || body.Error.Code != CodeNotFound {
		t.Errorf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if body.Error.RequestID != rec.Header().Get(middleware.HeaderRequestID) {
		t.Errorf("request id %q not echoed in error", body.Error.RequestID)
	}
}

func TestRouter_WebSocketDisabledWithoutHub(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	rec, _ := do(t, NewRouter(env.h, Middlewares{}), http.MethodGet, "/ws", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestCheckOrigin(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"http://example.com", true},
		{"http://localhost:3001", true},
		{"http://evil.test", false},
		{"::not a url", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "http://example.com/ws", nil)
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		if got := env.h.checkOrigin(req); got != tt.want {
			t.Errorf("checkOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}

func TestRouter_StaticFallback(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>dashboard</html>"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o600); err != nil {
		t.Fatal(err)
	}

	env := newTestEnv()
	env.h.cfg.Server.StaticDir = dir
	router := NewRouter(env.h, Middlewares{})

	tests := []struct {
		path      string
		wantCode  int
		wantBody  string
		wantCache string
	}{
		{"/", http.StatusOK, "dashboard", "no-cache"},
		{"/layouts/42", http.StatusOK, "dashboard", "no-cache"},
		{"/app.js", http.StatusOK, "console.log", "immutable"},
		{"/missing.js", http.StatusNotFound, "", ""},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rec.Code != tt.wantCode {
			t.Errorf("GET %s: status = %d, want %d", tt.path, rec.Code, tt.wantCode)
			continue
		}
		if !strings.Contains(rec.Body.String(), tt.wantBody) {
			t.Errorf("GET %s: body = %q", tt.path, rec.Body.String())
		}
		if !strings.Contains(rec.Header().Get("Cache-Control"), tt.wantCache) {
			t.Errorf("GET %s: Cache-Control = %q", tt.path, rec.Header().Get("Cache-Control"))
		}
	}
}
