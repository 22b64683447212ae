// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package authz

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tomtom215/dcsdash/internal/auth"
)

func newTestEnforcer(t *testing.T) *Enforcer {
	t.Helper()
	e, err := NewEnforcer()
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}
	return e
}

func TestEnforcer_EmbeddedPolicy(t *testing.T) {
	t.Parallel()

	e := newTestEnforcer(t)

	tests := []struct {
		role   string
		path   string
		action string
		want   bool
	}{
		{"viewer", "/api/meta", ActionRead, true},
		{"viewer", "/api/tag-settings", ActionRead, true},
		{"viewer", "/api/data", ActionWrite, true},
		{"viewer", "/api/dashboard/view", ActionWrite, true},
		{"viewer", "/api/saved-selections", ActionWrite, true},
		{"viewer", "/api/saved-selections/abc/reorder", ActionWrite, true},
		{"viewer", "/api/logout", ActionWrite, true},
		{"viewer", "/ws", ActionRead, true},
		{"viewer", "/api/tag-settings", ActionWrite, false},
		{"viewer", "/api/tag-settings/kepco_power_01", ActionDelete, false},
		{"viewer", "/api/units", ActionWrite, false},
		{"viewer", "/api/units/3", ActionDelete, false},
		{"viewer", "/api/saved-selections/abc", ActionDelete, false},
		{"admin", "/api/meta", ActionRead, true},
		{"admin", "/api/data", ActionWrite, true},
		{"admin", "/api/tag-settings", ActionWrite, true},
		{"admin", "/api/tag-settings/kepco_power_01", ActionDelete, true},
		{"admin", "/api/units/3", ActionDelete, true},
		{"admin", "/api/saved-selections/abc", ActionDelete, true},
		{"admin", "/api/meta", ActionDelete, false},
		{"guest", "/api/meta", ActionRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.role+" "+tt.action+" "+tt.path, func(t *testing.T) {
			t.Parallel()
			got, err := e.Enforce(tt.role, tt.path, tt.action)
			if err != nil {
				t.Fatalf("Enforce: %v", err)
			}
			if got != tt.want {
				t.Errorf("Enforce(%s, %s, %s) = %v, want %v", tt.role, tt.path, tt.action, got, tt.want)
			}
		})
	}
}

func TestMethodToAction(t *testing.T) {
	t.Parallel()

	for method, want := range map[string]string{
		http.MethodGet:     ActionRead,
		http.MethodHead:    ActionRead,
		http.MethodPost:    ActionWrite,
		http.MethodPut:     ActionWrite,
		http.MethodDelete:  ActionDelete,
		http.MethodOptions: ActionRead,
	} {
		if got := MethodToAction(method); got != want {
			t.Errorf("MethodToAction(%s) = %s, want %s", method, got, want)
		}
	}
}

func TestNewEnforcerFromStrings_MalformedPolicy(t *testing.T) {
	t.Parallel()

	if _, err := NewEnforcerFromStrings(embeddedModel, "p, viewer"); err == nil {
		t.Error("expected an error for a malformed policy line")
	}
}

func TestMiddleware_AuthorizeRequest(t *testing.T) {
	t.Parallel()

	mw := NewMiddleware(newTestEnforcer(t))
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		claims *auth.Claims
		method string
		path   string
		want   int
	}{
		{"viewer reads", &auth.Claims{Username: "v", Role: "viewer"}, http.MethodGet, "/api/units", http.StatusNoContent},
		{"viewer cannot save settings", &auth.Claims{Username: "v", Role: "viewer"}, http.MethodPost, "/api/tag-settings", http.StatusForbidden},
		{"admin saves settings", &auth.Claims{Username: "a", Role: "admin"}, http.MethodPost, "/api/tag-settings", http.StatusNoContent},
		{"no claims", nil, http.MethodGet, "/api/units", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.claims != nil {
				req = req.WithContext(auth.WithClaims(req.Context(), tt.claims))
			}
			rec := httptest.NewRecorder()
			mw.AuthorizeRequest(next).ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
