// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package authz

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/dcsdash/internal/auth"
	"github.com/tomtom215/dcsdash/internal/logging"
)

// Middleware authorizes requests authenticated by auth.Middleware.
type Middleware struct {
	enforcer *Enforcer
}

// NewMiddleware creates the authorization middleware.
func NewMiddleware(enforcer *Enforcer) *Middleware {
	return &Middleware{enforcer: enforcer}
}

// AuthorizeRequest derives the action from the method and the object
// from the path.
func (m *Middleware) AuthorizeRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := auth.ClaimsFromContext(r.Context())
		if !ok {
			writeForbidden(w, r, "No authentication context")
			return
		}

		action := MethodToAction(r.Method)
		allowed, err := m.enforcer.EnforceWithRole(claims.Username, claims.Role, r.URL.Path, action)
		if err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Msg("authorization error")
			writeForbidden(w, r, "Authorization failed")
			return
		}
		if !allowed {
			logging.Ctx(r.Context()).Warn().
				Str("username", claims.Username).
				Str("role", claims.Role).
				Str("path", r.URL.Path).
				Str("action", action).
				Msg("request denied")
			writeForbidden(w, r, "Insufficient permissions")
			return
		}

		next.ServeHTTP(w, r)
	})
}

type forbiddenBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func writeForbidden(w http.ResponseWriter, r *http.Request, msg string) {
	body := forbiddenBody{Message: msg}
	body.Error.Code = "FORBIDDEN"
	body.Error.Message = msg
	body.Error.RequestID = logging.RequestIDFromContext(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(body)
}
