// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/dcsdash/internal/logging"
)

type contextKey string

// ClaimsContextKey holds the *Claims of an authenticated request.
const ClaimsContextKey contextKey = "claims"

// TokenCookie is the cookie carrying the session token.
const TokenCookie = "token"

// Auth modes.
const (
	ModeJWT  = "jwt"
	ModeNone = "none"
)

// Validator validates session tokens.
type Validator interface {
	Validate(ctx context.Context, token string) (*Claims, error)
}

// Middleware enforces authentication on wrapped handlers.
type Middleware struct {
	validator Validator
	authMode  string
}

// NewMiddleware creates the authentication middleware.
func NewMiddleware(validator Validator, authMode string) *Middleware {
	return &Middleware{validator: validator, authMode: authMode}
}

// Authenticate rejects requests without a valid, unrevoked token.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.authMode == ModeNone {
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), AdminClaims())))
			return
		}

		token, err := ExtractToken(r)
		if err != nil {
			writeUnauthorized(w, r, err)
			return
		}

		claims, err := m.validator.Validate(r.Context(), token)
		if err != nil {
			if !errors.Is(err, ErrTokenExpired) && !errors.Is(err, ErrTokenRevoked) {
				logging.Ctx(r.Context()).Warn().Err(err).Msg("token validation failed")
			}
			writeUnauthorized(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// ExtractToken reads the token from the Authorization header, then the
// token cookie.
func ExtractToken(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			return "", ErrInvalidToken
		}
		return parts[1], nil
	}
	if cookie, err := r.Cookie(TokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}
	return "", ErrMissingToken
}

// WithClaims stores claims in ctx.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ClaimsContextKey, claims)
}

// ClaimsFromContext returns the claims of an authenticated request.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok && claims != nil
}

// unauthorizedBody mirrors the API error envelope.
type unauthorizedBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func writeUnauthorized(w http.ResponseWriter, r *http.Request, err error) {
	msg := "Authentication required"
	switch {
	case errors.Is(err, ErrTokenExpired):
		msg = "Session expired"
	case errors.Is(err, ErrTokenRevoked):
		msg = "Session ended"
	case errors.Is(err, ErrInvalidToken):
		msg = "Invalid token"
	}

	body := unauthorizedBody{Message: msg}
	body.Error.Code = "UNAUTHORIZED"
	body.Error.Message = msg
	body.Error.RequestID = logging.RequestIDFromContext(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(body)
}
