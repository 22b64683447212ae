// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package api

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/dcsdash/internal/auth"
	"github.com/tomtom215/dcsdash/internal/logging"
	"github.com/tomtom215/dcsdash/internal/models"
)

// SessionInfo is the data of GET /api/session.
type SessionInfo struct {
	User      models.UserInfo `json:"user"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
	AuthMode  string          `json:"auth_mode"`
}

// Login checks credentials, sets the HTTP-only token cookie and returns the
// token for clients that prefer the Authorization header.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if h.auth == nil {
		writeJSON(w, http.StatusOK, models.LoginResponse{
			Success: true,
			Message: "authentication disabled",
			User:    claimsUser(auth.AdminClaims()),
		})
		return
	}

	var req models.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	username := strings.TrimSpace(req.Username)

	session, err := h.auth.Login(r.Context(), username, req.Password)
	var locked *auth.LockoutError
	switch {
	case errors.As(err, &locked):
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(locked.Remaining.Seconds()))))
		respondError(w, r, http.StatusTooManyRequests, CodeRateLimited,
			"Too many failed login attempts, try again later", nil)
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		logging.Ctx(r.Context()).Info().Str("username", sanitizeLogValue(username)).Msg("login rejected")
		respondError(w, r, http.StatusUnauthorized, CodeUnauthorized, "Invalid username or password", nil)
		return
	case err != nil:
		respondError(w, r, http.StatusInternalServerError, CodeInternal, "Login failed", err)
		return
	}

	expires := session.Claims.ExpiresAtTime()
	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, models.LoginResponse{
		Success:   true,
		Message:   "ok",
		User:      session.User,
		Token:     session.Token,
		ExpiresAt: expires,
	})
}

// Logout revokes the current token and clears the cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	if h.auth != nil {
		if err := h.auth.Logout(r.Context(), claims); err != nil {
			respondError(w, r, http.StatusInternalServerError, CodeInternal, "Logout failed", err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, &Response{Success: true, Message: "logged out"})
}

// Session returns the authenticated user. Expired or revoked tokens never
// reach it; the auth middleware answers 401 first.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, CodeUnauthorized, "Authentication required", nil)
		return
	}

	info := SessionInfo{User: claimsUser(claims), AuthMode: h.cfg.Security.AuthMode}
	if exp := claims.ExpiresAtTime(); !exp.IsZero() {
		info.ExpiresAt = &exp
	}
	respondOK(w, http.StatusOK, info)
}

func claimsUser(c *auth.Claims) models.UserInfo {
	return models.UserInfo{Username: c.Username, Role: c.Role}
}
