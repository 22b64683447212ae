// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package auth

import "errors"

var (
	// ErrInvalidCredentials covers both unknown users and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrLockedOut is returned while a username is locked after repeated failures.
	ErrLockedOut = errors.New("too many failed login attempts")

	// ErrTokenRevoked is returned for tokens that were logged out.
	ErrTokenRevoked = errors.New("token revoked")

	// ErrTokenExpired is returned for tokens past their expiry.
	ErrTokenExpired = errors.New("token expired")

	// ErrInvalidToken is returned for malformed or tampered tokens.
	ErrInvalidToken = errors.New("invalid token")

	// ErrMissingToken is returned when a request carries no token.
	ErrMissingToken = errors.New("missing token")
)
