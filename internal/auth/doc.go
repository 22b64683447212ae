// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

/*
Package auth authenticates dashboard users.

Key Components:

  - Service: login, logout and token validation
  - JWTManager: HS256 session tokens carrying username, role and a JTI
  - RevocationStore: BadgerDB set of logged-out token IDs, each expiring
    with the token it revokes
  - Lockout: per-username failed attempt counter (5 failures lock the
    name for 15 minutes by default)
  - Middleware: reads the token from "Authorization: Bearer" or the
    "token" cookie and stores the Claims in the request context

Passwords are stored as bcrypt hashes with cost BcryptCost.

Authentication Modes:

  - jwt (default): every /api request except login and health needs a token
  - none: every request runs as the built-in admin; refused in production

Usage:

	svc := auth.NewService(db, jwtManager, revocations, auth.NewLockout(5, 15*time.Minute))
	sess, err := svc.Login(ctx, "admin", password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
	    // 401
	}
*/
package auth
