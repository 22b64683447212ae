// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/dcsdash/internal/database"
	"github.com/tomtom215/dcsdash/internal/logging"
	"github.com/tomtom215/dcsdash/internal/metrics"
	"github.com/tomtom215/dcsdash/internal/models"
)

// UserStore looks accounts up by username.
type UserStore interface {
	GetUser(ctx context.Context, username string) (*models.User, error)
}

// Revoker records and checks logged-out token IDs.
type Revoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// LockoutError carries the remaining lock time. It matches ErrLockedOut.
type LockoutError struct {
	Remaining time.Duration
}

func (e *LockoutError) Error() string {
	return fmt.Sprintf("%s, retry in %s", ErrLockedOut, e.Remaining.Round(time.Second))
}

// Is reports ErrLockedOut as equal.
func (e *LockoutError) Is(target error) bool {
	return target == ErrLockedOut
}

// Session is the result of a successful login.
type Session struct {
	User   models.UserInfo
	Token  string
	Claims *Claims
}

// Service authenticates users and validates their tokens.
type Service struct {
	users       UserStore
	jwt         *JWTManager
	revocations Revoker
	lockout     *Lockout
}

// NewService creates a Service. lockout may be nil to disable lockout.
func NewService(users UserStore, jwt *JWTManager, revocations Revoker, lockout *Lockout) *Service {
	return &Service{users: users, jwt: jwt, revocations: revocations, lockout: lockout}
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// equalizeTiming spends a bcrypt comparison for unknown usernames.
func equalizeTiming(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = HashPassword("timing-equalizer-password")
	})
	CheckPassword(dummyHash, password)
}

// Login checks the credentials and issues a session token.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	if s.lockout != nil {
		if remaining := s.lockout.Check(username); remaining > 0 {
			metrics.LoginAttempts.WithLabelValues("locked").Inc()
			return nil, &LockoutError{Remaining: remaining}
		}
	}

	user, err := s.users.GetUser(ctx, username)
	switch {
	case errors.Is(err, database.ErrNotFound):
		equalizeTiming(password)
		return nil, s.fail(ctx, username)
	case err != nil:
		return nil, fmt.Errorf("look up user: %w", err)
	case !CheckPassword(user.PasswordHash, password):
		return nil, s.fail(ctx, username)
	}

	if s.lockout != nil {
		s.lockout.Reset(username)
	}

	token, claims, err := s.jwt.GenerateToken(user.Username, user.Role)
	if err != nil {
		return nil, err
	}
	metrics.LoginAttempts.WithLabelValues("success").Inc()
	logging.Ctx(ctx).Info().Str("username", user.Username).Msg("user logged in")

	return &Session{
		User:   models.UserInfo{Username: user.Username, Role: user.Role},
		Token:  token,
		Claims: claims,
	}, nil
}

func (s *Service) fail(ctx context.Context, username string) error {
	metrics.LoginAttempts.WithLabelValues("invalid").Inc()
	logging.Ctx(ctx).Warn().Str("username", username).Msg("failed login attempt")
	if s.lockout != nil {
		if locked := s.lockout.Fail(username); locked > 0 {
			return &LockoutError{Remaining: locked}
		}
	}
	return ErrInvalidCredentials
}

// Logout revokes the token identified by claims.
func (s *Service) Logout(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	if err := s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAtTime()); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	logging.Ctx(ctx).Info().Str("username", claims.Username).Msg("user logged out")
	return nil
}

// Validate parses token and rejects revoked ones.
func (s *Service) Validate(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// AdminClaims are the claims every request carries when AUTH_MODE=none.
func AdminClaims() *Claims {
	return &Claims{Username: "admin", Role: models.RoleAdmin}
}
