// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package auth

import (
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/dcsdash/internal/logging"
)

// lockoutEntry tracks failed login attempts for one username.
type lockoutEntry struct {
	failedAttempts int
	lastAttempt    time.Time
	lockedUntil    time.Time
}

// Lockout locks a username after too many consecutive failures.
// State is in memory and resets on restart.
type Lockout struct {
	maxAttempts int
	duration    time.Duration

	mu      sync.Mutex
	entries map[string]*lockoutEntry
	now     func() time.Time
}

// NewLockout locks a username for duration after maxAttempts failures.
func NewLockout(maxAttempts int, duration time.Duration) *Lockout {
	return &Lockout{
		maxAttempts: maxAttempts,
		duration:    duration,
		entries:     make(map[string]*lockoutEntry),
		now:         time.Now,
	}
}

// Check returns the remaining lock time, or 0 when username may log in.
func (l *Lockout) Check(username string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[lockoutKey(username)]
	if !ok {
		return 0
	}
	if remaining := e.lockedUntil.Sub(l.now()); remaining > 0 {
		return remaining
	}
	return 0
}

// Fail records a failed attempt and returns the lock time it caused, or 0.
func (l *Lockout) Fail(username string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	key := lockoutKey(username)
	e, ok := l.entries[key]
	if !ok {
		e = &lockoutEntry{}
		l.entries[key] = e
	}
	// A lapsed lock starts a fresh cycle.
	if !e.lockedUntil.IsZero() && !now.Before(e.lockedUntil) {
		*e = lockoutEntry{}
	}

	e.failedAttempts++
	e.lastAttempt = now
	if e.failedAttempts < l.maxAttempts {
		return 0
	}

	e.lockedUntil = now.Add(l.duration)
	e.failedAttempts = 0
	logging.Warn().
		Str("username", username).
		Dur("duration", l.duration).
		Msg("account locked")
	return l.duration
}

// Reset clears the state of username after a successful login.
func (l *Lockout) Reset(username string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, lockoutKey(username))
}

// Cleanup drops entries whose lock lapsed and whose last attempt is older
// than the lock duration. It returns the number removed.
func (l *Lockout) Cleanup() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for key, e := range l.entries {
		if now.After(e.lockedUntil) && now.Sub(e.lastAttempt) > l.duration {
			delete(l.entries, key)
			removed++
		}
	}
	return removed
}

func lockoutKey(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
