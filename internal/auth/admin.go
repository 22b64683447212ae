// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/dcsdash/internal/database"
	"github.com/tomtom215/dcsdash/internal/models"
)

// AccountStore creates and replaces accounts.
type AccountStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	ReplaceUser(ctx context.Context, u *models.User) error
	CountUsers(ctx context.Context) (int, error)
}

// UpsertAdmin stores an admin account. With reset an existing account of
// the same name is replaced; without it an existing account is an
// ErrConflict.
func UpsertAdmin(ctx context.Context, store AccountStore, username, password string, reset bool) error {
	if username == "" {
		return fmt.Errorf("admin username is required")
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	u := &models.User{Username: username, PasswordHash: hash, Role: models.RoleAdmin}
	if reset {
		return store.ReplaceUser(ctx, u)
	}
	return store.CreateUser(ctx, u)
}

// EnsureAdmin seeds an admin account when the store has none and a
// password is configured. It reports whether an account was created.
func EnsureAdmin(ctx context.Context, store AccountStore, username, password string) (bool, error) {
	if password == "" {
		return false, nil
	}
	n, err := store.CountUsers(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if err := UpsertAdmin(ctx, store, username, password, false); err != nil {
		if errors.Is(err, database.ErrConflict) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
