// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/dcsdash/internal/config"
	"github.com/tomtom215/dcsdash/internal/logging"
)

const (
	revokedKeyPrefix = "revoked:"

	// gcInterval is how often the value log is compacted.
	gcInterval = 10 * time.Minute
	gcRatio    = 0.5
)

// RevocationStore remembers logged-out token IDs until the tokens expire.
type RevocationStore struct {
	db       *badger.DB
	inMemory bool
	now      func() time.Time
}

// OpenRevocationStore opens the BadgerDB at cfg.Path, or an in-memory
// instance when cfg.InMemory is set.
func OpenRevocationStore(cfg *config.KVConfig) (*RevocationStore, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create badger directory: %w", err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for revocations: %w", err)
	}
	return &RevocationStore{db: db, inMemory: cfg.InMemory, now: time.Now}, nil
}

// Revoke marks jti as revoked until expiresAt. Already expired tokens
// are not stored.
func (s *RevocationStore) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(revokedKeyPrefix+jti), []byte(expiresAt.UTC().Format(time.RFC3339))).WithTTL(ttl)
		if err := txn.SetEntry(e); err != nil {
			return fmt.Errorf("revoke token: %w", err)
		}
		return nil
	})
}

// IsRevoked reports whether jti was revoked.
func (s *RevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(revokedKeyPrefix + jti))
		return err
	})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, badger.ErrKeyNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("check revocation: %w", err)
	}
}

// Count returns the number of live revocations.
func (s *RevocationStore) Count() (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(revokedKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// Serve compacts the value log periodically until ctx is done.
func (s *RevocationStore) Serve(ctx context.Context) error {
	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.RunGC(); err != nil {
				logging.Warn().Err(err).Msg("badger value log GC failed")
			}
		}
	}
}

// String names the GC loop in supervisor logs.
func (s *RevocationStore) String() string {
	return "revocation-gc"
}

// RunGC rewrites value log files until nothing more can be reclaimed.
func (s *RevocationStore) RunGC() error {
	if s.inMemory {
		return nil
	}
	for {
		err := s.db.RunValueLogGC(gcRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
	}
}

// Close closes the database.
func (s *RevocationStore) Close() error {
	return s.db.Close()
}
