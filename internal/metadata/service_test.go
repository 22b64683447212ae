// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package metadata

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/dcsdash/internal/cache"
	"github.com/tomtom215/dcsdash/internal/database"
	"github.com/tomtom215/dcsdash/internal/events"
	"github.com/tomtom215/dcsdash/internal/models"
	"github.com/tomtom215/dcsdash/internal/upstream"
)

type fakeUpstream struct {
	mu    sync.Mutex
	calls int
	res   *upstream.MetaResult
	err   error
}

func (f *fakeUpstream) Meta(context.Context) (*upstream.MetaResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.res, f.err
}

func (f *fakeUpstream) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type memStore struct {
	mu    sync.Mutex
	snaps []models.MetadataSnapshot
}

func (m *memStore) SaveMetadata(_ context.Context, tags []models.Tag, source string) (*models.MetadataSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := models.MetadataSnapshot{Tags: tags, Source: source, UpdatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	m.snaps = append(m.snaps, snap)
	return &snap, nil
}

func (m *memStore) LatestMetadata(context.Context) (*models.MetadataSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.snaps) == 0 {
		return nil, database.ErrNotFound
	}
	snap := m.snaps[len(m.snaps)-1]
	return &snap, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (r *recordingPublisher) Publish(_ context.Context, topic string, _ any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.topics = append(r.topics, topic)
	return nil
}

func sampleTags() []models.Tag {
	return []models.Tag{{TagName: "kepco_power_01", TagDesc: "Feed", Company: "wie"}}
}

func TestService_FetchThenCache(t *testing.T) {
	t.Parallel()

	up := &fakeUpstream{res: &upstream.MetaResult{Message: "fresh", Tags: sampleTags()}}
	store := &memStore{}
	l1 := cache.New("test_meta", time.Minute)
	defer l1.Close()
	pub := &recordingPublisher{}

	svc := NewService(up, store, l1, pub)

	first, err := svc.Get(context.Background(), false)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if first.Cached || first.Message != "fresh" || len(first.Tags) != 1 {
		t.Errorf("first = %+v, want a fresh fetch", first)
	}
	if len(store.snaps) != 1 || store.snaps[0].Source != SourceAPI {
		t.Errorf("snapshots = %+v, want one api snapshot", store.snaps)
	}
	if len(pub.topics) != 1 || pub.topics[0] != events.TopicMetadataRefreshed {
		t.Errorf("published = %v", pub.topics)
	}

	second, err := svc.Get(context.Background(), false)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !second.Cached || second.Message != CachedMessage || second.UpdatedAt.IsZero() {
		t.Errorf("second = %+v, want cached with updated_at", second)
	}
	if up.Calls() != 1 {
		t.Errorf("upstream calls = %d, want 1", up.Calls())
	}
}

func TestService_ForceRefreshBypassesCache(t *testing.T) {
	t.Parallel()

	up := &fakeUpstream{res: &upstream.MetaResult{Message: "ok", Tags: sampleTags()}}
	svc := NewService(up, &memStore{}, nil, nil)

	for range 3 {
		res, err := svc.Get(context.Background(), true)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if res.Cached {
			t.Error("force refresh must not answer from cache")
		}
	}
	if up.Calls() != 3 {
		t.Errorf("upstream calls = %d, want 3", up.Calls())
	}
}

func TestService_StoreTierSurvivesRestart(t *testing.T) {
	t.Parallel()

	store := &memStore{}
	if _, err := store.SaveMetadata(context.Background(), sampleTags(), SourceAPI); err != nil {
		t.Fatal(err)
	}
	up := &fakeUpstream{err: errors.New("must not be called")}

	res, err := NewService(up, store, nil, nil).Get(context.Background(), false)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !res.Cached || len(res.Tags) != 1 {
		t.Errorf("res = %+v, want cached snapshot", res)
	}
	if up.Calls() != 0 {
		t.Errorf("upstream calls = %d, want 0", up.Calls())
	}
}

func TestService_UpstreamFailure(t *testing.T) {
	t.Parallel()

	up := &fakeUpstream{err: upstream.ErrUnavailable}
	svc := NewService(up, &memStore{}, nil, nil)

	if _, err := svc.Get(context.Background(), false); !errors.Is(err, upstream.ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
	if _, err := svc.Tags(context.Background()); err == nil {
		t.Error("Tags must report the upstream failure")
	}
}

func TestService_EmptyResultIsNotStored(t *testing.T) {
	t.Parallel()

	up := &fakeUpstream{res: &upstream.MetaResult{Message: "ok"}}
	store := &memStore{}
	pub := &recordingPublisher{}

	res, err := NewService(up, store, nil, pub).Get(context.Background(), false)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(res.Tags) != 0 || res.Cached {
		t.Errorf("res = %+v", res)
	}
	if len(store.snaps) != 0 || len(pub.topics) != 0 {
		t.Error("an empty tag list must not be stored or announced")
	}
}

func TestService_Invalidate(t *testing.T) {
	t.Parallel()

	up := &fakeUpstream{res: &upstream.MetaResult{Message: "ok", Tags: sampleTags()}}
	l1 := cache.New("test_meta_invalidate", time.Minute)
	defer l1.Close()

	svc := NewService(up, nil, l1, nil)
	if _, err := svc.Get(context.Background(), false); err != nil {
		t.Fatal(err)
	}
	svc.Invalidate()
	if _, err := svc.Get(context.Background(), false); err != nil {
		t.Fatal(err)
	}
	if up.Calls() != 2 {
		t.Errorf("upstream calls = %d, want 2 after invalidate", up.Calls())
	}
}
