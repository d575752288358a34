package service

import (
	"context"
	"sync"
	"time"

	"referral_leaderboard/internal/model"
	"referral_leaderboard/internal/ranking"
)

type EntryLister interface {
	ListEntries(ctx context.Context) ([]*model.Entry, error)
}

// SnapshotCache holds the last successfully fetched, ranked leaderboard. A
// reload replaces it wholesale; a failed reload leaves it as it was.
type SnapshotCache struct {
	lister  EntryLister
	timeout time.Duration
	now     func() time.Time

	// reloadMu serializes reloads so an older fetch cannot overwrite a newer one.
	reloadMu sync.Mutex

	mu        sync.RWMutex
	current   model.Snapshot
	loaded    bool
	listeners []func(model.Snapshot)
}

func NewSnapshotCache(lister EntryLister, timeout time.Duration) *SnapshotCache {
	return &SnapshotCache{
		lister:  lister,
		timeout: timeout,
		now:     time.Now,
		current: model.Snapshot{Entries: []model.RankedEntry{}},
	}
}

// Get returns the current snapshot and whether one was ever loaded.
func (c *SnapshotCache) Get() (model.Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.current, c.loaded
}

func (c *SnapshotCache) LastKnownGood() model.Snapshot {
	s, _ := c.Get()
	return s
}

// OnReload registers fn to be called after every successful reload.
func (c *SnapshotCache) OnReload(fn func(model.Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.listeners = append(c.listeners, fn)
}

// InvalidateAndReload fetches the whole collection and ranks it. On failure
// it returns the last known good snapshot with a *FetchError.
func (c *SnapshotCache) InvalidateAndReload(ctx context.Context) (model.Snapshot, error) {
	c.reloadMu.Lock()
	defer c.reloadMu.Unlock()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	rows, err := c.lister.ListEntries(ctx)
	if err != nil {
		return c.LastKnownGood(), &FetchError{Err: err}
	}

	entries := make([]model.Entry, len(rows))
	for i, row := range rows {
		entries[i] = *row
	}

	snapshot := model.Snapshot{
		Entries:   ranking.Assign(entries),
		FetchedAt: c.now(),
	}

	c.mu.Lock()
	c.current = snapshot
	c.loaded = true
	listeners := make([]func(model.Snapshot), len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}

	return snapshot, nil
}
