package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"referral_leaderboard/internal/model"
	"referral_leaderboard/internal/repository"
)

type LeaderboardService struct {
	repo    LeaderboardRepository
	cache   *SnapshotCache
	mode    IncrementMode
	timeout time.Duration
}

func NewLeaderboardService(repo LeaderboardRepository, cfg Config) *LeaderboardService {
	mode := cfg.IncrementMode
	if mode == "" {
		mode = IncrementFromSnapshot
	}

	return &LeaderboardService{
		repo:    repo,
		cache:   NewSnapshotCache(repo, cfg.StoreTimeout),
		mode:    mode,
		timeout: cfg.StoreTimeout,
	}
}

func (s *LeaderboardService) Snapshots() *SnapshotCache {
	return s.cache
}

// Leaderboard returns the cached snapshot, loading it on first use.
func (s *LeaderboardService) Leaderboard(ctx context.Context) (model.Snapshot, error) {
	if snapshot, ok := s.cache.Get(); ok {
		return snapshot, nil
	}
	return s.cache.InvalidateAndReload(ctx)
}

func (s *LeaderboardService) Refresh(ctx context.Context) (model.Snapshot, error) {
	return s.cache.InvalidateAndReload(ctx)
}

func (s *LeaderboardService) LastKnownGood() model.Snapshot {
	return s.cache.LastKnownGood()
}

// Increment adds one referral to an entry of the loaded leaderboard and
// reloads it. Ids that are not in the loaded leaderboard are rejected without
// a store call.
//
// In snapshot mode the new value is computed from the loaded snapshot, not
// from the store, so concurrent increments of the same entry can be lost.
func (s *LeaderboardService) Increment(ctx context.Context, id string) (model.Snapshot, error) {
	const op = "increment"

	snapshot, err := s.Leaderboard(ctx)
	if err != nil {
		return snapshot, err
	}

	entry, ok := snapshot.Find(id)
	if !ok {
		return snapshot, &WriteError{Op: op, ID: id, Err: ErrEntryNotLoaded}
	}

	err = s.withTimeout(ctx, func(ctx context.Context) error {
		if s.mode == IncrementAtomic {
			_, err := s.repo.IncrementReferralCount(ctx, id)
			return err
		}
		return s.repo.SetReferralCount(ctx, id, entry.ReferralCount+1)
	})
	if err != nil {
		return s.cache.LastKnownGood(), writeError(op, id, err)
	}

	return s.cache.InvalidateAndReload(ctx)
}

// AddUser appends a new entry with zero referrals. Blank names are rejected
// without touching the store; duplicate names are allowed.
func (s *LeaderboardService) AddUser(ctx context.Context, userID string) (model.Snapshot, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return s.cache.LastKnownGood(), &ValidationError{Field: "user_id", Reason: "must not be blank"}
	}

	err := s.withTimeout(ctx, func(ctx context.Context) error {
		_, err := s.repo.CreateEntry(ctx, userID)
		return err
	})
	if err != nil {
		return s.cache.LastKnownGood(), writeError("add user", "", err)
	}

	return s.cache.InvalidateAndReload(ctx)
}

func (s *LeaderboardService) withTimeout(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.timeout <= 0 {
		return fn(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return fn(ctx)
}

func writeError(op, id string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		err = ErrEntryNotFound
	}
	return &WriteError{Op: op, ID: id, Err: err}
}
