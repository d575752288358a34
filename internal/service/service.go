package service

import (
	"context"
	"fmt"
	"time"

	"referral_leaderboard/internal/model"
)

type IncrementMode string

const (
	// IncrementFromSnapshot writes the loaded count plus one. Two increments
	// issued against the same snapshot both write the same value and one is
	// lost.
	IncrementFromSnapshot IncrementMode = "snapshot"
	// IncrementAtomic asks the store to add one to whatever it holds.
	IncrementAtomic IncrementMode = "atomic"
)

func ParseIncrementMode(s string) (IncrementMode, error) {
	switch IncrementMode(s) {
	case "", IncrementFromSnapshot:
		return IncrementFromSnapshot, nil
	case IncrementAtomic:
		return IncrementAtomic, nil
	default:
		return "", fmt.Errorf("unknown increment mode %q", s)
	}
}

type Config struct {
	IncrementMode IncrementMode
	StoreTimeout  time.Duration
}

type LeaderboardServiceI interface {
	Leaderboard(ctx context.Context) (model.Snapshot, error)
	Refresh(ctx context.Context) (model.Snapshot, error)
	Increment(ctx context.Context, id string) (model.Snapshot, error)
	AddUser(ctx context.Context, userID string) (model.Snapshot, error)
	LastKnownGood() model.Snapshot
}

type LeaderboardRepository interface {
	ListEntries(ctx context.Context) ([]*model.Entry, error)
	SetReferralCount(ctx context.Context, id string, count int) error
	IncrementReferralCount(ctx context.Context, id string) (int, error)
	CreateEntry(ctx context.Context, userID string) (*model.Entry, error)
}
