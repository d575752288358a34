// Package scheduler reloads the leaderboard on a fixed interval so that
// writes made by other clients reach open pages without a user action.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"referral_leaderboard/internal/model"
	"referral_leaderboard/pkg/logger"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

type Refresher interface {
	Refresh(ctx context.Context) (model.Snapshot, error)
}

type Scheduler struct {
	sched gocron.Scheduler
}

// New returns a started scheduler, or nil when interval is not positive.
func New(r Refresher, interval time.Duration) (*Scheduler, error) {
	if interval <= 0 {
		return nil, nil
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			refresh(context.Background(), r)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("failed to schedule leaderboard refresh: %w", err)
	}

	sched.Start()

	return &Scheduler{sched: sched}, nil
}

func (s *Scheduler) Shutdown() error {
	if s == nil {
		return nil
	}
	return s.sched.Shutdown()
}

func refresh(ctx context.Context, r Refresher) {
	snapshot, err := r.Refresh(ctx)
	if err != nil {
		logger.Logger().Warn("scheduled leaderboard refresh failed", zap.Error(err))
		return
	}

	logger.Logger().Debug("leaderboard refreshed", zap.Int("entries", snapshot.Len()))
}
