// Package scheduler runs the daily rollover: at each local midnight habit
// streaks are recomputed against the new calendar day and the perfect-day
// counter is maintained.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jassimshanavas/time-management-sub000/internal/sync"
	"github.com/jassimshanavas/time-management-sub000/pkg/logger"
)

type Scheduler struct {
	store  *sync.Store
	logger *logger.Logger
	stop   chan struct{}
}

func NewScheduler(store *sync.Store, logger *logger.Logger) *Scheduler {
	return &Scheduler{
		store:  store,
		logger: logger,
		stop:   make(chan struct{}),
	}
}

// Start kicks off the midnight loop. Runs until Stop is called.
func (s *Scheduler) Start() {
	now := time.Now()
	nextMidnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	untilMidnight := nextMidnight.Sub(now)

	s.logger.Info("daily rollover scheduler initialized",
		zap.Time("next_run", nextMidnight),
		zap.Duration("time_until_next_run", untilMidnight),
	)

	go func() {
		timer := time.NewTimer(untilMidnight)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-s.stop:
			return
		}
		s.runRollover()

		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.runRollover()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop halts the loop. Safe to call once.
func (s *Scheduler) Stop() {
	close(s.stop)
}

func (s *Scheduler) runRollover() {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	s.store.RolloverDay(ctx)

	s.logger.Info("daily rollover completed",
		zap.Duration("elapsed", time.Since(start)))
}
