package sync

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jassimshanavas/time-management-sub000/internal/domain/events"
	"github.com/jassimshanavas/time-management-sub000/internal/domain/gamification"
	"github.com/jassimshanavas/time-management-sub000/internal/domain/habit"
	"github.com/jassimshanavas/time-management-sub000/internal/domain/task"
)

// LoadGamification fetches the user's progression record, creating a fresh
// one at level 1 when the remote has none yet.
func (s *Store) LoadGamification(ctx context.Context) error {
	s.mu.RLock()
	userID := s.userID
	s.mu.RUnlock()
	if userID == uuid.Nil {
		return nil
	}
	record, err := s.remote.GetGamification(ctx, userID)
	if err != nil {
		if !IsNotFound(err) {
			remoteFailures.WithLabelValues("gamification", "load").Inc()
			s.logger.Error("failed to load gamification record", zap.Error(err))
			return err
		}
		record = gamification.NewUserGamification(userID)
	}
	s.mu.Lock()
	s.progress = record
	s.mu.Unlock()
	return nil
}

// Gamification returns a snapshot of the user's progression record, nil
// when none is loaded.
func (s *Store) Gamification() *gamification.UserGamification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.progress == nil {
		return nil
	}
	snapshot := *s.progress
	snapshot.Achievements = make([]gamification.Achievement, len(s.progress.Achievements))
	copy(snapshot.Achievements, s.progress.Achievements)
	return &snapshot
}

// RecordLogin stamps today as the last login and maintains the daily login
// streak feeding streak-category achievements.
func (s *Store) RecordLogin(ctx context.Context) {
	s.mutateProgress(ctx, func(g *gamification.UserGamification) {
		now := s.now()
		today := habit.DayOf(now)
		if g.LastLoginDate != nil {
			last := habit.DayOf(*g.LastLoginDate)
			switch last {
			case today:
				return
			case habit.DayOf(now.AddDate(0, 0, -1)):
				g.Stats.CurrentStreak++
			default:
				g.Stats.CurrentStreak = 1
			}
		} else {
			g.Stats.CurrentStreak = 1
		}
		if g.Stats.CurrentStreak > g.Stats.LongestStreak {
			g.Stats.LongestStreak = g.Stats.CurrentStreak
		}
		login := now
		g.LastLoginDate = &login
	})
}

// onTaskCompleted awards XP for the finished task and bumps the task
// counters, including the early bird and night owl buckets.
func (s *Store) onTaskCompleted(ctx context.Context, userID uuid.UUID, t task.Task) {
	reward := gamification.TaskXPReward(t.Priority)
	hour := s.now().Hour()
	s.mutateProgress(ctx, func(g *gamification.UserGamification) {
		g.AddXP(reward.Amount)
		g.Stats.TotalTasksCompleted++
		if hour < 8 {
			g.Stats.EarlyBirdTasks++
		}
		if hour >= 22 {
			g.Stats.NightOwlTasks++
		}
	})
	xpAwarded.Add(float64(reward.Amount))
	s.logger.Info("task completion rewarded",
		zap.String("task_id", t.ID.String()),
		zap.Int("xp", reward.Amount),
		zap.String("message", reward.Message))
}

// onGoalCompleted bumps the completed goal counter.
func (s *Store) onGoalCompleted(ctx context.Context, userID uuid.UUID) {
	s.mutateProgress(ctx, func(g *gamification.UserGamification) {
		g.Stats.TotalGoalsCompleted++
	})
}

// onHabitCompleted bumps habit counters and folds the habit's streak into
// the user-wide streak stats.
func (s *Store) onHabitCompleted(ctx context.Context, userID uuid.UUID, h habit.Habit) {
	s.mutateProgress(ctx, func(g *gamification.UserGamification) {
		g.Stats.TotalHabitsCompleted++
		if h.Streak > g.Stats.CurrentStreak {
			g.Stats.CurrentStreak = h.Streak
		}
		if h.LongestStreak > g.Stats.LongestStreak {
			g.Stats.LongestStreak = h.LongestStreak
		}
	})
}

// onTimeTracked accumulates tracked minutes.
func (s *Store) onTimeTracked(ctx context.Context, userID uuid.UUID, minutes int) {
	if minutes <= 0 {
		return
	}
	s.mutateProgress(ctx, func(g *gamification.UserGamification) {
		g.Stats.TotalTimeTracked += minutes
	})
}

// mutateProgress applies a stats/XP mutation, reruns the achievement check,
// persists the record, and fans out unlock notifications. Persistence is
// best effort: the triggering operation already succeeded, so a failure
// here is logged, never surfaced.
func (s *Store) mutateProgress(ctx context.Context, fn func(*gamification.UserGamification)) {
	if !s.gamification {
		return
	}
	s.mu.Lock()
	if s.userID == uuid.Nil {
		s.mu.Unlock()
		return
	}
	if s.progress == nil {
		s.progress = gamification.NewUserGamification(s.userID)
	}
	levelBefore := s.progress.Level
	previous := s.progress.Achievements

	fn(s.progress)

	now := s.now()
	s.progress.Achievements = gamification.CheckAchievements(s.progress.Stats, previous, now)
	s.progress.UpdatedAt = now
	unlocked := gamification.NewlyUnlocked(previous, s.progress.Achievements)
	leveledUp := s.progress.Level > levelBefore
	snapshot := *s.progress
	userID := s.userID
	s.mu.Unlock()

	if err := s.remote.SaveGamification(ctx, &snapshot); err != nil {
		remoteFailures.WithLabelValues("gamification", "save").Inc()
		s.logger.Error("failed to persist gamification record",
			zap.String("user_id", userID.String()), zap.Error(err))
	}

	if leveledUp {
		s.publish(ctx, events.EventTypeLevelUp, "gamification", uuid.Nil, userID, map[string]interface{}{
			"level": snapshot.Level,
		})
	}
	for _, a := range unlocked {
		achievementsUnlocked.Inc()
		s.logger.Info("achievement unlocked",
			zap.String("user_id", userID.String()),
			zap.String("achievement_id", a.ID),
			zap.String("tier", string(a.Tier)))
		s.publish(ctx, events.EventTypeAchievementUnlock, "gamification", uuid.Nil, userID, map[string]interface{}{
			"achievement_id": a.ID,
			"title":          a.Title,
		})
		s.notifyUnlock(ctx, userID, a)
	}
}

// notifyUnlock pushes an unlock onto the broker for notification consumers.
func (s *Store) notifyUnlock(ctx context.Context, userID uuid.UUID, a gamification.Achievement) {
	if s.broker == nil {
		return
	}
	payload, err := json.Marshal(a)
	if err != nil {
		return
	}
	attrs := map[string]string{"user_id": userID.String(), "achievement_id": a.ID}
	if err := s.broker.Publish(ctx, AchievementTopic, payload, attrs); err != nil {
		s.logger.Error("failed to publish achievement unlock",
			zap.String("achievement_id", a.ID), zap.Error(err))
	}
}

// RolloverDay recomputes every habit streak against the new calendar day
// and maintains the perfect-day counter. Run by the scheduler at midnight.
func (s *Store) RolloverDay(ctx context.Context) {
	s.mu.Lock()
	if s.userID == uuid.Nil {
		s.mu.Unlock()
		return
	}
	now := s.now()
	yesterday := habit.DayOf(now.AddDate(0, 0, -1))
	perfect := len(s.habits) > 0
	var changed []habit.Habit
	for i := range s.habits {
		if !s.habits[i].CompletedDates.Contains(yesterday) {
			perfect = false
		}
		streak := s.habits[i].CompletedDates.StreakEndingAt(now)
		if streak != s.habits[i].Streak {
			s.habits[i].Streak = streak
			s.habits[i].UpdatedAt = now
			changed = append(changed, s.habits[i])
		}
	}
	s.mu.Unlock()

	for _, h := range changed {
		if err := s.remote.UpdateHabit(ctx, &h); err != nil {
			remoteFailures.WithLabelValues("habit", "update").Inc()
			s.logger.Error("failed to persist rolled-over streak",
				zap.String("habit_id", h.ID.String()), zap.Error(err))
		}
	}

	s.mutateProgress(ctx, func(g *gamification.UserGamification) {
		if perfect {
			g.Stats.ConsecutivePerfectDays++
		} else {
			g.Stats.ConsecutivePerfectDays = 0
		}
	})
}
