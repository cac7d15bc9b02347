package sync

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jassimshanavas/time-management-sub000/internal/domain/events"
	"github.com/jassimshanavas/time-management-sub000/internal/domain/habit"
)

// LoadHabits fetches the user's habits and replaces the local list.
func (s *Store) LoadHabits(ctx context.Context) error {
	s.mu.RLock()
	userID := s.userID
	s.mu.RUnlock()
	if userID == uuid.Nil {
		return nil
	}
	habits, err := s.remote.ListHabits(ctx, userID)
	if err != nil {
		remoteFailures.WithLabelValues("habit", "load").Inc()
		s.logger.Error("failed to load habits", zap.Error(err))
		return err
	}
	s.mu.Lock()
	s.habits = habits
	s.mu.Unlock()
	return nil
}

// AddHabit writes the habit remotely first, then appends it locally.
func (s *Store) AddHabit(ctx context.Context, input habit.CreateHabitInput) (*habit.Habit, error) {
	s.mu.RLock()
	userID := s.userID
	s.mu.RUnlock()
	if userID == uuid.Nil {
		return nil, nil
	}

	now := s.now()
	h := habit.Habit{
		UserID:    userID,
		Title:     input.Title,
		Frequency: input.Frequency,
		ProjectID: input.ProjectID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if h.Frequency == "" {
		h.Frequency = habit.FrequencyDaily
	}

	if err := s.remote.AddHabit(ctx, &h); err != nil {
		remoteFailures.WithLabelValues("habit", "add").Inc()
		s.logger.Error("failed to add habit", zap.String("title", input.Title), zap.Error(err))
		return nil, err
	}

	s.mu.Lock()
	s.habits = append(s.habits, h)
	s.mu.Unlock()
	s.publish(ctx, events.EventTypeEntityAdded, "habit", h.ID, userID, nil)
	return &h, nil
}

// UpdateHabit optimistically applies the patch, then reconciles.
func (s *Store) UpdateHabit(ctx context.Context, id uuid.UUID, input habit.UpdateHabitInput) error {
	s.mu.Lock()
	if s.userID == uuid.Nil {
		s.mu.Unlock()
		return nil
	}
	idx := s.findHabit(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	before := s.habits[idx]
	s.habits[idx].Apply(input, s.now())
	patched := s.habits[idx]
	userID := s.userID
	s.mu.Unlock()

	optimisticUpdates.WithLabelValues("habit").Inc()

	if err := s.remote.UpdateHabit(ctx, &patched); err != nil {
		remoteFailures.WithLabelValues("habit", "update").Inc()
		if IsNotFound(err) {
			s.pruneHabit(ctx, id, userID)
			return nil
		}
		if s.policy == ConflictRollback {
			s.restoreHabit(id, before)
		}
		return err
	}

	s.publish(ctx, events.EventTypeEntityUpdated, "habit", id, userID, nil)
	return nil
}

// ToggleHabitCompletion flips the completion state for the calendar day of
// the given instant and recomputes both streak fields against today. The
// date set, streak, and longest streak are persisted together; callers see
// the three change atomically.
func (s *Store) ToggleHabitCompletion(ctx context.Context, id uuid.UUID, date time.Time) error {
	s.mu.Lock()
	if s.userID == uuid.Nil {
		s.mu.Unlock()
		return nil
	}
	idx := s.findHabit(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	before := s.habits[idx]
	wasCompleted := before.CompletedDates.Contains(habit.DayOf(date))
	now := s.now()
	s.habits[idx].ToggleCompletion(date, now)
	s.habits[idx].UpdatedAt = now
	patched := s.habits[idx]
	userID := s.userID
	s.mu.Unlock()

	optimisticUpdates.WithLabelValues("habit").Inc()

	if err := s.remote.UpdateHabit(ctx, &patched); err != nil {
		remoteFailures.WithLabelValues("habit", "update").Inc()
		if IsNotFound(err) {
			s.pruneHabit(ctx, id, userID)
			return nil
		}
		if s.policy == ConflictRollback {
			s.restoreHabit(id, before)
		}
		return err
	}

	s.publish(ctx, events.EventTypeEntityUpdated, "habit", id, userID, map[string]interface{}{
		"streak":         patched.Streak,
		"longest_streak": patched.LongestStreak,
	})
	if !wasCompleted {
		s.onHabitCompleted(ctx, userID, patched)
	}
	return nil
}

// DeleteHabit removes the habit remotely first, locally on success.
func (s *Store) DeleteHabit(ctx context.Context, id uuid.UUID) error {
	s.mu.RLock()
	userID := s.userID
	s.mu.RUnlock()
	if userID == uuid.Nil {
		return nil
	}

	if err := s.remote.DeleteHabit(ctx, id); err != nil && !IsNotFound(err) {
		remoteFailures.WithLabelValues("habit", "delete").Inc()
		s.logger.Error("failed to delete habit", zap.String("habit_id", id.String()), zap.Error(err))
		return err
	}

	s.mu.Lock()
	if idx := s.findHabit(id); idx >= 0 {
		s.habits = append(s.habits[:idx], s.habits[idx+1:]...)
	}
	s.mu.Unlock()
	s.publish(ctx, events.EventTypeEntityDeleted, "habit", id, userID, nil)
	return nil
}

func (s *Store) pruneHabit(ctx context.Context, id, userID uuid.UUID) {
	s.mu.Lock()
	if idx := s.findHabit(id); idx >= 0 {
		s.habits = append(s.habits[:idx], s.habits[idx+1:]...)
	}
	s.mu.Unlock()
	selfHeals.WithLabelValues("habit").Inc()
	s.logger.Warn("pruned habit missing from remote", zap.String("habit_id", id.String()))
	s.publish(ctx, events.EventTypeEntityPruned, "habit", id, userID, nil)
}

func (s *Store) restoreHabit(id uuid.UUID, before habit.Habit) {
	s.mu.Lock()
	if idx := s.findHabit(id); idx >= 0 {
		s.habits[idx] = before
	}
	s.mu.Unlock()
	rollbacks.WithLabelValues("habit").Inc()
}

func (s *Store) findHabit(id uuid.UUID) int {
	for i := range s.habits {
		if s.habits[i].ID == id {
			return i
		}
	}
	return -1
}
