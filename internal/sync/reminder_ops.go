package sync

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jassimshanavas/time-management-sub000/internal/domain/events"
	"github.com/jassimshanavas/time-management-sub000/internal/domain/reminder"
)

// LoadReminders fetches the user's reminders and replaces the local list.
func (s *Store) LoadReminders(ctx context.Context) error {
	s.mu.RLock()
	userID := s.userID
	s.mu.RUnlock()
	if userID == uuid.Nil {
		return nil
	}
	reminders, err := s.remote.ListReminders(ctx, userID)
	if err != nil {
		remoteFailures.WithLabelValues("reminder", "load").Inc()
		s.logger.Error("failed to load reminders", zap.Error(err))
		return err
	}
	s.mu.Lock()
	s.reminders = reminders
	s.mu.Unlock()
	return nil
}

// AddReminder writes the reminder remotely first, then appends it locally.
func (s *Store) AddReminder(ctx context.Context, input reminder.CreateReminderInput) (*reminder.Reminder, error) {
	s.mu.RLock()
	userID := s.userID
	s.mu.RUnlock()
	if userID == uuid.Nil {
		return nil, nil
	}

	now := s.now()
	r := reminder.Reminder{
		UserID:    userID,
		Title:     input.Title,
		RemindAt:  input.RemindAt,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.remote.AddReminder(ctx, &r); err != nil {
		remoteFailures.WithLabelValues("reminder", "add").Inc()
		s.logger.Error("failed to add reminder", zap.String("title", input.Title), zap.Error(err))
		return nil, err
	}

	s.mu.Lock()
	s.reminders = append(s.reminders, r)
	s.mu.Unlock()
	s.publish(ctx, events.EventTypeEntityAdded, "reminder", r.ID, userID, nil)
	return &r, nil
}

// UpdateReminder optimistically applies the patch, then reconciles.
func (s *Store) UpdateReminder(ctx context.Context, id uuid.UUID, input reminder.UpdateReminderInput) error {
	s.mu.Lock()
	if s.userID == uuid.Nil {
		s.mu.Unlock()
		return nil
	}
	idx := s.findReminder(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	before := s.reminders[idx]
	s.reminders[idx].Apply(input, s.now())
	patched := s.reminders[idx]
	userID := s.userID
	s.mu.Unlock()

	optimisticUpdates.WithLabelValues("reminder").Inc()

	if err := s.remote.UpdateReminder(ctx, &patched); err != nil {
		remoteFailures.WithLabelValues("reminder", "update").Inc()
		if IsNotFound(err) {
			s.pruneReminder(ctx, id, userID)
			return nil
		}
		if s.policy == ConflictRollback {
			s.restoreReminder(id, before)
		}
		return err
	}

	s.publish(ctx, events.EventTypeEntityUpdated, "reminder", id, userID, nil)
	return nil
}

// DeleteReminder removes the reminder remotely first, locally on success.
func (s *Store) DeleteReminder(ctx context.Context, id uuid.UUID) error {
	s.mu.RLock()
	userID := s.userID
	s.mu.RUnlock()
	if userID == uuid.Nil {
		return nil
	}

	if err := s.remote.DeleteReminder(ctx, id); err != nil && !IsNotFound(err) {
		remoteFailures.WithLabelValues("reminder", "delete").Inc()
		s.logger.Error("failed to delete reminder", zap.String("reminder_id", id.String()), zap.Error(err))
		return err
	}

	s.mu.Lock()
	if idx := s.findReminder(id); idx >= 0 {
		s.reminders = append(s.reminders[:idx], s.reminders[idx+1:]...)
	}
	s.mu.Unlock()
	s.publish(ctx, events.EventTypeEntityDeleted, "reminder", id, userID, nil)
	return nil
}

func (s *Store) pruneReminder(ctx context.Context, id, userID uuid.UUID) {
	s.mu.Lock()
	if idx := s.findReminder(id); idx >= 0 {
		s.reminders = append(s.reminders[:idx], s.reminders[idx+1:]...)
	}
	s.mu.Unlock()
	selfHeals.WithLabelValues("reminder").Inc()
	s.logger.Warn("pruned reminder missing from remote", zap.String("reminder_id", id.String()))
	s.publish(ctx, events.EventTypeEntityPruned, "reminder", id, userID, nil)
}

func (s *Store) restoreReminder(id uuid.UUID, before reminder.Reminder) {
	s.mu.Lock()
	if idx := s.findReminder(id); idx >= 0 {
		s.reminders[idx] = before
	}
	s.mu.Unlock()
	rollbacks.WithLabelValues("reminder").Inc()
}

func (s *Store) findReminder(id uuid.UUID) int {
	for i := range s.reminders {
		if s.reminders[i].ID == id {
			return i
		}
	}
	return -1
}
