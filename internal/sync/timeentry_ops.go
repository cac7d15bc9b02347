package sync

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jassimshanavas/time-management-sub000/internal/domain/events"
	"github.com/jassimshanavas/time-management-sub000/internal/domain/timeentry"
)

// LoadTimeEntries fetches the user's time entries and replaces the local
// list.
func (s *Store) LoadTimeEntries(ctx context.Context) error {
	s.mu.RLock()
	userID := s.userID
	s.mu.RUnlock()
	if userID == uuid.Nil {
		return nil
	}
	entries, err := s.remote.ListTimeEntries(ctx, userID)
	if err != nil {
		remoteFailures.WithLabelValues("time_entry", "load").Inc()
		s.logger.Error("failed to load time entries", zap.Error(err))
		return err
	}
	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	return nil
}

// AddTimeEntry writes the entry remotely first, then appends it locally.
// Keeping at most one running entry per user is caller policy, the store
// does not enforce it.
func (s *Store) AddTimeEntry(ctx context.Context, input timeentry.CreateTimeEntryInput) (*timeentry.TimeEntry, error) {
	s.mu.RLock()
	userID := s.userID
	s.mu.RUnlock()
	if userID == uuid.Nil {
		return nil, nil
	}

	now := s.now()
	e := timeentry.TimeEntry{
		UserID:      userID,
		Category:    input.Category,
		Description: input.Description,
		TaskID:      input.TaskID,
		ProjectID:   input.ProjectID,
		StartTime:   input.StartTime,
		IsRunning:   input.IsRunning,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if e.StartTime.IsZero() {
		e.StartTime = now
	}

	if err := s.remote.AddTimeEntry(ctx, &e); err != nil {
		remoteFailures.WithLabelValues("time_entry", "add").Inc()
		s.logger.Error("failed to add time entry", zap.String("category", input.Category), zap.Error(err))
		return nil, err
	}

	s.mu.Lock()
	s.entries = append(s.entries, e)
	s.mu.Unlock()
	s.publish(ctx, events.EventTypeEntityAdded, "time_entry", e.ID, userID, nil)
	return &e, nil
}

// UpdateTimeEntry optimistically applies the patch, then reconciles.
func (s *Store) UpdateTimeEntry(ctx context.Context, id uuid.UUID, input timeentry.UpdateTimeEntryInput) error {
	s.mu.Lock()
	if s.userID == uuid.Nil {
		s.mu.Unlock()
		return nil
	}
	idx := s.findTimeEntry(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	before := s.entries[idx]
	s.entries[idx].Apply(input, s.now())
	patched := s.entries[idx]
	userID := s.userID
	s.mu.Unlock()

	optimisticUpdates.WithLabelValues("time_entry").Inc()

	if err := s.remote.UpdateTimeEntry(ctx, &patched); err != nil {
		remoteFailures.WithLabelValues("time_entry", "update").Inc()
		if IsNotFound(err) {
			s.pruneTimeEntry(ctx, id, userID)
			return nil
		}
		if s.policy == ConflictRollback {
			s.restoreTimeEntry(id, before)
		}
		return err
	}

	s.publish(ctx, events.EventTypeEntityUpdated, "time_entry", id, userID, nil)
	return nil
}

// StopTimeEntry finalizes a running entry: end time is now, duration is the
// whole number of elapsed minutes, and the running flag clears. Missing or
// already stopped entries are a no-op.
func (s *Store) StopTimeEntry(ctx context.Context, id uuid.UUID, notes string) error {
	s.mu.Lock()
	if s.userID == uuid.Nil {
		s.mu.Unlock()
		return nil
	}
	idx := s.findTimeEntry(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	before := s.entries[idx]
	if !s.entries[idx].Stop(s.now(), notes) {
		s.mu.Unlock()
		return nil
	}
	patched := s.entries[idx]
	userID := s.userID
	s.mu.Unlock()

	optimisticUpdates.WithLabelValues("time_entry").Inc()

	if err := s.remote.UpdateTimeEntry(ctx, &patched); err != nil {
		remoteFailures.WithLabelValues("time_entry", "update").Inc()
		if IsNotFound(err) {
			s.pruneTimeEntry(ctx, id, userID)
			return nil
		}
		if s.policy == ConflictRollback {
			s.restoreTimeEntry(id, before)
		}
		return err
	}

	s.publish(ctx, events.EventTypeEntityUpdated, "time_entry", id, userID, map[string]interface{}{
		"duration": patched.Duration,
	})
	if patched.Duration != nil {
		s.onTimeTracked(ctx, userID, *patched.Duration)
	}
	return nil
}

// DeleteTimeEntry removes the entry remotely first, locally on success.
func (s *Store) DeleteTimeEntry(ctx context.Context, id uuid.UUID) error {
	s.mu.RLock()
	userID := s.userID
	s.mu.RUnlock()
	if userID == uuid.Nil {
		return nil
	}

	if err := s.remote.DeleteTimeEntry(ctx, id); err != nil && !IsNotFound(err) {
		remoteFailures.WithLabelValues("time_entry", "delete").Inc()
		s.logger.Error("failed to delete time entry", zap.String("entry_id", id.String()), zap.Error(err))
		return err
	}

	s.mu.Lock()
	if idx := s.findTimeEntry(id); idx >= 0 {
		s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	}
	s.mu.Unlock()
	s.publish(ctx, events.EventTypeEntityDeleted, "time_entry", id, userID, nil)
	return nil
}

func (s *Store) pruneTimeEntry(ctx context.Context, id, userID uuid.UUID) {
	s.mu.Lock()
	if idx := s.findTimeEntry(id); idx >= 0 {
		s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	}
	s.mu.Unlock()
	selfHeals.WithLabelValues("time_entry").Inc()
	s.logger.Warn("pruned time entry missing from remote", zap.String("entry_id", id.String()))
	s.publish(ctx, events.EventTypeEntityPruned, "time_entry", id, userID, nil)
}

func (s *Store) restoreTimeEntry(id uuid.UUID, before timeentry.TimeEntry) {
	s.mu.Lock()
	if idx := s.findTimeEntry(id); idx >= 0 {
		s.entries[idx] = before
	}
	s.mu.Unlock()
	rollbacks.WithLabelValues("time_entry").Inc()
}

func (s *Store) findTimeEntry(id uuid.UUID) int {
	for i := range s.entries {
		if s.entries[i].ID == id {
			return i
		}
	}
	return -1
}
