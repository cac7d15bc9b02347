package sync

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jassimshanavas/time-management-sub000/internal/domain/events"
	"github.com/jassimshanavas/time-management-sub000/internal/domain/note"
)

// LoadNotes fetches the user's notes and replaces the local list.
func (s *Store) LoadNotes(ctx context.Context) error {
	s.mu.RLock()
	userID := s.userID
	s.mu.RUnlock()
	if userID == uuid.Nil {
		return nil
	}
	notes, err := s.remote.ListNotes(ctx, userID)
	if err != nil {
		remoteFailures.WithLabelValues("note", "load").Inc()
		s.logger.Error("failed to load notes", zap.Error(err))
		return err
	}
	s.mu.Lock()
	s.notes = notes
	s.mu.Unlock()
	return nil
}

// AddNote writes the note remotely first, then appends it locally.
func (s *Store) AddNote(ctx context.Context, input note.CreateNoteInput) (*note.Note, error) {
	s.mu.RLock()
	userID := s.userID
	s.mu.RUnlock()
	if userID == uuid.Nil {
		return nil, nil
	}

	now := s.now()
	n := note.Note{
		UserID:    userID,
		Title:     input.Title,
		Content:   input.Content,
		Tags:      input.Tags,
		Metadata:  input.Metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.remote.AddNote(ctx, &n); err != nil {
		remoteFailures.WithLabelValues("note", "add").Inc()
		s.logger.Error("failed to add note", zap.String("title", input.Title), zap.Error(err))
		return nil, err
	}

	s.mu.Lock()
	s.notes = append(s.notes, n)
	s.mu.Unlock()
	s.publish(ctx, events.EventTypeEntityAdded, "note", n.ID, userID, nil)
	return &n, nil
}

// UpdateNote optimistically applies the patch, then reconciles.
func (s *Store) UpdateNote(ctx context.Context, id uuid.UUID, input note.UpdateNoteInput) error {
	s.mu.Lock()
	if s.userID == uuid.Nil {
		s.mu.Unlock()
		return nil
	}
	idx := s.findNote(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	before := s.notes[idx]
	s.notes[idx].Apply(input, s.now())
	patched := s.notes[idx]
	userID := s.userID
	s.mu.Unlock()

	optimisticUpdates.WithLabelValues("note").Inc()

	if err := s.remote.UpdateNote(ctx, &patched); err != nil {
		remoteFailures.WithLabelValues("note", "update").Inc()
		if IsNotFound(err) {
			s.pruneNote(ctx, id, userID)
			return nil
		}
		if s.policy == ConflictRollback {
			s.restoreNote(id, before)
		}
		return err
	}

	s.publish(ctx, events.EventTypeEntityUpdated, "note", id, userID, nil)
	return nil
}

// DeleteNote removes the note remotely first, locally on success.
func (s *Store) DeleteNote(ctx context.Context, id uuid.UUID) error {
	s.mu.RLock()
	userID := s.userID
	s.mu.RUnlock()
	if userID == uuid.Nil {
		return nil
	}

	if err := s.remote.DeleteNote(ctx, id); err != nil && !IsNotFound(err) {
		remoteFailures.WithLabelValues("note", "delete").Inc()
		s.logger.Error("failed to delete note", zap.String("note_id", id.String()), zap.Error(err))
		return err
	}

	s.mu.Lock()
	if idx := s.findNote(id); idx >= 0 {
		s.notes = append(s.notes[:idx], s.notes[idx+1:]...)
	}
	s.mu.Unlock()
	s.publish(ctx, events.EventTypeEntityDeleted, "note", id, userID, nil)
	return nil
}

func (s *Store) pruneNote(ctx context.Context, id, userID uuid.UUID) {
	s.mu.Lock()
	if idx := s.findNote(id); idx >= 0 {
		s.notes = append(s.notes[:idx], s.notes[idx+1:]...)
	}
	s.mu.Unlock()
	selfHeals.WithLabelValues("note").Inc()
	s.logger.Warn("pruned note missing from remote", zap.String("note_id", id.String()))
	s.publish(ctx, events.EventTypeEntityPruned, "note", id, userID, nil)
}

func (s *Store) restoreNote(id uuid.UUID, before note.Note) {
	s.mu.Lock()
	if idx := s.findNote(id); idx >= 0 {
		s.notes[idx] = before
	}
	s.mu.Unlock()
	rollbacks.WithLabelValues("note").Inc()
}

func (s *Store) findNote(id uuid.UUID) int {
	for i := range s.notes {
		if s.notes[i].ID == id {
			return i
		}
	}
	return -1
}
