package sync

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jassimshanavas/time-management-sub000/internal/domain/events"
	"github.com/jassimshanavas/time-management-sub000/internal/domain/goal"
)

// LoadGoals fetches the user's goals and replaces the local list.
func (s *Store) LoadGoals(ctx context.Context) error {
	s.mu.RLock()
	userID := s.userID
	s.mu.RUnlock()
	if userID == uuid.Nil {
		return nil
	}
	goals, err := s.remote.ListGoals(ctx, userID)
	if err != nil {
		remoteFailures.WithLabelValues("goal", "load").Inc()
		s.logger.Error("failed to load goals", zap.Error(err))
		return err
	}
	s.mu.Lock()
	s.goals = goals
	s.mu.Unlock()
	return nil
}

// AddGoal writes the goal remotely first, then appends it locally.
func (s *Store) AddGoal(ctx context.Context, input goal.CreateGoalInput) (*goal.Goal, error) {
	s.mu.RLock()
	userID := s.userID
	s.mu.RUnlock()
	if userID == uuid.Nil {
		return nil, nil
	}

	now := s.now()
	g := goal.Goal{
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		TargetDate:  input.TargetDate,
		Milestones:  input.Milestones,
		ProjectID:   input.ProjectID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	g.RecalcProgress()

	if err := s.remote.AddGoal(ctx, &g); err != nil {
		remoteFailures.WithLabelValues("goal", "add").Inc()
		s.logger.Error("failed to add goal", zap.String("title", input.Title), zap.Error(err))
		return nil, err
	}

	s.mu.Lock()
	s.goals = append(s.goals, g)
	s.mu.Unlock()
	s.publish(ctx, events.EventTypeEntityAdded, "goal", g.ID, userID, nil)
	return &g, nil
}

// UpdateGoal optimistically applies the patch, recomputing milestone-driven
// progress, then reconciles with the remote write.
func (s *Store) UpdateGoal(ctx context.Context, id uuid.UUID, input goal.UpdateGoalInput) error {
	s.mu.Lock()
	if s.userID == uuid.Nil {
		s.mu.Unlock()
		return nil
	}
	idx := s.findGoal(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	before := s.goals[idx]
	s.goals[idx].Apply(input, s.now())
	patched := s.goals[idx]
	userID := s.userID
	s.mu.Unlock()

	optimisticUpdates.WithLabelValues("goal").Inc()

	completed := before.Progress < 100 && patched.Progress >= 100

	if err := s.remote.UpdateGoal(ctx, &patched); err != nil {
		remoteFailures.WithLabelValues("goal", "update").Inc()
		if IsNotFound(err) {
			s.pruneGoal(ctx, id, userID)
			return nil
		}
		if s.policy == ConflictRollback {
			s.restoreGoal(id, before)
		}
		return err
	}

	s.publish(ctx, events.EventTypeEntityUpdated, "goal", id, userID, nil)
	if completed {
		s.onGoalCompleted(ctx, userID)
	}
	return nil
}

// DeleteGoal removes the goal remotely first, locally on success.
func (s *Store) DeleteGoal(ctx context.Context, id uuid.UUID) error {
	s.mu.RLock()
	userID := s.userID
	s.mu.RUnlock()
	if userID == uuid.Nil {
		return nil
	}

	if err := s.remote.DeleteGoal(ctx, id); err != nil && !IsNotFound(err) {
		remoteFailures.WithLabelValues("goal", "delete").Inc()
		s.logger.Error("failed to delete goal", zap.String("goal_id", id.String()), zap.Error(err))
		return err
	}

	s.mu.Lock()
	if idx := s.findGoal(id); idx >= 0 {
		s.goals = append(s.goals[:idx], s.goals[idx+1:]...)
	}
	s.mu.Unlock()
	s.publish(ctx, events.EventTypeEntityDeleted, "goal", id, userID, nil)
	return nil
}

func (s *Store) pruneGoal(ctx context.Context, id, userID uuid.UUID) {
	s.mu.Lock()
	if idx := s.findGoal(id); idx >= 0 {
		s.goals = append(s.goals[:idx], s.goals[idx+1:]...)
	}
	s.mu.Unlock()
	selfHeals.WithLabelValues("goal").Inc()
	s.logger.Warn("pruned goal missing from remote", zap.String("goal_id", id.String()))
	s.publish(ctx, events.EventTypeEntityPruned, "goal", id, userID, nil)
}

func (s *Store) restoreGoal(id uuid.UUID, before goal.Goal) {
	s.mu.Lock()
	if idx := s.findGoal(id); idx >= 0 {
		s.goals[idx] = before
	}
	s.mu.Unlock()
	rollbacks.WithLabelValues("goal").Inc()
}

func (s *Store) findGoal(id uuid.UUID) int {
	for i := range s.goals {
		if s.goals[i].ID == id {
			return i
		}
	}
	return -1
}
