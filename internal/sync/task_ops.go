package sync

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jassimshanavas/time-management-sub000/internal/domain/events"
	"github.com/jassimshanavas/time-management-sub000/internal/domain/task"
)

// LoadTasks fetches the user's tasks and replaces the local list. Without an
// active user this is a no-op. A remote failure keeps the prior local list:
// stale-but-present data beats an empty screen.
func (s *Store) LoadTasks(ctx context.Context) error {
	s.mu.RLock()
	userID := s.userID
	s.mu.RUnlock()
	if userID == uuid.Nil {
		return nil
	}
	tasks, err := s.remote.ListTasks(ctx, userID)
	if err != nil {
		remoteFailures.WithLabelValues("task", "load").Inc()
		s.logger.Error("failed to load tasks", zap.Error(err))
		return err
	}
	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()
	return nil
}

// AddTask writes the task remotely first to obtain a durable id, then
// appends it locally. Add is not optimistic: a remote failure leaves the
// local list untouched and no entity appears.
func (s *Store) AddTask(ctx context.Context, input task.CreateTaskInput) (*task.Task, error) {
	s.mu.RLock()
	userID := s.userID
	s.mu.RUnlock()
	if userID == uuid.Nil {
		return nil, nil
	}

	now := s.now()
	t := task.Task{
		UserID:            userID,
		Title:             input.Title,
		Description:       input.Description,
		Status:            input.Status,
		Priority:          input.Priority,
		Deadline:          input.Deadline,
		ScheduledStart:    input.ScheduledStart,
		ScheduledEnd:      input.ScheduledEnd,
		EstimatedDuration: input.EstimatedDuration,
		GoalID:            input.GoalID,
		MilestoneID:       input.MilestoneID,
		ProjectID:         input.ProjectID,
		DependencyIDs:     input.DependencyIDs,
		Tags:              input.Tags,
		Subtasks:          input.Subtasks,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if t.Status == "" {
		t.Status = task.TaskStatusTodo
	}
	if t.Priority == "" {
		t.Priority = task.TaskPriorityMedium
	}

	if err := s.remote.AddTask(ctx, &t); err != nil {
		remoteFailures.WithLabelValues("task", "add").Inc()
		s.logger.Error("failed to add task", zap.String("title", input.Title), zap.Error(err))
		return nil, err
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, t)
	s.mu.Unlock()
	s.publish(ctx, events.EventTypeEntityAdded, "task", t.ID, userID, nil)
	return &t, nil
}

// UpdateTask applies the patch to the cached task immediately, then issues
// the remote write. A vanished remote record prunes the local copy and is
// not surfaced as an error. Any other failure is returned to the caller
// with the optimistic patch handled per the configured conflict policy.
func (s *Store) UpdateTask(ctx context.Context, id uuid.UUID, input task.UpdateTaskInput) error {
	s.mu.Lock()
	if s.userID == uuid.Nil {
		s.mu.Unlock()
		return nil
	}
	idx := s.findTask(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	before := s.tasks[idx]
	s.tasks[idx].Apply(input, s.now())
	patched := s.tasks[idx]
	userID := s.userID
	s.mu.Unlock()

	optimisticUpdates.WithLabelValues("task").Inc()

	completed := before.Status != task.TaskStatusDone && patched.Status == task.TaskStatusDone

	if err := s.remote.UpdateTask(ctx, &patched); err != nil {
		remoteFailures.WithLabelValues("task", "update").Inc()
		if IsNotFound(err) {
			s.pruneTask(ctx, id, userID)
			return nil
		}
		if s.policy == ConflictRollback {
			s.restoreTask(id, before)
		}
		return err
	}

	s.publish(ctx, events.EventTypeEntityUpdated, "task", id, userID, nil)
	if completed {
		s.onTaskCompleted(ctx, userID, patched)
	}
	return nil
}

// DeleteTask removes the task remotely first; the local copy goes away only
// on success, or when the remote reports it already gone.
func (s *Store) DeleteTask(ctx context.Context, id uuid.UUID) error {
	s.mu.RLock()
	userID := s.userID
	s.mu.RUnlock()
	if userID == uuid.Nil {
		return nil
	}

	if err := s.remote.DeleteTask(ctx, id); err != nil && !IsNotFound(err) {
		remoteFailures.WithLabelValues("task", "delete").Inc()
		s.logger.Error("failed to delete task", zap.String("task_id", id.String()), zap.Error(err))
		return err
	}

	s.mu.Lock()
	if idx := s.findTask(id); idx >= 0 {
		s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	}
	s.mu.Unlock()
	s.publish(ctx, events.EventTypeEntityDeleted, "task", id, userID, nil)
	return nil
}

// pruneTask drops a task whose remote record vanished underneath us.
func (s *Store) pruneTask(ctx context.Context, id, userID uuid.UUID) {
	s.mu.Lock()
	if idx := s.findTask(id); idx >= 0 {
		s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	}
	s.mu.Unlock()
	selfHeals.WithLabelValues("task").Inc()
	s.logger.Warn("pruned task missing from remote", zap.String("task_id", id.String()))
	s.publish(ctx, events.EventTypeEntityPruned, "task", id, userID, nil)
}

// restoreTask reverts an optimistic patch under the rollback policy. The
// task may have been pruned or reloaded in the meantime; restore only when
// it is still present.
func (s *Store) restoreTask(id uuid.UUID, before task.Task) {
	s.mu.Lock()
	if idx := s.findTask(id); idx >= 0 {
		s.tasks[idx] = before
	}
	s.mu.Unlock()
	rollbacks.WithLabelValues("task").Inc()
}

// findTask returns the cached index for id, -1 when absent. Caller holds
// the mutex.
func (s *Store) findTask(id uuid.UUID) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
