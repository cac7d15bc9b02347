package sync

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jassimshanavas/time-management-sub000/internal/domain/events"
	"github.com/jassimshanavas/time-management-sub000/internal/domain/project"
)

// LoadProjects fetches the user's projects and replaces the local list.
func (s *Store) LoadProjects(ctx context.Context) error {
	s.mu.RLock()
	userID := s.userID
	s.mu.RUnlock()
	if userID == uuid.Nil {
		return nil
	}
	projects, err := s.remote.ListProjects(ctx, userID)
	if err != nil {
		remoteFailures.WithLabelValues("project", "load").Inc()
		s.logger.Error("failed to load projects", zap.Error(err))
		return err
	}
	s.mu.Lock()
	s.projects = projects
	s.mu.Unlock()
	return nil
}

// AddProject writes the project remotely first, then appends it locally.
func (s *Store) AddProject(ctx context.Context, input project.CreateProjectInput) (*project.Project, error) {
	s.mu.RLock()
	userID := s.userID
	s.mu.RUnlock()
	if userID == uuid.Nil {
		return nil, nil
	}

	now := s.now()
	p := project.Project{
		UserID:    userID,
		Name:      input.Name,
		Color:     input.Color,
		Emoji:     input.Emoji,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.remote.AddProject(ctx, &p); err != nil {
		remoteFailures.WithLabelValues("project", "add").Inc()
		s.logger.Error("failed to add project", zap.String("name", input.Name), zap.Error(err))
		return nil, err
	}

	s.mu.Lock()
	s.projects = append(s.projects, p)
	s.mu.Unlock()
	s.publish(ctx, events.EventTypeEntityAdded, "project", p.ID, userID, nil)
	return &p, nil
}

// UpdateProject optimistically applies the patch, then reconciles.
func (s *Store) UpdateProject(ctx context.Context, id uuid.UUID, input project.UpdateProjectInput) error {
	s.mu.Lock()
	if s.userID == uuid.Nil {
		s.mu.Unlock()
		return nil
	}
	idx := s.findProject(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	before := s.projects[idx]
	s.projects[idx].Apply(input, s.now())
	patched := s.projects[idx]
	userID := s.userID
	s.mu.Unlock()

	optimisticUpdates.WithLabelValues("project").Inc()

	if err := s.remote.UpdateProject(ctx, &patched); err != nil {
		remoteFailures.WithLabelValues("project", "update").Inc()
		if IsNotFound(err) {
			s.pruneProject(ctx, id, userID)
			return nil
		}
		if s.policy == ConflictRollback {
			s.restoreProject(id, before)
		}
		return err
	}

	s.publish(ctx, events.EventTypeEntityUpdated, "project", id, userID, nil)
	return nil
}

// DeleteProject removes the project remotely first, locally on success.
func (s *Store) DeleteProject(ctx context.Context, id uuid.UUID) error {
	s.mu.RLock()
	userID := s.userID
	s.mu.RUnlock()
	if userID == uuid.Nil {
		return nil
	}

	if err := s.remote.DeleteProject(ctx, id); err != nil && !IsNotFound(err) {
		remoteFailures.WithLabelValues("project", "delete").Inc()
		s.logger.Error("failed to delete project", zap.String("project_id", id.String()), zap.Error(err))
		return err
	}

	s.mu.Lock()
	if idx := s.findProject(id); idx >= 0 {
		s.projects = append(s.projects[:idx], s.projects[idx+1:]...)
	}
	s.mu.Unlock()
	s.publish(ctx, events.EventTypeEntityDeleted, "project", id, userID, nil)
	return nil
}

func (s *Store) pruneProject(ctx context.Context, id, userID uuid.UUID) {
	s.mu.Lock()
	if idx := s.findProject(id); idx >= 0 {
		s.projects = append(s.projects[:idx], s.projects[idx+1:]...)
	}
	s.mu.Unlock()
	selfHeals.WithLabelValues("project").Inc()
	s.logger.Warn("pruned project missing from remote", zap.String("project_id", id.String()))
	s.publish(ctx, events.EventTypeEntityPruned, "project", id, userID, nil)
}

func (s *Store) restoreProject(id uuid.UUID, before project.Project) {
	s.mu.Lock()
	if idx := s.findProject(id); idx >= 0 {
		s.projects[idx] = before
	}
	s.mu.Unlock()
	rollbacks.WithLabelValues("project").Inc()
}

func (s *Store) findProject(id uuid.UUID) int {
	for i := range s.projects {
		if s.projects[i].ID == id {
			return i
		}
	}
	return -1
}
