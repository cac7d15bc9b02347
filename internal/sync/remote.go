// Package sync implements the client-facing synchronization store: an
// in-memory mirror of the remote persistent store that applies optimistic
// local mutations and reconciles them against remote write outcomes.
package sync

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jassimshanavas/time-management-sub000/internal/domain/events"
	"github.com/jassimshanavas/time-management-sub000/internal/domain/gamification"
	"github.com/jassimshanavas/time-management-sub000/internal/domain/goal"
	"github.com/jassimshanavas/time-management-sub000/internal/domain/habit"
	"github.com/jassimshanavas/time-management-sub000/internal/domain/note"
	"github.com/jassimshanavas/time-management-sub000/internal/domain/project"
	"github.com/jassimshanavas/time-management-sub000/internal/domain/reminder"
	"github.com/jassimshanavas/time-management-sub000/internal/domain/task"
	"github.com/jassimshanavas/time-management-sub000/internal/domain/timeentry"
)

// ErrRemoteNotFound is the sentinel every Remote implementation must return
// (possibly wrapped) when the targeted record no longer exists. The store's
// self-healing behavior is conditioned on this error specifically, so it has
// to stay distinguishable from transport and permission failures.
var ErrRemoteNotFound = errors.New("remote record not found")

// Remote is the persistent-store collaborator. Add assigns a durable id to
// the passed entity. Update and Delete report a vanished record through
// ErrRemoteNotFound.
type Remote interface {
	ListTasks(ctx context.Context, userID uuid.UUID) ([]task.Task, error)
	AddTask(ctx context.Context, t *task.Task) error
	UpdateTask(ctx context.Context, t *task.Task) error
	DeleteTask(ctx context.Context, id uuid.UUID) error

	ListGoals(ctx context.Context, userID uuid.UUID) ([]goal.Goal, error)
	AddGoal(ctx context.Context, g *goal.Goal) error
	UpdateGoal(ctx context.Context, g *goal.Goal) error
	DeleteGoal(ctx context.Context, id uuid.UUID) error

	ListHabits(ctx context.Context, userID uuid.UUID) ([]habit.Habit, error)
	AddHabit(ctx context.Context, h *habit.Habit) error
	UpdateHabit(ctx context.Context, h *habit.Habit) error
	DeleteHabit(ctx context.Context, id uuid.UUID) error

	ListTimeEntries(ctx context.Context, userID uuid.UUID) ([]timeentry.TimeEntry, error)
	AddTimeEntry(ctx context.Context, e *timeentry.TimeEntry) error
	UpdateTimeEntry(ctx context.Context, e *timeentry.TimeEntry) error
	DeleteTimeEntry(ctx context.Context, id uuid.UUID) error

	ListNotes(ctx context.Context, userID uuid.UUID) ([]note.Note, error)
	AddNote(ctx context.Context, n *note.Note) error
	UpdateNote(ctx context.Context, n *note.Note) error
	DeleteNote(ctx context.Context, id uuid.UUID) error

	ListReminders(ctx context.Context, userID uuid.UUID) ([]reminder.Reminder, error)
	AddReminder(ctx context.Context, r *reminder.Reminder) error
	UpdateReminder(ctx context.Context, r *reminder.Reminder) error
	DeleteReminder(ctx context.Context, id uuid.UUID) error

	ListProjects(ctx context.Context, userID uuid.UUID) ([]project.Project, error)
	AddProject(ctx context.Context, p *project.Project) error
	UpdateProject(ctx context.Context, p *project.Project) error
	DeleteProject(ctx context.Context, id uuid.UUID) error

	GetGamification(ctx context.Context, userID uuid.UUID) (*gamification.UserGamification, error)
	SaveGamification(ctx context.Context, g *gamification.UserGamification) error

	ClearAll(ctx context.Context, userID uuid.UUID) error
}

// EventPublisher receives sync events for cache invalidation and client
// refresh. Publishing is best effort, failures are logged, never surfaced.
type EventPublisher interface {
	PublishSyncEvent(ctx context.Context, event *events.SyncEvent) error
}

// IsNotFound reports whether err indicates the remote record vanished.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRemoteNotFound)
}
