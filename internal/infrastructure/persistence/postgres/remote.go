// Package postgres implements the synchronization store's Remote contract
// on top of gorm.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jassimshanavas/time-management-sub000/internal/domain/gamification"
	"github.com/jassimshanavas/time-management-sub000/internal/domain/goal"
	"github.com/jassimshanavas/time-management-sub000/internal/domain/habit"
	"github.com/jassimshanavas/time-management-sub000/internal/domain/note"
	"github.com/jassimshanavas/time-management-sub000/internal/domain/project"
	"github.com/jassimshanavas/time-management-sub000/internal/domain/reminder"
	"github.com/jassimshanavas/time-management-sub000/internal/domain/task"
	"github.com/jassimshanavas/time-management-sub000/internal/domain/timeentry"
	"github.com/jassimshanavas/time-management-sub000/internal/infrastructure/persistence/postgres/connection"
	syncstore "github.com/jassimshanavas/time-management-sub000/internal/sync"
)

// Remote is the gorm-backed persistent store.
type Remote struct {
	db *connection.Database
}

// NewRemote wraps an open database connection.
func NewRemote(db *connection.Database) *Remote {
	return &Remote{db: db}
}

// Migrate creates or updates every table the store persists to.
func (r *Remote) Migrate() error {
	return r.db.AutoMigrate(
		&task.Task{},
		&goal.Goal{},
		&habit.Habit{},
		&timeentry.TimeEntry{},
		&note.Note{},
		&reminder.Reminder{},
		&project.Project{},
		&gamification.UserGamification{},
	)
}

// notFound maps a zero-row outcome onto the store's sentinel so the
// self-healing path can recognize it with errors.Is.
func notFound(kind string, id uuid.UUID) error {
	return fmt.Errorf("%s %s: %w", kind, id, syncstore.ErrRemoteNotFound)
}

func (r *Remote) ListTasks(ctx context.Context, userID uuid.UUID) ([]task.Task, error) {
	var tasks []task.Task
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&tasks).Error
	return tasks, err
}

func (r *Remote) AddTask(ctx context.Context, t *task.Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *Remote) UpdateTask(ctx context.Context, t *task.Task) error {
	result := r.db.WithContext(ctx).Model(&task.Task{}).
		Where("id = ?", t.ID).
		Select("*").Omit("id", "created_at").
		Updates(t)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound("task", t.ID)
	}
	return nil
}

func (r *Remote) DeleteTask(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&task.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound("task", id)
	}
	return nil
}

func (r *Remote) ListGoals(ctx context.Context, userID uuid.UUID) ([]goal.Goal, error) {
	var goals []goal.Goal
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&goals).Error
	return goals, err
}

func (r *Remote) AddGoal(ctx context.Context, g *goal.Goal) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *Remote) UpdateGoal(ctx context.Context, g *goal.Goal) error {
	result := r.db.WithContext(ctx).Model(&goal.Goal{}).
		Where("id = ?", g.ID).
		Select("*").Omit("id", "created_at").
		Updates(g)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound("goal", g.ID)
	}
	return nil
}

func (r *Remote) DeleteGoal(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&goal.Goal{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound("goal", id)
	}
	return nil
}

func (r *Remote) ListHabits(ctx context.Context, userID uuid.UUID) ([]habit.Habit, error) {
	var habits []habit.Habit
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&habits).Error
	return habits, err
}

func (r *Remote) AddHabit(ctx context.Context, h *habit.Habit) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *Remote) UpdateHabit(ctx context.Context, h *habit.Habit) error {
	result := r.db.WithContext(ctx).Model(&habit.Habit{}).
		Where("id = ?", h.ID).
		Select("*").Omit("id", "created_at").
		Updates(h)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound("habit", h.ID)
	}
	return nil
}

func (r *Remote) DeleteHabit(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&habit.Habit{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound("habit", id)
	}
	return nil
}

func (r *Remote) ListTimeEntries(ctx context.Context, userID uuid.UUID) ([]timeentry.TimeEntry, error) {
	var entries []timeentry.TimeEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_time asc").
		Find(&entries).Error
	return entries, err
}

func (r *Remote) AddTimeEntry(ctx context.Context, e *timeentry.TimeEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *Remote) UpdateTimeEntry(ctx context.Context, e *timeentry.TimeEntry) error {
	result := r.db.WithContext(ctx).Model(&timeentry.TimeEntry{}).
		Where("id = ?", e.ID).
		Select("*").Omit("id", "created_at").
		Updates(e)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound("time entry", e.ID)
	}
	return nil
}

func (r *Remote) DeleteTimeEntry(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&timeentry.TimeEntry{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound("time entry", id)
	}
	return nil
}

func (r *Remote) ListNotes(ctx context.Context, userID uuid.UUID) ([]note.Note, error) {
	var notes []note.Note
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&notes).Error
	return notes, err
}

func (r *Remote) AddNote(ctx context.Context, n *note.Note) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *Remote) UpdateNote(ctx context.Context, n *note.Note) error {
	result := r.db.WithContext(ctx).Model(&note.Note{}).
		Where("id = ?", n.ID).
		Select("*").Omit("id", "created_at").
		Updates(n)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound("note", n.ID)
	}
	return nil
}

func (r *Remote) DeleteNote(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&note.Note{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound("note", id)
	}
	return nil
}

func (r *Remote) ListReminders(ctx context.Context, userID uuid.UUID) ([]reminder.Reminder, error) {
	var reminders []reminder.Reminder
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("remind_at asc").
		Find(&reminders).Error
	return reminders, err
}

func (r *Remote) AddReminder(ctx context.Context, rem *reminder.Reminder) error {
	return r.db.WithContext(ctx).Create(rem).Error
}

func (r *Remote) UpdateReminder(ctx context.Context, rem *reminder.Reminder) error {
	result := r.db.WithContext(ctx).Model(&reminder.Reminder{}).
		Where("id = ?", rem.ID).
		Select("*").Omit("id", "created_at").
		Updates(rem)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound("reminder", rem.ID)
	}
	return nil
}

func (r *Remote) DeleteReminder(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&reminder.Reminder{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound("reminder", id)
	}
	return nil
}

func (r *Remote) ListProjects(ctx context.Context, userID uuid.UUID) ([]project.Project, error) {
	var projects []project.Project
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&projects).Error
	return projects, err
}

func (r *Remote) AddProject(ctx context.Context, p *project.Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *Remote) UpdateProject(ctx context.Context, p *project.Project) error {
	result := r.db.WithContext(ctx).Model(&project.Project{}).
		Where("id = ?", p.ID).
		Select("*").Omit("id", "created_at").
		Updates(p)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound("project", p.ID)
	}
	return nil
}

func (r *Remote) DeleteProject(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&project.Project{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound("project", id)
	}
	return nil
}

func (r *Remote) GetGamification(ctx context.Context, userID uuid.UUID) (*gamification.UserGamification, error) {
	var record gamification.UserGamification
	err := r.db.WithContext(ctx).First(&record, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("gamification record", userID)
		}
		return nil, err
	}
	return &record, nil
}

func (r *Remote) SaveGamification(ctx context.Context, g *gamification.UserGamification) error {
	return r.db.WithContext(ctx).Save(g).Error
}

// ClearAll removes every record the user owns, in one transaction so a
// partial failure leaves remote state intact.
func (r *Remote) ClearAll(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&task.Task{},
			&goal.Goal{},
			&habit.Habit{},
			&timeentry.TimeEntry{},
			&note.Note{},
			&reminder.Reminder{},
			&project.Project{},
			&gamification.UserGamification{},
		} {
			if err := tx.Where("user_id = ?", userID).Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
