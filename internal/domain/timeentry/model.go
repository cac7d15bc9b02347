package timeentry

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidInput = errors.New("invalid time entry input")
)

// TimeEntry represents a tracked block of time, optionally linked to a task.
type TimeEntry struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID      uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index:idx_entry_user"`
	Category    string     `json:"category" gorm:"size:255;not null"`
	Description string     `json:"description"`
	TaskID      *uuid.UUID `json:"task_id,omitempty" gorm:"type:uuid"`
	ProjectID   *uuid.UUID `json:"project_id,omitempty" gorm:"type:uuid"`
	StartTime   time.Time  `json:"start_time" gorm:"not null;index:idx_entry_start"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Duration    *int       `json:"duration,omitempty"`
	IsRunning   bool       `json:"is_running" gorm:"not null;default:false"`
	Notes       string     `json:"notes"`
	CreatedAt   time.Time  `json:"created_at" gorm:"not null;default:current_timestamp"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"not null;default:current_timestamp"`
}

// CreateTimeEntryInput represents the input for starting or logging an entry
type CreateTimeEntryInput struct {
	Category    string     `json:"category"`
	Description string     `json:"description"`
	TaskID      *uuid.UUID `json:"task_id,omitempty"`
	ProjectID   *uuid.UUID `json:"project_id,omitempty"`
	StartTime   time.Time  `json:"start_time"`
	IsRunning   bool       `json:"is_running"`
}

// UpdateTimeEntryInput represents a partial patch applied to an entry
type UpdateTimeEntryInput struct {
	Category    *string    `json:"category,omitempty"`
	Description *string    `json:"description,omitempty"`
	TaskID      *uuid.UUID `json:"task_id,omitempty"`
	ProjectID   *uuid.UUID `json:"project_id,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}

// TableName specifies the table name for the TimeEntry model
func (TimeEntry) TableName() string {
	return "time_entries"
}

// Stop finalizes a running entry at the given instant: end time is recorded,
// duration is the whole number of elapsed minutes, and the running flag is
// cleared. Stopping an already stopped entry is a no-op.
func (e *TimeEntry) Stop(at time.Time, notes string) bool {
	if !e.IsRunning {
		return false
	}
	end := at
	minutes := int(end.Sub(e.StartTime).Milliseconds() / 60000)
	if minutes < 0 {
		minutes = 0
	}
	e.EndTime = &end
	e.Duration = &minutes
	e.IsRunning = false
	if notes != "" {
		e.Notes = notes
	}
	e.UpdatedAt = at
	return true
}

// Apply merges a patch into the entry.
func (e *TimeEntry) Apply(input UpdateTimeEntryInput, now time.Time) {
	if input.Category != nil {
		e.Category = *input.Category
	}
	if input.Description != nil {
		e.Description = *input.Description
	}
	if input.TaskID != nil {
		e.TaskID = input.TaskID
	}
	if input.ProjectID != nil {
		e.ProjectID = input.ProjectID
	}
	if input.Notes != nil {
		e.Notes = *input.Notes
	}
	e.UpdatedAt = now
}

// Validate checks if the entry data is valid
func (e *TimeEntry) Validate() error {
	if e.Category == "" {
		return ErrInvalidInput
	}
	if e.UserID == uuid.Nil {
		return ErrInvalidInput
	}
	if e.StartTime.IsZero() {
		return ErrInvalidInput
	}
	return nil
}

// BeforeCreate is called before creating a new time entry record
func (e *TimeEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	if e.UpdatedAt.Before(e.CreatedAt) {
		e.UpdatedAt = e.CreatedAt
	}
	return e.Validate()
}

// BeforeUpdate is called before updating a time entry record
func (e *TimeEntry) BeforeUpdate(tx *gorm.DB) error {
	return e.Validate()
}
