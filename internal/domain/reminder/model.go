package reminder

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrInvalidInput = errors.New("invalid reminder input")

// Reminder is a one-shot notification marker.
type Reminder struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index:idx_reminder_user"`
	Title     string    `json:"title" gorm:"size:255;not null"`
	RemindAt  time.Time `json:"remind_at" gorm:"not null;index:idx_reminder_at"`
	Completed bool      `json:"completed" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:current_timestamp"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:current_timestamp"`
}

type CreateReminderInput struct {
	Title    string    `json:"title"`
	RemindAt time.Time `json:"remind_at"`
}

type UpdateReminderInput struct {
	Title     *string    `json:"title,omitempty"`
	RemindAt  *time.Time `json:"remind_at,omitempty"`
	Completed *bool      `json:"completed,omitempty"`
}

func (Reminder) TableName() string {
	return "reminders"
}

// Apply merges a patch into the reminder.
func (r *Reminder) Apply(input UpdateReminderInput, now time.Time) {
	if input.Title != nil {
		r.Title = *input.Title
	}
	if input.RemindAt != nil {
		r.RemindAt = *input.RemindAt
	}
	if input.Completed != nil {
		r.Completed = *input.Completed
	}
	r.UpdatedAt = now
}

func (r *Reminder) Validate() error {
	if r.Title == "" || r.UserID == uuid.Nil || r.RemindAt.IsZero() {
		return ErrInvalidInput
	}
	return nil
}

func (r *Reminder) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	if r.UpdatedAt.Before(r.CreatedAt) {
		r.UpdatedAt = r.CreatedAt
	}
	return r.Validate()
}
