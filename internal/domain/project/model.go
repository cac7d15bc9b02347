package project

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrInvalidInput = errors.New("invalid project input")

// Project groups tasks, goals, habits and time entries under a label.
type Project struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index:idx_project_user"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	Color     string    `json:"color" gorm:"size:32;not null"`
	Emoji     string    `json:"emoji" gorm:"size:16"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:current_timestamp"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:current_timestamp"`
}

type CreateProjectInput struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Emoji string `json:"emoji,omitempty"`
}

type UpdateProjectInput struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
	Emoji *string `json:"emoji,omitempty"`
}

func (Project) TableName() string {
	return "projects"
}

// Apply merges a patch into the project.
func (p *Project) Apply(input UpdateProjectInput, now time.Time) {
	if input.Name != nil {
		p.Name = *input.Name
	}
	if input.Color != nil {
		p.Color = *input.Color
	}
	if input.Emoji != nil {
		p.Emoji = *input.Emoji
	}
	p.UpdatedAt = now
}

func (p *Project) Validate() error {
	if p.Name == "" || p.UserID == uuid.Nil {
		return ErrInvalidInput
	}
	return nil
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	if p.UpdatedAt.Before(p.CreatedAt) {
		p.UpdatedAt = p.CreatedAt
	}
	return p.Validate()
}
