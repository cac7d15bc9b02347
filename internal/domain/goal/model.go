package goal

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidInput    = errors.New("invalid goal input")
	ErrInvalidProgress = errors.New("goal progress out of range")
)

// Milestone is a checkpoint on the way to a goal.
type Milestone struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Goal represents a long-running objective with optional milestones.
type Goal struct {
	ID          uuid.UUID   `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID      uuid.UUID   `json:"user_id" gorm:"type:uuid;not null;index:idx_goal_user"`
	Title       string      `json:"title" gorm:"not null"`
	Description string      `json:"description"`
	TargetDate  *time.Time  `json:"target_date,omitempty"`
	Progress    int         `json:"progress" gorm:"not null;default:0"`
	Milestones  []Milestone `json:"milestones" gorm:"type:jsonb;serializer:json"`
	ProjectID   *uuid.UUID  `json:"project_id,omitempty" gorm:"type:uuid"`
	CreatedAt   time.Time   `json:"created_at" gorm:"not null;default:current_timestamp"`
	UpdatedAt   time.Time   `json:"updated_at" gorm:"not null;default:current_timestamp"`
}

// CreateGoalInput represents the input for creating a goal
type CreateGoalInput struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	TargetDate  *time.Time  `json:"target_date,omitempty"`
	Milestones  []Milestone `json:"milestones,omitempty"`
	ProjectID   *uuid.UUID  `json:"project_id,omitempty"`
}

// UpdateGoalInput represents a partial patch applied to a goal
type UpdateGoalInput struct {
	Title       *string      `json:"title,omitempty"`
	Description *string      `json:"description,omitempty"`
	TargetDate  *time.Time   `json:"target_date,omitempty"`
	Progress    *int         `json:"progress,omitempty"`
	Milestones  *[]Milestone `json:"milestones,omitempty"`
	ProjectID   *uuid.UUID   `json:"project_id,omitempty"`
}

// TableName specifies the table name for the Goal model
func (Goal) TableName() string {
	return "goals"
}

// CompletedMilestones counts milestones marked completed.
func (g *Goal) CompletedMilestones() int {
	count := 0
	for _, m := range g.Milestones {
		if m.Completed {
			count++
		}
	}
	return count
}

// RecalcProgress derives Progress from milestone completion. A goal without
// milestones keeps whatever progress the user set directly.
func (g *Goal) RecalcProgress() {
	if len(g.Milestones) == 0 {
		return
	}
	ratio := float64(g.CompletedMilestones()) / float64(len(g.Milestones))
	g.Progress = int(math.Round(ratio * 100))
}

// Apply merges a patch into the goal. Toggling milestones recomputes
// progress; an explicit progress value only sticks when there are no
// milestones to derive it from.
func (g *Goal) Apply(input UpdateGoalInput, now time.Time) {
	if input.Title != nil {
		g.Title = *input.Title
	}
	if input.Description != nil {
		g.Description = *input.Description
	}
	if input.TargetDate != nil {
		g.TargetDate = input.TargetDate
	}
	if input.ProjectID != nil {
		g.ProjectID = input.ProjectID
	}
	if input.Milestones != nil {
		g.Milestones = *input.Milestones
	}
	if input.Progress != nil {
		g.Progress = clampProgress(*input.Progress)
	}
	g.RecalcProgress()
	g.UpdatedAt = now
}

func clampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Validate checks if the goal data is valid
func (g *Goal) Validate() error {
	if g.Title == "" {
		return ErrInvalidInput
	}
	if g.UserID == uuid.Nil {
		return ErrInvalidInput
	}
	if g.Progress < 0 || g.Progress > 100 {
		return ErrInvalidProgress
	}
	return nil
}

// BeforeCreate is called before creating a new goal record
func (g *Goal) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}
	if g.UpdatedAt.Before(g.CreatedAt) {
		g.UpdatedAt = g.CreatedAt
	}
	return g.Validate()
}

// BeforeUpdate is called before updating a goal record
func (g *Goal) BeforeUpdate(tx *gorm.DB) error {
	return g.Validate()
}
