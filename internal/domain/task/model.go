package task

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

type UUIDSlice []uuid.UUID

// Value implements the driver.Valuer interface for UUIDSlice
func (u UUIDSlice) Value() (driver.Value, error) {
	if len(u) == 0 {
		return "[]", nil
	}
	return json.Marshal(u)
}

// Scan implements the sql.Scanner interface for UUIDSlice
func (u *UUIDSlice) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to unmarshal UUIDSlice value: %v", value)
	}
	return json.Unmarshal(bytes, u)
}

// Contains reports whether id is present in the slice.
func (u UUIDSlice) Contains(id uuid.UUID) bool {
	for _, v := range u {
		if v == id {
			return true
		}
	}
	return false
}

// Subtask is an inline checklist item on a task.
type Subtask struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Done  bool      `json:"done"`
}

// Comment is a journal entry attached to a task.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Task represents a task in the system
type Task struct {
	ID                uuid.UUID    `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID            uuid.UUID    `json:"user_id" gorm:"type:uuid;not null;index:idx_task_user"`
	Title             string       `json:"title" gorm:"not null"`
	Description       string       `json:"description"`
	Status            TaskStatus   `json:"status" gorm:"not null;default:'todo';index:idx_task_status"`
	Priority          TaskPriority `json:"priority" gorm:"not null;default:'medium';index:idx_task_priority"`
	Deadline          *time.Time   `json:"deadline,omitempty" gorm:"index:idx_task_dates"`
	ScheduledStart    *time.Time   `json:"scheduled_start,omitempty"`
	ScheduledEnd      *time.Time   `json:"scheduled_end,omitempty"`
	EstimatedDuration *int         `json:"estimated_duration,omitempty"`
	GoalID            *uuid.UUID   `json:"goal_id,omitempty" gorm:"type:uuid"`
	MilestoneID       *uuid.UUID   `json:"milestone_id,omitempty" gorm:"type:uuid"`
	ProjectID         *uuid.UUID   `json:"project_id,omitempty" gorm:"type:uuid;index:idx_task_project"`
	DependencyIDs     UUIDSlice    `json:"dependency_ids" gorm:"type:jsonb"`
	Tags              []string     `json:"tags" gorm:"type:jsonb;serializer:json"`
	Subtasks          []Subtask    `json:"subtasks" gorm:"type:jsonb;serializer:json"`
	Comments          []Comment    `json:"comments" gorm:"type:jsonb;serializer:json"`
	CreatedAt         time.Time    `json:"created_at" gorm:"not null;default:current_timestamp"`
	UpdatedAt         time.Time    `json:"updated_at" gorm:"not null;default:current_timestamp"`
}

// CreateTaskInput represents the input for creating a task
type CreateTaskInput struct {
	Title             string       `json:"title"`
	Description       string       `json:"description"`
	Status            TaskStatus   `json:"status"`
	Priority          TaskPriority `json:"priority"`
	Deadline          *time.Time   `json:"deadline,omitempty"`
	ScheduledStart    *time.Time   `json:"scheduled_start,omitempty"`
	ScheduledEnd      *time.Time   `json:"scheduled_end,omitempty"`
	EstimatedDuration *int         `json:"estimated_duration,omitempty"`
	GoalID            *uuid.UUID   `json:"goal_id,omitempty"`
	MilestoneID       *uuid.UUID   `json:"milestone_id,omitempty"`
	ProjectID         *uuid.UUID   `json:"project_id,omitempty"`
	DependencyIDs     UUIDSlice    `json:"dependency_ids,omitempty"`
	Tags              []string     `json:"tags,omitempty"`
	Subtasks          []Subtask    `json:"subtasks,omitempty"`
}

// UpdateTaskInput represents a partial patch applied to a task
type UpdateTaskInput struct {
	Title             *string       `json:"title,omitempty"`
	Description       *string       `json:"description,omitempty"`
	Status            *TaskStatus   `json:"status,omitempty"`
	Priority          *TaskPriority `json:"priority,omitempty"`
	Deadline          *time.Time    `json:"deadline,omitempty"`
	ScheduledStart    *time.Time    `json:"scheduled_start,omitempty"`
	ScheduledEnd      *time.Time    `json:"scheduled_end,omitempty"`
	EstimatedDuration *int          `json:"estimated_duration,omitempty"`
	GoalID            *uuid.UUID    `json:"goal_id,omitempty"`
	MilestoneID       *uuid.UUID    `json:"milestone_id,omitempty"`
	ProjectID         *uuid.UUID    `json:"project_id,omitempty"`
	DependencyIDs     *UUIDSlice    `json:"dependency_ids,omitempty"`
	Tags              *[]string     `json:"tags,omitempty"`
	Subtasks          *[]Subtask    `json:"subtasks,omitempty"`
	Comments          *[]Comment    `json:"comments,omitempty"`
}

func (t TaskStatus) IsValid() bool {
	switch t {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

func (t TaskPriority) IsValid() bool {
	switch t {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// TableName specifies the table name for the Task model
func (Task) TableName() string {
	return "tasks"
}

// Validate checks if the task data is valid
func (t *Task) Validate() error {
	if t.Title == "" {
		return ErrInvalidInput
	}
	if !t.Status.IsValid() {
		return ErrInvalidStatus
	}
	if !t.Priority.IsValid() {
		return ErrInvalidPriority
	}
	if t.UserID == uuid.Nil {
		return ErrInvalidInput
	}
	if t.DependencyIDs.Contains(t.ID) {
		return ErrSelfDependency
	}
	return nil
}

// Apply merges a patch into the task. UpdatedAt is set to now so the
// optimistic local copy reflects the change before the remote write lands.
func (t *Task) Apply(input UpdateTaskInput, now time.Time) {
	if input.Title != nil {
		t.Title = *input.Title
	}
	if input.Description != nil {
		t.Description = *input.Description
	}
	if input.Status != nil {
		t.Status = *input.Status
	}
	if input.Priority != nil {
		t.Priority = *input.Priority
	}
	if input.Deadline != nil {
		t.Deadline = input.Deadline
	}
	if input.ScheduledStart != nil {
		t.ScheduledStart = input.ScheduledStart
	}
	if input.ScheduledEnd != nil {
		t.ScheduledEnd = input.ScheduledEnd
	}
	if input.EstimatedDuration != nil {
		t.EstimatedDuration = input.EstimatedDuration
	}
	if input.GoalID != nil {
		t.GoalID = input.GoalID
	}
	if input.MilestoneID != nil {
		t.MilestoneID = input.MilestoneID
	}
	if input.ProjectID != nil {
		t.ProjectID = input.ProjectID
	}
	if input.DependencyIDs != nil {
		deps := make(UUIDSlice, 0, len(*input.DependencyIDs))
		for _, id := range *input.DependencyIDs {
			if id != t.ID {
				deps = append(deps, id)
			}
		}
		t.DependencyIDs = deps
	}
	if input.Tags != nil {
		t.Tags = *input.Tags
	}
	if input.Subtasks != nil {
		t.Subtasks = *input.Subtasks
	}
	if input.Comments != nil {
		t.Comments = *input.Comments
	}
	t.UpdatedAt = now
}

// BeforeCreate is called before creating a new task record
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = TaskStatusTodo
	}
	if t.Priority == "" {
		t.Priority = TaskPriorityMedium
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	if t.UpdatedAt.Before(t.CreatedAt) {
		t.UpdatedAt = t.CreatedAt
	}
	return t.Validate()
}

// BeforeUpdate is called before updating a task record
func (t *Task) BeforeUpdate(tx *gorm.DB) error {
	if t.UpdatedAt.Before(t.CreatedAt) {
		t.UpdatedAt = time.Now()
	}
	return t.Validate()
}
