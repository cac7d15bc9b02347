package task

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTaskApply(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	tk := &Task{
		ID:       uuid.New(),
		Title:    "Draft",
		Status:   TaskStatusTodo,
		Priority: TaskPriorityLow,
	}

	title := "Final"
	done := TaskStatusDone
	high := TaskPriorityHigh
	tk.Apply(UpdateTaskInput{Title: &title, Status: &done, Priority: &high}, now)

	assert.Equal(t, "Final", tk.Title)
	assert.Equal(t, TaskStatusDone, tk.Status)
	assert.Equal(t, TaskPriorityHigh, tk.Priority)
	assert.Equal(t, now, tk.UpdatedAt)

	// An empty patch only touches the timestamp.
	later := now.Add(time.Hour)
	tk.Apply(UpdateTaskInput{}, later)
	assert.Equal(t, "Final", tk.Title)
	assert.Equal(t, later, tk.UpdatedAt)
}

func TestTaskApplyFiltersSelfDependency(t *testing.T) {
	id := uuid.New()
	other := uuid.New()
	tk := &Task{ID: id, UserID: uuid.New(), Title: "Build", Status: TaskStatusTodo, Priority: TaskPriorityMedium}

	deps := UUIDSlice{other, id}
	tk.Apply(UpdateTaskInput{DependencyIDs: &deps}, time.Now())

	assert.Equal(t, UUIDSlice{other}, tk.DependencyIDs)
	assert.NoError(t, tk.Validate())
}

func TestTaskValidate(t *testing.T) {
	id := uuid.New()
	valid := Task{
		ID:       id,
		UserID:   uuid.New(),
		Title:    "ok",
		Status:   TaskStatusTodo,
		Priority: TaskPriorityMedium,
	}

	tests := []struct {
		name     string
		mutate   func(*Task)
		expected error
	}{
		{"valid", func(*Task) {}, nil},
		{"missing title", func(t *Task) { t.Title = "" }, ErrInvalidInput},
		{"unknown status", func(t *Task) { t.Status = "archived" }, ErrInvalidStatus},
		{"unknown priority", func(t *Task) { t.Priority = "urgent" }, ErrInvalidPriority},
		{"missing user", func(t *Task) { t.UserID = uuid.Nil }, ErrInvalidInput},
		{"self dependency", func(t *Task) { t.DependencyIDs = UUIDSlice{id} }, ErrSelfDependency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := valid
			tt.mutate(&tk)
			if tt.expected == nil {
				assert.NoError(t, tk.Validate())
			} else {
				assert.ErrorIs(t, tk.Validate(), tt.expected)
			}
		})
	}
}

func TestUUIDSliceContains(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	s := UUIDSlice{a}
	assert.True(t, s.Contains(a))
	assert.False(t, s.Contains(b))
	assert.False(t, UUIDSlice(nil).Contains(a))
}
