package goal

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func milestones(completed ...bool) []Milestone {
	out := make([]Milestone, len(completed))
	for i, c := range completed {
		out[i] = Milestone{ID: uuid.New(), Title: "step", Completed: c}
	}
	return out
}

func TestRecalcProgress(t *testing.T) {
	tests := []struct {
		name     string
		goal     Goal
		expected int
	}{
		{"no milestones keeps manual progress", Goal{Progress: 42}, 42},
		{"half completed", Goal{Milestones: milestones(true, true, false, false)}, 50},
		{"all completed", Goal{Milestones: milestones(true, true)}, 100},
		{"none completed overrides manual value", Goal{Progress: 80, Milestones: milestones(false, false)}, 0},
		{"one of three rounds to nearest", Goal{Milestones: milestones(true, false, false)}, 33},
		{"two of three rounds up", Goal{Milestones: milestones(true, true, false)}, 67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.goal.RecalcProgress()
			assert.Equal(t, tt.expected, tt.goal.Progress)
		})
	}
}

func TestGoalApply(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	g := &Goal{Title: "Ship it", Milestones: milestones(false, false)}

	done := milestones(true, false)
	g.Apply(UpdateGoalInput{Milestones: &done}, now)
	assert.Equal(t, 50, g.Progress)
	assert.Equal(t, now, g.UpdatedAt)

	// Explicit progress on a milestone-backed goal is rederived.
	ninety := 90
	g.Apply(UpdateGoalInput{Progress: &ninety}, now)
	assert.Equal(t, 50, g.Progress)
}

func TestGoalApplyClampsProgress(t *testing.T) {
	now := time.Now()
	g := &Goal{Title: "Freeform"}

	over := 150
	g.Apply(UpdateGoalInput{Progress: &over}, now)
	assert.Equal(t, 100, g.Progress)

	under := -5
	g.Apply(UpdateGoalInput{Progress: &under}, now)
	assert.Equal(t, 0, g.Progress)
}

func TestGoalValidate(t *testing.T) {
	g := &Goal{Title: "ok", UserID: uuid.New(), Progress: 50}
	assert.NoError(t, g.Validate())

	g.Title = ""
	assert.ErrorIs(t, g.Validate(), ErrInvalidInput)

	g.Title = "ok"
	g.Progress = 101
	assert.ErrorIs(t, g.Validate(), ErrInvalidProgress)
}
