package habit

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidInput     = errors.New("invalid habit input")
	ErrInvalidFrequency = errors.New("invalid habit frequency")
)

type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

// DayLayout is the canonical calendar-day format for completion tracking.
// Completions are compared by day, never by exact timestamp.
const DayLayout = "2006-01-02"

// DayOf truncates a timestamp to its calendar day.
func DayOf(t time.Time) string {
	return t.Format(DayLayout)
}

// DateList is a deduplicated set of calendar days in DayLayout format.
type DateList []string

// Contains reports whether the given day is present.
func (d DateList) Contains(day string) bool {
	for _, v := range d {
		if v == day {
			return true
		}
	}
	return false
}

// Toggle returns a copy with the day added if absent or removed if present.
func (d DateList) Toggle(day string) DateList {
	out := make(DateList, 0, len(d)+1)
	removed := false
	for _, v := range d {
		if v == day {
			removed = true
			continue
		}
		out = append(out, v)
	}
	if !removed {
		out = append(out, day)
	}
	return out
}

// StreakEndingAt returns the length of the maximal run of consecutive
// calendar days present in the list, counted backward from today. A missing
// today breaks the run at zero.
func (d DateList) StreakEndingAt(today time.Time) int {
	streak := 0
	day := today
	for d.Contains(DayOf(day)) {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// Habit represents a recurring habit with streak tracking.
type Habit struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID         uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index:idx_habit_user"`
	Title          string     `json:"title" gorm:"size:255;not null"`
	Frequency      Frequency  `json:"frequency" gorm:"type:varchar(20);not null;default:'daily'"`
	Streak         int        `json:"streak" gorm:"default:0;not null"`
	LongestStreak  int        `json:"longest_streak" gorm:"default:0;not null"`
	CompletedDates DateList   `json:"completed_dates" gorm:"type:jsonb;serializer:json"`
	ProjectID      *uuid.UUID `json:"project_id,omitempty" gorm:"type:uuid"`
	CreatedAt      time.Time  `json:"created_at" gorm:"not null;default:current_timestamp"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"not null;default:current_timestamp"`
}

// CreateHabitInput represents the input for creating a habit
type CreateHabitInput struct {
	Title     string     `json:"title"`
	Frequency Frequency  `json:"frequency"`
	ProjectID *uuid.UUID `json:"project_id,omitempty"`
}

// UpdateHabitInput represents a partial patch applied to a habit
type UpdateHabitInput struct {
	Title     *string    `json:"title,omitempty"`
	Frequency *Frequency `json:"frequency,omitempty"`
	ProjectID *uuid.UUID `json:"project_id,omitempty"`
}

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly:
		return true
	}
	return false
}

// TableName specifies the table name for the Habit model
func (Habit) TableName() string {
	return "habits"
}

// ToggleCompletion flips the completion state for the calendar day of the
// given timestamp and recomputes both streak fields against today.
// LongestStreak never decreases.
func (h *Habit) ToggleCompletion(at time.Time, today time.Time) {
	h.CompletedDates = h.CompletedDates.Toggle(DayOf(at))
	h.Streak = h.CompletedDates.StreakEndingAt(today)
	if h.Streak > h.LongestStreak {
		h.LongestStreak = h.Streak
	}
}

// Apply merges a patch into the habit.
func (h *Habit) Apply(input UpdateHabitInput, now time.Time) {
	if input.Title != nil {
		h.Title = *input.Title
	}
	if input.Frequency != nil {
		h.Frequency = *input.Frequency
	}
	if input.ProjectID != nil {
		h.ProjectID = input.ProjectID
	}
	h.UpdatedAt = now
}

// Validate checks if the habit data is valid
func (h *Habit) Validate() error {
	if h.Title == "" {
		return ErrInvalidInput
	}
	if h.UserID == uuid.Nil {
		return ErrInvalidInput
	}
	if !h.Frequency.IsValid() {
		return ErrInvalidFrequency
	}
	if h.LongestStreak < h.Streak {
		return ErrInvalidInput
	}
	return nil
}

// BeforeCreate is called before creating a new habit record
func (h *Habit) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	if h.Frequency == "" {
		h.Frequency = FrequencyDaily
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now()
	}
	if h.UpdatedAt.Before(h.CreatedAt) {
		h.UpdatedAt = h.CreatedAt
	}
	return h.Validate()
}

// BeforeUpdate is called before updating a habit record
func (h *Habit) BeforeUpdate(tx *gorm.DB) error {
	return h.Validate()
}
