package habit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var today = time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)

func day(offset int) string {
	return DayOf(today.AddDate(0, 0, offset))
}

func TestDateListToggle(t *testing.T) {
	var dates DateList

	dates = dates.Toggle(day(0))
	assert.Equal(t, DateList{day(0)}, dates)

	// Toggling the same day again removes it, never duplicates.
	dates = dates.Toggle(day(0))
	assert.Empty(t, dates)

	dates = dates.Toggle(day(-1))
	dates = dates.Toggle(day(0))
	assert.Len(t, dates, 2)
	assert.True(t, dates.Contains(day(-1)))
	assert.True(t, dates.Contains(day(0)))
}

func TestStreakEndingAt(t *testing.T) {
	tests := []struct {
		name     string
		dates    DateList
		expected int
	}{
		{"empty list", nil, 0},
		{"today only", DateList{day(0)}, 1},
		{"three consecutive days", DateList{day(-2), day(-1), day(0)}, 3},
		{"gap breaks the run", DateList{day(-3), day(-2), day(0)}, 1},
		{"missing today is zero even with history", DateList{day(-2), day(-1)}, 0},
		{"order does not matter", DateList{day(0), day(-2), day(-1)}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.dates.StreakEndingAt(today))
		})
	}
}

func TestToggleCompletion(t *testing.T) {
	h := &Habit{
		Title:          "Morning run",
		Frequency:      FrequencyDaily,
		CompletedDates: DateList{day(-2), day(-1)},
	}

	h.ToggleCompletion(today, today)
	assert.Equal(t, 3, h.Streak)
	assert.Equal(t, 3, h.LongestStreak)

	// Un-completing today drops the current streak but keeps the record.
	h.ToggleCompletion(today, today)
	assert.Equal(t, 0, h.Streak)
	assert.Equal(t, 3, h.LongestStreak, "longest streak never decreases")
}

func TestHabitApply(t *testing.T) {
	h := &Habit{Title: "Read", Frequency: FrequencyDaily}
	title := "Read more"
	weekly := FrequencyWeekly

	h.Apply(UpdateHabitInput{Title: &title, Frequency: &weekly}, today)
	assert.Equal(t, "Read more", h.Title)
	assert.Equal(t, FrequencyWeekly, h.Frequency)
	assert.Equal(t, today, h.UpdatedAt)

	// Unset fields are left alone.
	h.Apply(UpdateHabitInput{}, today.Add(time.Hour))
	assert.Equal(t, "Read more", h.Title)
	assert.Equal(t, FrequencyWeekly, h.Frequency)
}
