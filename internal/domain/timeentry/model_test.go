package timeentry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStop(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	e := &TimeEntry{Category: "work", StartTime: start, IsRunning: true}

	stopped := e.Stop(start.Add(95*time.Minute), "wrapped up")
	assert.True(t, stopped)
	assert.False(t, e.IsRunning)
	require.NotNil(t, e.EndTime)
	assert.Equal(t, start.Add(95*time.Minute), *e.EndTime)
	require.NotNil(t, e.Duration)
	assert.Equal(t, 95, *e.Duration)
	assert.Equal(t, "wrapped up", e.Notes)
}

func TestStopTruncatesPartialMinutes(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	e := &TimeEntry{Category: "work", StartTime: start, IsRunning: true}

	e.Stop(start.Add(5*time.Minute+59*time.Second), "")
	require.NotNil(t, e.Duration)
	assert.Equal(t, 5, *e.Duration)
}

func TestStopIdempotent(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	e := &TimeEntry{Category: "work", StartTime: start, IsRunning: true}

	require.True(t, e.Stop(start.Add(30*time.Minute), ""))
	firstEnd := *e.EndTime

	// A second stop must not move the recorded end or duration.
	assert.False(t, e.Stop(start.Add(2*time.Hour), "later"))
	assert.Equal(t, firstEnd, *e.EndTime)
	assert.Equal(t, 30, *e.Duration)
	assert.Empty(t, e.Notes)
}

func TestStopClockSkew(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	e := &TimeEntry{Category: "work", StartTime: start, IsRunning: true}

	// An end before the start clamps duration at zero instead of going
	// negative.
	e.Stop(start.Add(-10*time.Minute), "")
	require.NotNil(t, e.Duration)
	assert.Equal(t, 0, *e.Duration)
}
