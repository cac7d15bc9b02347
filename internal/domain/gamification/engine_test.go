package gamification

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jassimshanavas/time-management-sub000/internal/domain/task"
)

func TestXPForLevel(t *testing.T) {
	assert.Equal(t, 100, XPForLevel(1))
	assert.Equal(t, 282, XPForLevel(2))
	assert.Equal(t, 519, XPForLevel(3))

	// Strictly increasing: each tier costs more than the previous one.
	for level := 1; level < 50; level++ {
		assert.Less(t, XPForLevel(level), XPForLevel(level+1),
			"cost must grow at level %d", level)
	}
}

func TestCalculateLevel(t *testing.T) {
	tests := []struct {
		name     string
		xp       int
		expected int
	}{
		{"zero xp is level 1", 0, 1},
		{"just below first threshold", 99, 1},
		{"exactly first threshold", 100, 2},
		{"mid second level", 200, 2},
		{"exactly second threshold", 382, 3},
		{"negative treated as zero", -10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CalculateLevel(tt.xp))
		})
	}
}

func TestCalculateLevelMonotonic(t *testing.T) {
	prev := CalculateLevel(0)
	for xp := 1; xp <= 20000; xp += 37 {
		level := CalculateLevel(xp)
		assert.GreaterOrEqual(t, level, prev, "level regressed at xp=%d", xp)
		prev = level
	}
}

func TestGetLevelInfoConsistency(t *testing.T) {
	for _, xp := range []int{0, 1, 99, 100, 101, 382, 383, 1000, 5000, 123456} {
		info := GetLevelInfo(xp)
		assert.GreaterOrEqual(t, info.CurrentXP, 0, "xp=%d", xp)
		assert.GreaterOrEqual(t, info.XPToNextLevel, 0, "xp=%d", xp)
		assert.Equal(t, info.XPForNextLevel, info.CurrentXP+info.XPToNextLevel, "xp=%d", xp)
		assert.Equal(t, CalculateLevel(xp), info.Level, "xp=%d", xp)
	}
}

func TestTaskXPReward(t *testing.T) {
	assert.Equal(t, 10, TaskXPReward(task.TaskPriorityLow).Amount)
	assert.Equal(t, 25, TaskXPReward(task.TaskPriorityMedium).Amount)
	assert.Equal(t, 50, TaskXPReward(task.TaskPriorityHigh).Amount)
	assert.NotEmpty(t, TaskXPReward(task.TaskPriorityHigh).Message)
}

func TestCheckAchievementsUnlocks(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	stats := Stats{TotalTasksCompleted: 1}

	updated := CheckAchievements(stats, Catalog(), now)

	starter := findAchievement(t, updated, "task_starter")
	assert.True(t, starter.Unlocked)
	require.NotNil(t, starter.UnlockedAt)
	assert.Equal(t, now, *starter.UnlockedAt)
	assert.Equal(t, 1, starter.Progress)

	ten := findAchievement(t, updated, "task_ten")
	assert.False(t, ten.Unlocked)
	assert.Equal(t, 1, ten.Progress)
}

func TestCheckAchievementsOneWay(t *testing.T) {
	now := time.Now()
	unlocked := CheckAchievements(Stats{LongestStreak: 7}, Catalog(), now)
	week := findAchievement(t, unlocked, "streak_week")
	require.True(t, week.Unlocked)

	// A regressed streak must not re-lock the badge.
	regressed := CheckAchievements(Stats{LongestStreak: 0}, unlocked, now.Add(time.Hour))
	week = findAchievement(t, regressed, "streak_week")
	assert.True(t, week.Unlocked)
	assert.Equal(t, 7, week.Progress, "unlocked achievements are never re-evaluated")
}

func TestCheckAchievementsTimeCategory(t *testing.T) {
	// Time achievements are judged in whole hours.
	now := time.Now()
	updated := CheckAchievements(Stats{TotalTimeTracked: 599}, Catalog(), now)
	assert.False(t, findAchievement(t, updated, "time_ten_hours").Unlocked)

	updated = CheckAchievements(Stats{TotalTimeTracked: 600}, Catalog(), now)
	assert.True(t, findAchievement(t, updated, "time_ten_hours").Unlocked)
}

func TestCheckAchievementsDoesNotMutateInput(t *testing.T) {
	input := Catalog()
	CheckAchievements(Stats{TotalTasksCompleted: 100}, input, time.Now())
	for _, a := range input {
		assert.False(t, a.Unlocked, "input slice mutated for %s", a.ID)
	}
}

func TestNewlyUnlocked(t *testing.T) {
	now := time.Now()
	first := CheckAchievements(Stats{TotalTasksCompleted: 1}, Catalog(), now)
	fresh := NewlyUnlocked(Catalog(), first)
	require.Len(t, fresh, 1)
	assert.Equal(t, "task_starter", fresh[0].ID)

	// Re-running against the already reported state reports nothing.
	second := CheckAchievements(Stats{TotalTasksCompleted: 2}, first, now)
	assert.Empty(t, NewlyUnlocked(first, second))

	// Crossing the next threshold reports only the new unlock.
	third := CheckAchievements(Stats{TotalTasksCompleted: 10}, second, now)
	fresh = NewlyUnlocked(second, third)
	require.Len(t, fresh, 1)
	assert.Equal(t, "task_ten", fresh[0].ID)
}

func TestAddXPDerivesLevel(t *testing.T) {
	g := NewUserGamification(uuid.New())
	g.AddXP(50)
	assert.Equal(t, 50, g.XP)
	assert.Equal(t, 1, g.Level)

	g.AddXP(50)
	assert.Equal(t, 100, g.XP)
	assert.Equal(t, 2, g.Level)

	g.AddXP(-10)
	assert.Equal(t, 100, g.XP, "xp is monotone")
}

func findAchievement(t *testing.T, achievements []Achievement, id string) Achievement {
	t.Helper()
	for _, a := range achievements {
		if a.ID == id {
			return a
		}
	}
	t.Fatalf("achievement %s not found", id)
	return Achievement{}
}
