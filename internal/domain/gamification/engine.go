package gamification

import (
	"math"
	"time"

	"github.com/jassimshanavas/time-management-sub000/internal/domain/task"
)

// XPForLevel returns the XP required to advance from the given level to the
// next one: floor(100 * level^1.5). Strictly increasing in level.
func XPForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return int(math.Floor(100 * math.Pow(float64(level), 1.5)))
}

// CalculateLevel returns the largest level reachable with the given total
// XP, starting from level 1 and paying each tier's cost in turn.
func CalculateLevel(xp int) int {
	level := 1
	remaining := xp
	for remaining >= XPForLevel(level) {
		remaining -= XPForLevel(level)
		level++
	}
	return level
}

// LevelInfo describes progression within the current level.
type LevelInfo struct {
	Level          int     `json:"level"`
	CurrentXP      int     `json:"current_xp"`
	XPForNextLevel int     `json:"xp_for_next_level"`
	XPToNextLevel  int     `json:"xp_to_next_level"`
	Percent        float64 `json:"percent"`
}

// GetLevelInfo derives the level breakdown for a total XP amount.
// CurrentXP + XPToNextLevel always equals XPForNextLevel.
func GetLevelInfo(xp int) LevelInfo {
	if xp < 0 {
		xp = 0
	}
	level := CalculateLevel(xp)
	consumed := 0
	for l := 1; l < level; l++ {
		consumed += XPForLevel(l)
	}
	current := xp - consumed
	needed := XPForLevel(level)
	return LevelInfo{
		Level:          level,
		CurrentXP:      current,
		XPForNextLevel: needed,
		XPToNextLevel:  needed - current,
		Percent:        100 * float64(current) / float64(needed),
	}
}

// XPReward is the outcome of a rewardable action.
type XPReward struct {
	Amount  int    `json:"amount"`
	Source  string `json:"source"`
	Message string `json:"message"`
}

// TaskXPReward maps a task priority to its completion reward.
func TaskXPReward(priority task.TaskPriority) XPReward {
	switch priority {
	case task.TaskPriorityHigh:
		return XPReward{Amount: 50, Source: "task_completed", Message: "High priority task completed! +50 XP"}
	case task.TaskPriorityMedium:
		return XPReward{Amount: 25, Source: "task_completed", Message: "Task completed! +25 XP"}
	default:
		return XPReward{Amount: 10, Source: "task_completed", Message: "Task completed! +10 XP"}
	}
}

// progressFor resolves the stat value an achievement is judged against.
func progressFor(a Achievement, stats Stats) int {
	switch a.Category {
	case CategoryTasks:
		return stats.TotalTasksCompleted
	case CategoryStreaks:
		return stats.LongestStreak
	case CategoryGoals:
		return stats.TotalGoalsCompleted
	case CategoryTime:
		return stats.TotalTimeTracked / 60
	case CategorySpecial:
		switch a.ID {
		case "early_bird":
			return stats.EarlyBirdTasks
		case "night_owl":
			return stats.NightOwlTasks
		case "perfect_week":
			return stats.ConsecutivePerfectDays
		}
	}
	return 0
}

// CheckAchievements recomputes progress for every locked achievement and
// unlocks those whose progress reached the requirement. Unlocked
// achievements are left untouched, regressing stats never re-lock them.
// The input slice is not mutated.
func CheckAchievements(stats Stats, achievements []Achievement, now time.Time) []Achievement {
	out := make([]Achievement, len(achievements))
	copy(out, achievements)
	for i := range out {
		if out[i].Unlocked {
			continue
		}
		progress := progressFor(out[i], stats)
		if progress > out[i].Requirement {
			progress = out[i].Requirement
		}
		out[i].Progress = progress
		if progress >= out[i].Requirement {
			unlockedAt := now
			out[i].Unlocked = true
			out[i].UnlockedAt = &unlockedAt
		}
	}
	return out
}

// NewlyUnlocked returns the achievements unlocked in updated that were not
// unlocked (or not present) in previous, matched by id. Feeding the result
// to a notifier reports each unlock exactly once.
func NewlyUnlocked(previous, updated []Achievement) []Achievement {
	was := make(map[string]bool, len(previous))
	for _, a := range previous {
		was[a.ID] = a.Unlocked
	}
	var fresh []Achievement
	for _, a := range updated {
		if a.Unlocked && !was[a.ID] {
			fresh = append(fresh, a)
		}
	}
	return fresh
}
