package gamification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AchievementCategory string

const (
	CategoryTasks   AchievementCategory = "tasks"
	CategoryStreaks AchievementCategory = "streaks"
	CategoryGoals   AchievementCategory = "goals"
	CategoryTime    AchievementCategory = "time"
	CategorySpecial AchievementCategory = "special"
)

type AchievementTier string

const (
	TierBronze   AchievementTier = "bronze"
	TierSilver   AchievementTier = "silver"
	TierGold     AchievementTier = "gold"
	TierPlatinum AchievementTier = "platinum"
)

// Achievement is a single unlockable badge. Unlocked is a one-way flag:
// once set it is never cleared, even if the backing stat later regresses.
type Achievement struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Category    AchievementCategory `json:"category"`
	Tier        AchievementTier     `json:"tier"`
	Requirement int                 `json:"requirement"`
	Progress    int                 `json:"progress"`
	Unlocked    bool                `json:"unlocked"`
	UnlockedAt  *time.Time          `json:"unlocked_at,omitempty"`
}

// Stats holds the cumulative activity counters achievements are judged
// against. TotalTimeTracked is in minutes.
type Stats struct {
	TotalTasksCompleted    int `json:"total_tasks_completed"`
	TotalHabitsCompleted   int `json:"total_habits_completed"`
	TotalGoalsCompleted    int `json:"total_goals_completed"`
	TotalTimeTracked       int `json:"total_time_tracked"`
	CurrentStreak          int `json:"current_streak"`
	LongestStreak          int `json:"longest_streak"`
	EarlyBirdTasks         int `json:"early_bird_tasks"`
	NightOwlTasks          int `json:"night_owl_tasks"`
	ConsecutivePerfectDays int `json:"consecutive_perfect_days"`
}

// UserGamification is the per-user progression record.
type UserGamification struct {
	UserID        uuid.UUID     `json:"user_id" gorm:"type:uuid;primary_key"`
	XP            int           `json:"xp" gorm:"not null;default:0"`
	Level         int           `json:"level" gorm:"not null;default:1"`
	Achievements  []Achievement `json:"achievements" gorm:"type:jsonb;serializer:json"`
	Stats         Stats         `json:"stats" gorm:"type:jsonb;serializer:json"`
	LastLoginDate *time.Time    `json:"last_login_date,omitempty"`
	CreatedAt     time.Time     `json:"created_at" gorm:"not null;default:current_timestamp"`
	UpdatedAt     time.Time     `json:"updated_at" gorm:"not null;default:current_timestamp"`
}

// TableName specifies the table name for the UserGamification model
func (UserGamification) TableName() string {
	return "user_gamification"
}

// NewUserGamification returns a fresh record at level 1 with the full
// achievement catalog in locked state.
func NewUserGamification(userID uuid.UUID) *UserGamification {
	now := time.Now()
	return &UserGamification{
		UserID:       userID,
		XP:           0,
		Level:        1,
		Achievements: Catalog(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// AddXP raises XP by the reward amount and rederives the level. XP is
// monotone, negative amounts are ignored.
func (g *UserGamification) AddXP(amount int) {
	if amount <= 0 {
		return
	}
	g.XP += amount
	g.Level = CalculateLevel(g.XP)
}

// BeforeCreate is called before creating a gamification record
func (g *UserGamification) BeforeCreate(tx *gorm.DB) error {
	if g.Level == 0 {
		g.Level = 1
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}
	if g.UpdatedAt.Before(g.CreatedAt) {
		g.UpdatedAt = g.CreatedAt
	}
	return nil
}
