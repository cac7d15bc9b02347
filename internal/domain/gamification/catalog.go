package gamification

// catalog is the static achievement definition set, keyed by string id.
// Configuration data, loaded once; unlock state lives on the per-user copy.
var catalog = []Achievement{
	{ID: "task_starter", Title: "Getting Started", Description: "Complete your first task", Category: CategoryTasks, Tier: TierBronze, Requirement: 1},
	{ID: "task_ten", Title: "Task Tamer", Description: "Complete 10 tasks", Category: CategoryTasks, Tier: TierBronze, Requirement: 10},
	{ID: "task_fifty", Title: "Productivity Pro", Description: "Complete 50 tasks", Category: CategoryTasks, Tier: TierSilver, Requirement: 50},
	{ID: "task_hundred", Title: "Century Club", Description: "Complete 100 tasks", Category: CategoryTasks, Tier: TierGold, Requirement: 100},
	{ID: "task_five_hundred", Title: "Task Legend", Description: "Complete 500 tasks", Category: CategoryTasks, Tier: TierPlatinum, Requirement: 500},

	{ID: "streak_three", Title: "On a Roll", Description: "Keep a 3-day streak", Category: CategoryStreaks, Tier: TierBronze, Requirement: 3},
	{ID: "streak_week", Title: "Week Warrior", Description: "Keep a 7-day streak", Category: CategoryStreaks, Tier: TierSilver, Requirement: 7},
	{ID: "streak_month", Title: "Habit Machine", Description: "Keep a 30-day streak", Category: CategoryStreaks, Tier: TierGold, Requirement: 30},
	{ID: "streak_hundred", Title: "Unstoppable", Description: "Keep a 100-day streak", Category: CategoryStreaks, Tier: TierPlatinum, Requirement: 100},

	{ID: "goal_first", Title: "Goal Getter", Description: "Complete your first goal", Category: CategoryGoals, Tier: TierBronze, Requirement: 1},
	{ID: "goal_five", Title: "Ambitious", Description: "Complete 5 goals", Category: CategoryGoals, Tier: TierSilver, Requirement: 5},
	{ID: "goal_twenty", Title: "Visionary", Description: "Complete 20 goals", Category: CategoryGoals, Tier: TierGold, Requirement: 20},

	{ID: "time_ten_hours", Title: "Clocked In", Description: "Track 10 hours", Category: CategoryTime, Tier: TierBronze, Requirement: 10},
	{ID: "time_fifty_hours", Title: "Deep Worker", Description: "Track 50 hours", Category: CategoryTime, Tier: TierSilver, Requirement: 50},
	{ID: "time_two_hundred", Title: "Time Lord", Description: "Track 200 hours", Category: CategoryTime, Tier: TierGold, Requirement: 200},

	{ID: "early_bird", Title: "Early Bird", Description: "Complete 10 tasks before 8am", Category: CategorySpecial, Tier: TierSilver, Requirement: 10},
	{ID: "night_owl", Title: "Night Owl", Description: "Complete 10 tasks after 10pm", Category: CategorySpecial, Tier: TierSilver, Requirement: 10},
	{ID: "perfect_week", Title: "Perfect Week", Description: "7 consecutive perfect days", Category: CategorySpecial, Tier: TierGold, Requirement: 7},
}

// Catalog returns a fresh locked copy of the achievement definitions.
func Catalog() []Achievement {
	out := make([]Achievement, len(catalog))
	copy(out, catalog)
	return out
}
