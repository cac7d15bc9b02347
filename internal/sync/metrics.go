package sync

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	optimisticUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_optimistic_updates_total",
		Help: "Optimistic local mutations applied before remote confirmation",
	}, []string{"entity"})

	remoteFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_remote_failures_total",
		Help: "Remote operations that failed, by entity and operation",
	}, []string{"entity", "op"})

	selfHeals = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_self_heals_total",
		Help: "Local entities pruned after the remote reported them gone",
	}, []string{"entity"})

	rollbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_rollbacks_total",
		Help: "Optimistic patches reverted under the rollback conflict policy",
	}, []string{"entity"})

	xpAwarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gamification_xp_awarded_total",
		Help: "Total XP awarded across all users",
	})

	achievementsUnlocked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gamification_achievements_unlocked_total",
		Help: "Achievements unlocked across all users",
	})
)
