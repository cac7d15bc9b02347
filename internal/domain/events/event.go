package events

import (
	"time"

	"github.com/google/uuid"
)

// Sync event types published on the store event channel
const (
	EventTypeEntityAdded       = "entity_added"
	EventTypeEntityUpdated     = "entity_updated"
	EventTypeEntityDeleted     = "entity_deleted"
	EventTypeEntityPruned      = "entity_pruned"
	EventTypeDataCleared       = "data_cleared"
	EventTypeAchievementUnlock = "achievement_unlocked"
	EventTypeLevelUp           = "level_up"
)

// SyncEvent describes a change the synchronization store applied, published
// for cache invalidation and client refresh. EntityID is nil for events
// without a subject entity (data_cleared, level_up) so the field is omitted
// from the wire payload instead of carrying a zero uuid.
type SyncEvent struct {
	EventType  string      `json:"event_type"`
	UserID     uuid.UUID   `json:"user_id"`
	EntityKind string      `json:"entity_kind,omitempty"`
	EntityID   *uuid.UUID  `json:"entity_id,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	Details    interface{} `json:"details,omitempty"`
}
