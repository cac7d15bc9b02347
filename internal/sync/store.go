package sync

import (
	"context"
	stdsync "sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jassimshanavas/time-management-sub000/internal/domain/events"
	"github.com/jassimshanavas/time-management-sub000/internal/domain/gamification"
	"github.com/jassimshanavas/time-management-sub000/internal/domain/goal"
	"github.com/jassimshanavas/time-management-sub000/internal/domain/habit"
	"github.com/jassimshanavas/time-management-sub000/internal/domain/note"
	"github.com/jassimshanavas/time-management-sub000/internal/domain/project"
	"github.com/jassimshanavas/time-management-sub000/internal/domain/reminder"
	"github.com/jassimshanavas/time-management-sub000/internal/domain/task"
	"github.com/jassimshanavas/time-management-sub000/internal/domain/timeentry"
	"github.com/jassimshanavas/time-management-sub000/pkg/broker"
	"github.com/jassimshanavas/time-management-sub000/pkg/logger"
)

// ConflictPolicy decides what happens to an optimistic local patch when the
// remote write fails for a reason other than the record being gone.
type ConflictPolicy string

const (
	// ConflictKeepLocal leaves the optimistic patch in place and returns
	// the error to the caller. Responsiveness over strict consistency.
	ConflictKeepLocal ConflictPolicy = "keep_local"
	// ConflictRollback reverts the optimistic patch before returning the
	// error.
	ConflictRollback ConflictPolicy = "rollback"
)

// AchievementTopic is the broker topic unlock notifications fan out on.
const AchievementTopic = "achievements.unlocked"

// Store is the in-memory mirror of the remote persistent store. It is the
// single source of truth for callers: reads come straight from the cached
// slices, writes go through the optimistic reconciliation policy. Every
// method is a no-op returning nil until a user is set.
//
// A mutex guards the slices; beyond that concurrent updates to the same
// entity are not serialized against each other, the last remote response
// wins. Acceptable for a single-user client, not for multi-writer use.
type Store struct {
	mu     stdsync.RWMutex
	remote       Remote
	logger       *logger.Logger
	events       EventPublisher
	broker       broker.MessageBroker
	policy       ConflictPolicy
	now          func() time.Time
	gamification bool

	userID uuid.UUID

	tasks     []task.Task
	goals     []goal.Goal
	habits    []habit.Habit
	entries   []timeentry.TimeEntry
	notes     []note.Note
	reminders []reminder.Reminder
	projects  []project.Project
	progress  *gamification.UserGamification
}

// Option configures a Store.
type Option func(*Store)

// WithEventPublisher wires a publisher for sync events.
func WithEventPublisher(p EventPublisher) Option {
	return func(s *Store) { s.events = p }
}

// WithBroker wires a message broker for achievement unlock fan-out.
func WithBroker(b broker.MessageBroker) Option {
	return func(s *Store) { s.broker = b }
}

// WithConflictPolicy overrides the default keep-local policy.
func WithConflictPolicy(p ConflictPolicy) Option {
	return func(s *Store) {
		if p == ConflictKeepLocal || p == ConflictRollback {
			s.policy = p
		}
	}
}

// WithNowFunc overrides the clock. Used in tests.
func WithNowFunc(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithGamification toggles the progression hooks. When disabled, XP, stats
// and achievement checks are skipped entirely; entity operations are
// unaffected. Enabled by default.
func WithGamification(enabled bool) Option {
	return func(s *Store) { s.gamification = enabled }
}

// NewStore creates an empty store bound to the given remote.
func NewStore(remote Remote, log *logger.Logger, opts ...Option) *Store {
	s := &Store{
		remote:       remote,
		logger:       log,
		policy:       ConflictKeepLocal,
		now:          time.Now,
		gamification: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetUser scopes the store to a user. Switching users resets all cached
// state; callers are expected to follow up with the Load methods.
func (s *Store) SetUser(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userID == userID {
		return
	}
	s.userID = userID
	s.resetLocked()
}

// UserID returns the currently scoped user, uuid.Nil when logged out.
func (s *Store) UserID() uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// Reset empties every cached list. Remote state is untouched.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Store) resetLocked() {
	s.tasks = nil
	s.goals = nil
	s.habits = nil
	s.entries = nil
	s.notes = nil
	s.reminders = nil
	s.projects = nil
	s.progress = nil
}

// ClearAllData deletes everything the user owns from the remote store and,
// only after that succeeds, resets the local caches. A remote failure
// aborts the whole operation with local state untouched. The lock is not
// held across the remote call, so readers keep serving during the wipe.
func (s *Store) ClearAllData(ctx context.Context) error {
	s.mu.RLock()
	userID := s.userID
	s.mu.RUnlock()
	if userID == uuid.Nil {
		return nil
	}
	if err := s.remote.ClearAll(ctx, userID); err != nil {
		s.logger.Error("failed to clear remote data",
			zap.String("user_id", userID.String()), zap.Error(err))
		return err
	}
	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()
	s.publish(ctx, events.EventTypeDataCleared, "", uuid.Nil, userID, nil)
	return nil
}

// publish emits a sync event. Best effort: failures are logged and dropped.
func (s *Store) publish(ctx context.Context, eventType, kind string, entityID, userID uuid.UUID, details interface{}) {
	if s.events == nil {
		return
	}
	event := &events.SyncEvent{
		EventType:  eventType,
		UserID:     userID,
		EntityKind: kind,
		Timestamp:  s.now().UTC(),
		Details:    details,
	}
	if entityID != uuid.Nil {
		event.EntityID = &entityID
	}
	if err := s.events.PublishSyncEvent(ctx, event); err != nil {
		s.logger.Error("failed to publish sync event",
			zap.String("event_type", eventType), zap.Error(err))
	}
}

// Tasks returns a snapshot of the cached task list.
func (s *Store) Tasks() []task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]task.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Goals returns a snapshot of the cached goal list.
func (s *Store) Goals() []goal.Goal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]goal.Goal, len(s.goals))
	copy(out, s.goals)
	return out
}

// Habits returns a snapshot of the cached habit list.
func (s *Store) Habits() []habit.Habit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]habit.Habit, len(s.habits))
	copy(out, s.habits)
	return out
}

// TimeEntries returns a snapshot of the cached time entry list.
func (s *Store) TimeEntries() []timeentry.TimeEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]timeentry.TimeEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Notes returns a snapshot of the cached note list.
func (s *Store) Notes() []note.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]note.Note, len(s.notes))
	copy(out, s.notes)
	return out
}

// Reminders returns a snapshot of the cached reminder list.
func (s *Store) Reminders() []reminder.Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]reminder.Reminder, len(s.reminders))
	copy(out, s.reminders)
	return out
}

// Projects returns a snapshot of the cached project list.
func (s *Store) Projects() []project.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]project.Project, len(s.projects))
	copy(out, s.projects)
	return out
}
