// Package game implements the progression engine: round generation,
// the scoring ledger, streak tracking, achievement evaluation, and
// notification emission. Persistence goes through the Store interface;
// the rules themselves live in the globetrotter package.
package game

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/ayusharma-ctrl/GIYC/internal/globetrotter"
)

var (
	// ErrInsufficientData means the destination pool is too small to
	// build a round. Recoverable: the caller should ask again later.
	ErrInsufficientData = errors.New("not enough destinations for a round")

	// ErrUserNotFound is fatal to a submission.
	ErrUserNotFound = errors.New("user not found")
)

// NotificationTTL is how long an emitted notification lives before the
// sweeper may purge it.
const NotificationTTL = 24 * time.Hour

const unlockMessage = "New achievement unlocked, Congrats!"
const unlockIcon = "🏆"

// Store is the persistence surface the engine depends on.
type Store interface {
	// RandomDestination picks one destination uniformly at random.
	RandomDestination(ctx context.Context) (globetrotter.Destination, error)
	// RandomCitiesExcluding picks up to n distinct city names, uniformly
	// at random, none equal to city.
	RandomCitiesExcluding(ctx context.Context, city string, n int) ([]string, error)

	ProgressionState(ctx context.Context, userID string) (globetrotter.ProgressionState, error)
	// UpdateProgression overwrites the user's progression fields.
	// Returns ErrUserNotFound if the row does not exist.
	UpdateProgression(ctx context.Context, userID string, state globetrotter.ProgressionState) error
	// RecordGame appends one row to the game log.
	RecordGame(ctx context.Context, userID string, destinationID int64, isCorrect bool) error

	// UnlockedAchievements returns the set of achievement ids already
	// unlocked by the user.
	UnlockedAchievements(ctx context.Context, userID string) (map[int]bool, error)
	// InsertUnlock records an unlock at the given time. Returns false
	// without error when the (user, achievement) pair already exists, so
	// concurrent evaluations produce one winner and a harmless no-op.
	InsertUnlock(ctx context.Context, userID string, achievementID int, unlockedAt time.Time) (bool, error)

	CountSentInvites(ctx context.Context, userID string) (int, error)

	InsertNotification(ctx context.Context, n globetrotter.Notification) error
	DeleteExpiredNotifications(ctx context.Context, now time.Time) (int64, error)
}

// Engine ties the pure rules to a store. Safe for concurrent use.
type Engine struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
	newID  func() string

	// Per-user locks serialize the read-modify-write in RecordResult so
	// concurrent submissions for one user never compute the streak from
	// a stale pre-image. Different users proceed in parallel.
	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

func NewEngine(store Store, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		logger:    logger,
		now:       time.Now,
		newID:     newUUID,
		userLocks: make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Option overrides an Engine default, mainly for tests.
type Option func(*Engine)

// WithClock replaces the engine's time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func (e *Engine) userLock(userID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.userLocks[userID]
	if !ok {
		l = &sync.Mutex{}
		e.userLocks[userID] = l
	}
	return l
}
