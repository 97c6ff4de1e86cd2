package game

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/ayusharma-ctrl/GIYC/internal/globetrotter"
)

type fakeStore struct {
	mu            sync.Mutex
	destinations  []globetrotter.Destination
	users         map[string]globetrotter.ProgressionState
	unlocks       map[string]map[int]bool
	unlockTimes   map[string]map[int]time.Time
	invites       map[string]int
	notifications []globetrotter.Notification
	games         []globetrotter.GameRecord

	failUnlockRead bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:       make(map[string]globetrotter.ProgressionState),
		unlocks:     make(map[string]map[int]bool),
		unlockTimes: make(map[string]map[int]time.Time),
		invites:     make(map[string]int),
	}
}

func (f *fakeStore) RandomDestination(_ context.Context) (globetrotter.Destination, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.destinations) == 0 {
		return globetrotter.Destination{}, errors.New("empty catalog")
	}
	return f.destinations[0], nil
}

func (f *fakeStore) RandomCitiesExcluding(_ context.Context, city string, n int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var cities []string
	for _, d := range f.destinations {
		if d.City != city && !slices.Contains(cities, d.City) {
			cities = append(cities, d.City)
		}
		if len(cities) == n {
			break
		}
	}
	return cities, nil
}

func (f *fakeStore) ProgressionState(_ context.Context, userID string) (globetrotter.ProgressionState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.users[userID]
	if !ok {
		return globetrotter.ProgressionState{}, ErrUserNotFound
	}
	return s, nil
}

func (f *fakeStore) UpdateProgression(_ context.Context, userID string, state globetrotter.ProgressionState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[userID]; !ok {
		return ErrUserNotFound
	}
	// The sqlite store hands timestamps back in UTC; mirror that so
	// streak math sees the same mix of locations it does in production.
	if state.LastPlayedAt != nil {
		t := state.LastPlayedAt.UTC()
		state.LastPlayedAt = &t
	}
	f.users[userID] = state
	return nil
}

func (f *fakeStore) RecordGame(_ context.Context, userID string, destinationID int64, isCorrect bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.games = append(f.games, globetrotter.GameRecord{UserID: userID, DestinationID: destinationID, IsCorrect: isCorrect})
	return nil
}

func (f *fakeStore) UnlockedAchievements(_ context.Context, userID string) (map[int]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUnlockRead {
		return nil, errors.New("store blew up")
	}
	out := make(map[int]bool)
	for id := range f.unlocks[userID] {
		out[id] = true
	}
	return out, nil
}

func (f *fakeStore) InsertUnlock(_ context.Context, userID string, achievementID int, unlockedAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unlocks[userID] == nil {
		f.unlocks[userID] = make(map[int]bool)
	}
	if f.unlockTimes[userID] == nil {
		f.unlockTimes[userID] = make(map[int]time.Time)
	}
	if f.unlocks[userID][achievementID] {
		return false, nil
	}
	f.unlocks[userID][achievementID] = true
	f.unlockTimes[userID][achievementID] = unlockedAt
	return true, nil
}

func (f *fakeStore) CountSentInvites(_ context.Context, userID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.invites[userID], nil
}

func (f *fakeStore) InsertNotification(_ context.Context, n globetrotter.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications = append(f.notifications, n)
	return nil
}

func (f *fakeStore) DeleteExpiredNotifications(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []globetrotter.Notification
	var deleted int64
	for _, n := range f.notifications {
		if n.ExpiresAt.After(now) {
			kept = append(kept, n)
		} else {
			deleted++
		}
	}
	f.notifications = kept
	return deleted, nil
}

func testEngine(store Store, opts ...Option) *Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEngine(store, logger, opts...)
}

func catalog(cities ...string) []globetrotter.Destination {
	var ds []globetrotter.Destination
	for i, c := range cities {
		ds = append(ds, globetrotter.Destination{
			ID:       int64(i + 1),
			City:     c,
			Country:  "Country of " + c,
			Clues:    []string{"clue one", "clue two"},
			FunFacts: []string{"fact one", "fact two"},
			Trivia:   []string{"trivia one", "trivia two"},
		})
	}
	return ds
}

func TestGenerateRound(t *testing.T) {
	store := newFakeStore()
	store.destinations = catalog("Paris", "Tokyo", "Lima", "Cairo", "Oslo")
	e := testEngine(store)

	round, err := e.GenerateRound(context.Background())
	if err != nil {
		t.Fatalf("generating round: %v", err)
	}

	if len(round.Options) != 4 {
		t.Fatalf("expected 4 options, got %d", len(round.Options))
	}
	if round.CorrectAnswer != round.Destination.City {
		t.Errorf("correct answer %q does not match destination city %q", round.CorrectAnswer, round.Destination.City)
	}

	seen := make(map[string]int)
	for _, o := range round.Options {
		seen[o]++
	}
	if len(seen) != 4 {
		t.Errorf("options contain duplicates: %v", round.Options)
	}
	if seen[round.CorrectAnswer] != 1 {
		t.Errorf("correct answer appears %d times in options", seen[round.CorrectAnswer])
	}
}

func TestGenerateRoundInsufficientData(t *testing.T) {
	store := newFakeStore()
	store.destinations = catalog("Paris", "Tokyo", "Lima")
	e := testEngine(store)

	if _, err := e.GenerateRound(context.Background()); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestSubmitResultFreshUser(t *testing.T) {
	store := newFakeStore()
	store.users["u1"] = globetrotter.ProgressionState{}
	e := testEngine(store)

	outcome, err := e.SubmitResult(context.Background(), "u1", 7, true)
	if err != nil {
		t.Fatalf("submitting: %v", err)
	}

	s := outcome.State
	if s.TotalPlayed != 1 || s.TotalCorrect != 1 || s.TotalWrong != 0 {
		t.Errorf("unexpected counters: %+v", s)
	}
	if s.CurrentStreak != 1 || s.LongestStreak != 1 {
		t.Errorf("unexpected streaks: %+v", s)
	}
	if s.LastPlayedAt == nil {
		t.Error("lastPlayedAt not set")
	}

	if want := []int{1, 2}; !slices.Equal(outcome.NewAchievements, want) {
		t.Errorf("expected unlocks %v, got %v", want, outcome.NewAchievements)
	}
	if len(store.notifications) != 2 {
		t.Errorf("expected 2 unlock notifications, got %d", len(store.notifications))
	}
	if len(store.games) != 1 || store.games[0].DestinationID != 7 {
		t.Errorf("game log not written: %v", store.games)
	}
}

func TestSubmitResultWrongAnswer(t *testing.T) {
	store := newFakeStore()
	store.users["u1"] = globetrotter.ProgressionState{}
	e := testEngine(store)

	outcome, err := e.SubmitResult(context.Background(), "u1", 1, false)
	if err != nil {
		t.Fatalf("submitting: %v", err)
	}

	s := outcome.State
	if s.TotalPlayed != 1 || s.TotalCorrect != 0 || s.TotalWrong != 1 {
		t.Errorf("unexpected counters: %+v", s)
	}
	// Played-once achievement only, no first win.
	if want := []int{1}; !slices.Equal(outcome.NewAchievements, want) {
		t.Errorf("expected unlocks %v, got %v", want, outcome.NewAchievements)
	}
}

func TestSubmitResultUserNotFound(t *testing.T) {
	e := testEngine(newFakeStore())

	if _, err := e.SubmitResult(context.Background(), "ghost", 1, true); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestSubmitResultConsecutiveDays(t *testing.T) {
	store := newFakeStore()
	store.users["u1"] = globetrotter.ProgressionState{}

	day := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	e := testEngine(store, WithClock(func() time.Time { return day }))

	if _, err := e.SubmitResult(context.Background(), "u1", 1, true); err != nil {
		t.Fatalf("day one: %v", err)
	}

	day = day.AddDate(0, 0, 1)
	outcome, err := e.SubmitResult(context.Background(), "u1", 2, true)
	if err != nil {
		t.Fatalf("day two: %v", err)
	}

	if outcome.State.CurrentStreak != 2 || outcome.State.LongestStreak != 2 {
		t.Errorf("expected streak 2/2, got %d/%d", outcome.State.CurrentStreak, outcome.State.LongestStreak)
	}

	// Second play later the same day keeps the streak.
	day = day.Add(4 * time.Hour)
	outcome, err = e.SubmitResult(context.Background(), "u1", 3, false)
	if err != nil {
		t.Fatalf("same day replay: %v", err)
	}
	if outcome.State.CurrentStreak != 2 {
		t.Errorf("same-day replay changed streak to %d", outcome.State.CurrentStreak)
	}

	// Skipping a day resets, but the longest streak survives.
	day = day.AddDate(0, 0, 2)
	outcome, err = e.SubmitResult(context.Background(), "u1", 4, true)
	if err != nil {
		t.Fatalf("after gap: %v", err)
	}
	if outcome.State.CurrentStreak != 1 || outcome.State.LongestStreak != 2 {
		t.Errorf("expected streak 1/2 after gap, got %d/%d", outcome.State.CurrentStreak, outcome.State.LongestStreak)
	}
}

func TestSubmitResultStreakWithZonedClock(t *testing.T) {
	// The engine clock runs in the host zone while the store returns
	// UTC timestamps. The streak must still extend across local days.
	store := newFakeStore()
	store.users["u1"] = globetrotter.ProgressionState{}

	ist := time.FixedZone("IST", 5*3600+1800)
	day := time.Date(2025, 6, 1, 9, 0, 0, 0, ist)
	e := testEngine(store, WithClock(func() time.Time { return day }))

	if _, err := e.SubmitResult(context.Background(), "u1", 1, true); err != nil {
		t.Fatalf("day one: %v", err)
	}

	day = day.AddDate(0, 0, 1)
	outcome, err := e.SubmitResult(context.Background(), "u1", 2, true)
	if err != nil {
		t.Fatalf("day two: %v", err)
	}
	if outcome.State.CurrentStreak != 2 {
		t.Fatalf("expected streak 2, got %d", outcome.State.CurrentStreak)
	}

	// A later play the same local day keeps the streak.
	day = day.Add(6 * time.Hour)
	outcome, err = e.SubmitResult(context.Background(), "u1", 3, true)
	if err != nil {
		t.Fatalf("same day replay: %v", err)
	}
	if outcome.State.CurrentStreak != 2 {
		t.Errorf("same-day replay changed streak to %d", outcome.State.CurrentStreak)
	}
}

func TestSubmitResultUnlockTimeFromClock(t *testing.T) {
	store := newFakeStore()
	store.users["u1"] = globetrotter.ProgressionState{}

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	e := testEngine(store, WithClock(func() time.Time { return now }))

	if _, err := e.SubmitResult(context.Background(), "u1", 1, true); err != nil {
		t.Fatalf("submitting: %v", err)
	}

	for id, at := range store.unlockTimes["u1"] {
		if !at.Equal(now) {
			t.Errorf("unlock %d stamped %v, want clock time %v", id, at, now)
		}
	}
}

func TestSubmitResultFiftiethCorrect(t *testing.T) {
	store := newFakeStore()
	store.users["u1"] = globetrotter.ProgressionState{
		TotalPlayed:   60,
		TotalCorrect:  49,
		TotalWrong:    11,
		CurrentStreak: 1,
		LongestStreak: 3,
	}
	store.unlocks["u1"] = map[int]bool{1: true, 2: true, 5: true}
	e := testEngine(store)

	outcome, err := e.SubmitResult(context.Background(), "u1", 1, true)
	if err != nil {
		t.Fatalf("submitting: %v", err)
	}

	if outcome.State.TotalCorrect != 50 {
		t.Fatalf("expected 50 correct, got %d", outcome.State.TotalCorrect)
	}
	// 50/61 ≈ 0.82, so the accuracy rule fires alongside the milestone.
	if want := []int{6, 7}; !slices.Equal(outcome.NewAchievements, want) {
		t.Errorf("expected unlocks %v, got %v", want, outcome.NewAchievements)
	}
}

func TestSubmitResultAchievementFailureIsNonFatal(t *testing.T) {
	store := newFakeStore()
	store.users["u1"] = globetrotter.ProgressionState{}
	store.failUnlockRead = true
	e := testEngine(store)

	outcome, err := e.SubmitResult(context.Background(), "u1", 1, true)
	if err != nil {
		t.Fatalf("submission must survive a failed achievement check: %v", err)
	}
	if outcome.State.TotalPlayed != 1 {
		t.Errorf("score not recorded: %+v", outcome.State)
	}
	if len(outcome.NewAchievements) != 0 {
		t.Errorf("expected no unlocks, got %v", outcome.NewAchievements)
	}
}

func TestSubmitResultConcurrentSameUser(t *testing.T) {
	store := newFakeStore()
	store.users["u1"] = globetrotter.ProgressionState{}
	e := testEngine(store)

	const n = 20
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := e.SubmitResult(context.Background(), "u1", 1, true); err != nil {
				t.Errorf("submitting: %v", err)
			}
		}()
	}
	wg.Wait()

	state, err := store.ProgressionState(context.Background(), "u1")
	if err != nil {
		t.Fatalf("reading state: %v", err)
	}
	if state.TotalPlayed != n || state.TotalCorrect != n {
		t.Errorf("lost increments: %+v", state)
	}
}

func TestEmitAndPurge(t *testing.T) {
	store := newFakeStore()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	e := testEngine(store, WithClock(func() time.Time { return now }))

	n, err := e.Emit(context.Background(), "u1", "hello", "👋")
	if err != nil {
		t.Fatalf("emitting: %v", err)
	}
	if n.IsRead {
		t.Error("notification created as read")
	}
	if got := n.ExpiresAt.Sub(n.CreatedAt); got != NotificationTTL {
		t.Errorf("expected 24h TTL, got %v", got)
	}

	// Not expired yet.
	now = now.Add(NotificationTTL - time.Minute)
	deleted, err := e.PurgeExpired(context.Background())
	if err != nil {
		t.Fatalf("purging: %v", err)
	}
	if deleted != 0 {
		t.Errorf("purged %d notifications before expiry", deleted)
	}

	// Past expiry the sweep removes it; a second sweep is a no-op.
	now = now.Add(2 * time.Minute)
	if deleted, _ = e.PurgeExpired(context.Background()); deleted != 1 {
		t.Errorf("expected 1 purged, got %d", deleted)
	}
	if deleted, _ = e.PurgeExpired(context.Background()); deleted != 0 {
		t.Errorf("second sweep purged %d", deleted)
	}
}
