// Package globetrotter defines the core domain types and pure game rules.
// It has no dependencies beyond the standard library.
package globetrotter

import "time"

type User struct {
	ID           string
	Username     string
	Avatar       string
	PasswordHash string
	CreatedAt    time.Time
}

// Destination is one entry in the guessing pool. Immutable once seeded.
type Destination struct {
	ID       int64
	City     string
	Country  string
	Clues    []string
	FunFacts []string
	Trivia   []string
}

// Round is one question presented to a player. Never persisted.
type Round struct {
	Destination   Destination
	Options       []string
	CorrectAnswer string
}

// ProgressionState is a user's cumulative score and streak state. It is
// mutated only through the ledger's RecordResult, never edited directly.
type ProgressionState struct {
	TotalPlayed   int
	TotalCorrect  int
	TotalWrong    int
	CurrentStreak int
	LongestStreak int
	LastPlayedAt  *time.Time
}

// Accuracy returns the fraction of played rounds answered correctly,
// or 0 when nothing has been played yet.
func (s ProgressionState) Accuracy() float64 {
	if s.TotalPlayed == 0 {
		return 0
	}
	return float64(s.TotalCorrect) / float64(s.TotalPlayed)
}

type Achievement struct {
	ID          int
	Title       string
	Description string
	Icon        string
}

// AchievementUnlock is the one-time unlock event for a (user, achievement)
// pair. Append-only; at most one row per pair, ever.
type AchievementUnlock struct {
	UserID        string
	AchievementID int
	UnlockedAt    time.Time
}

type Notification struct {
	ID        string
	UserID    string
	Message   string
	Icon      string
	IsRead    bool
	CreatedAt time.Time
	ExpiresAt time.Time
}

type Invite struct {
	ID          int64
	InvitedByID string
	Invitee     string
	IsAccepted  bool
	CreatedAt   time.Time
}

// GameRecord is the append-only log row written once per answered round.
type GameRecord struct {
	ID            int64
	UserID        string
	DestinationID int64
	IsCorrect     bool
	PlayedAt      time.Time
}
