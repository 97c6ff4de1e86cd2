package server

import (
	"context"
	"errors"

	"github.com/ayusharma-ctrl/GIYC/internal/game"
	"github.com/ayusharma-ctrl/GIYC/internal/globetrotter"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

type userSession struct {
	UserID   string
	Username string
}

// UnlockInfo is one unlocked achievement with its unlock timestamp.
type UnlockInfo struct {
	AchievementID int    `json:"achievementId"`
	UnlockedAt    string `json:"unlockedAt"`
}

// Store is the full persistence surface of the API. It extends the
// engine's store with accounts, sessions, profiles, notifications,
// and invites.
type Store interface {
	game.Store

	CreateUser(ctx context.Context, u globetrotter.User) error
	UserByUsername(ctx context.Context, username string) (globetrotter.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)

	CreateSession(ctx context.Context, userID string) (string, error)
	DeleteSession(ctx context.Context, sessionID string) error
	UserFromSession(ctx context.Context, sessionID string) (userSession, error)

	UserProfile(ctx context.Context, userID string) (globetrotter.User, globetrotter.ProgressionState, error)
	PublicProfile(ctx context.Context, username string) (PublicProfileResponse, error)

	ListAchievements(ctx context.Context) ([]globetrotter.Achievement, error)
	ListUnlocks(ctx context.Context, userID string) ([]UnlockInfo, error)

	ListNotifications(ctx context.Context, userID string) ([]globetrotter.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID string) error
	DeleteNotification(ctx context.Context, userID, notificationID string) error
	DeleteAllNotifications(ctx context.Context, userID string) error

	CreateInvite(ctx context.Context, invitedByID, invitee string) error
	// AcceptInvitesForUsername marks every pending invite addressed to
	// the username accepted and returns the inviter ids.
	AcceptInvitesForUsername(ctx context.Context, invitee string) ([]string, error)
	ListInvites(ctx context.Context, userID string) ([]globetrotter.Invite, error)

	DestinationByID(ctx context.Context, id int64) (globetrotter.Destination, error)
	ListDestinations(ctx context.Context) ([]globetrotter.Destination, error)
	CountDestinations(ctx context.Context) (int, error)
	InsertDestination(ctx context.Context, d globetrotter.Destination) error
	InsertAchievement(ctx context.Context, a globetrotter.Achievement) error
}
