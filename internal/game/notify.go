package game

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ayusharma-ctrl/GIYC/internal/globetrotter"
)

func newUUID() string { return uuid.NewString() }

// Emit creates an unread notification for the user with the fixed
// 24 h TTL and returns it.
func (e *Engine) Emit(ctx context.Context, userID, message, icon string) (globetrotter.Notification, error) {
	now := e.now()
	n := globetrotter.Notification{
		ID:        e.newID(),
		UserID:    userID,
		Message:   message,
		Icon:      icon,
		IsRead:    false,
		CreatedAt: now,
		ExpiresAt: now.Add(NotificationTTL),
	}
	if err := e.store.InsertNotification(ctx, n); err != nil {
		return globetrotter.Notification{}, fmt.Errorf("inserting notification: %w", err)
	}
	return n, nil
}

// PurgeExpired deletes every notification whose expiry has passed.
// Idempotent and safe to run concurrently with submissions; the
// scheduler invokes it on its own cadence.
func (e *Engine) PurgeExpired(ctx context.Context) (int64, error) {
	return e.store.DeleteExpiredNotifications(ctx, e.now())
}
