package store

import (
	"context"

	"agenda/backend/internal/domain"
)

// NotificationStore is an append-only sink with a bounded newest-first read.
// Notifications are never deleted; the only mutation is flipping the read flag.
type NotificationStore interface {
	Append(ctx context.Context, n domain.Notification) (domain.Notification, error)
	ListForUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error)
	// MarkRead flags the notification as read and returns the updated record.
	// ErrNotFound when the id does not exist or belongs to another user.
	MarkRead(ctx context.Context, id, userID string) (domain.Notification, error)
}
