package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"agenda/backend/internal/domain"
	"agenda/backend/internal/store"
)

var (
	// ErrOnlyProviders is returned when a non-provider account asks for its
	// notification feed. Unknown accounts get the same answer.
	ErrOnlyProviders = errors.New("only providers can read notifications")
	ErrNotFound      = errors.New("notification not found")
)

const listLimit = 20

type Service struct {
	users         store.UserRepository
	notifications store.NotificationStore
}

func NewService(users store.UserRepository, notifications store.NotificationStore) *Service {
	return &Service{users: users, notifications: notifications}
}

// ListForProvider returns the provider's most recent notifications, newest
// first, capped at 20.
func (s *Service) ListForProvider(ctx context.Context, providerID uuid.UUID) ([]domain.Notification, error) {
	user, err := s.users.FindByID(ctx, providerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOnlyProviders
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !user.Provider {
		return nil, ErrOnlyProviders
	}

	return s.notifications.ListForUser(ctx, providerID.String(), listLimit)
}

// MarkRead flags one of the provider's notifications as read. A notification
// addressed to someone else reports ErrNotFound rather than leaking existence.
func (s *Service) MarkRead(ctx context.Context, providerID uuid.UUID, notificationID string) (domain.Notification, error) {
	user, err := s.users.FindByID(ctx, providerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Notification{}, ErrOnlyProviders
		}
		return domain.Notification{}, fmt.Errorf("find user: %w", err)
	}
	if !user.Provider {
		return domain.Notification{}, ErrOnlyProviders
	}

	n, err := s.notifications.MarkRead(ctx, notificationID, providerID.String())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Notification{}, ErrNotFound
		}
		return domain.Notification{}, fmt.Errorf("mark notification read: %w", err)
	}
	return n, nil
}
