package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"agenda/backend/internal/domain"
)

// ListPageSize is the fixed page length for client appointment listings.
const ListPageSize = 20

type AppointmentRepository interface {
	// Create persists the appointment with the raw requested date. It returns
	// ErrSlotTaken when another active appointment already holds the same
	// provider hour.
	Create(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)

	FindByID(ctx context.Context, id uuid.UUID) (domain.Appointment, error)

	// FindActiveSlot reports whether a non-canceled appointment exists for the
	// provider at the hour-aligned slot.
	FindActiveSlot(ctx context.Context, providerID uuid.UUID, slot time.Time) (bool, error)

	// ListForClient returns the client's non-canceled appointments ordered by
	// date ascending, page >= 1, ListPageSize per page, provider loaded.
	ListForClient(ctx context.Context, clientID uuid.UUID, page int) ([]domain.Appointment, error)

	// MarkCanceled sets canceled_at on an active appointment. It returns
	// ErrNotFound when the appointment does not exist or is already canceled,
	// so a second cancel can never overwrite the first timestamp.
	MarkCanceled(ctx context.Context, id uuid.UUID, at time.Time) (domain.Appointment, error)
}
