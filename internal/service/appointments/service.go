package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"agenda/backend/internal/domain"
	"agenda/backend/internal/schedule"
	"agenda/backend/internal/store"
)

var (
	// ErrInvalidProvider means the provider id does not resolve to an account
	// with the provider capability.
	ErrInvalidProvider = errors.New("appointments can only be booked with providers")
	ErrSelfBooking     = errors.New("cannot book an appointment with yourself")
	ErrPastDate        = errors.New("past dates are not allowed")
	ErrSlotUnavailable = errors.New("appointment slot is not available")
	ErrNotFound        = errors.New("appointment not found")
	ErrNotAllowed      = errors.New("appointment belongs to another client")
	ErrTooLateToCancel = errors.New("appointments can only be canceled up to 2 hours in advance")
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

type Service struct {
	appts         store.AppointmentRepository
	users         store.UserRepository
	notifications store.NotificationStore

	now func() time.Time
}

func NewService(appts store.AppointmentRepository, users store.UserRepository, notifications store.NotificationStore) *Service {
	return &Service{
		appts:         appts,
		users:         users,
		notifications: notifications,
		now:           time.Now,
	}
}

type BookInput struct {
	ClientID   uuid.UUID
	ProviderID uuid.UUID
	Date       time.Time
}

// Book validates the request, persists the appointment with the raw requested
// timestamp and notifies the provider. The slot check and the notification
// text both use the hour-truncated date. When the notification append fails
// the appointment is already persisted; the error is returned alongside it
// rather than swallowed.
func (s *Service) Book(ctx context.Context, in BookInput) (domain.Appointment, error) {
	if in.ClientID == uuid.Nil {
		return domain.Appointment{}, validationError("client_id is required")
	}
	if in.ProviderID == uuid.Nil {
		return domain.Appointment{}, validationError("provider_id is required")
	}
	if in.Date.IsZero() {
		return domain.Appointment{}, validationError("date is required")
	}

	provider, err := s.users.FindByID(ctx, in.ProviderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Appointment{}, ErrInvalidProvider
		}
		return domain.Appointment{}, fmt.Errorf("find provider: %w", err)
	}
	if !provider.Provider {
		return domain.Appointment{}, ErrInvalidProvider
	}

	if in.ProviderID == in.ClientID {
		return domain.Appointment{}, ErrSelfBooking
	}

	slot := schedule.HourStart(in.Date.UTC())
	if slot.Before(s.now()) {
		return domain.Appointment{}, ErrPastDate
	}

	taken, err := s.appts.FindActiveSlot(ctx, in.ProviderID, slot)
	if err != nil {
		return domain.Appointment{}, fmt.Errorf("check slot availability: %w", err)
	}
	if taken {
		return domain.Appointment{}, ErrSlotUnavailable
	}

	appt, err := s.appts.Create(ctx, domain.Appointment{
		ClientID:   in.ClientID,
		ProviderID: in.ProviderID,
		Date:       in.Date.UTC(),
	})
	if err != nil {
		// The unique slot index catches the race the availability check missed.
		if errors.Is(err, store.ErrSlotTaken) {
			return domain.Appointment{}, ErrSlotUnavailable
		}
		return domain.Appointment{}, fmt.Errorf("create appointment: %w", err)
	}

	client, err := s.users.FindByID(ctx, in.ClientID)
	if err != nil {
		return appt, fmt.Errorf("resolve client for notification: %w", err)
	}

	_, err = s.notifications.Append(ctx, domain.Notification{
		Content: fmt.Sprintf("Novo agendamento de %s para %s", client.Name, schedule.FormatPT(slot)),
		UserID:  in.ProviderID.String(),
	})
	if err != nil {
		return appt, fmt.Errorf("notify provider: %w", err)
	}

	return appt, nil
}

// ListForClient returns one page of the client's active appointments, oldest
// slot first, with the provider loaded for display.
func (s *Service) ListForClient(ctx context.Context, clientID uuid.UUID, page int) ([]domain.Appointment, error) {
	if clientID == uuid.Nil {
		return nil, validationError("client_id is required")
	}
	if page < 1 {
		page = 1
	}
	return s.appts.ListForClient(ctx, clientID, page)
}

// Cancel marks the appointment canceled. Only the booking client may cancel,
// and only until 2 hours before the slot. The transition is one-way: a second
// cancel reports ErrNotFound and the first timestamp stands.
func (s *Service) Cancel(ctx context.Context, actorID, appointmentID uuid.UUID) (domain.Appointment, error) {
	if actorID == uuid.Nil {
		return domain.Appointment{}, validationError("actor_id is required")
	}
	if appointmentID == uuid.Nil {
		return domain.Appointment{}, validationError("appointment_id is required")
	}

	appt, err := s.appts.FindByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Appointment{}, ErrNotFound
		}
		return domain.Appointment{}, fmt.Errorf("find appointment: %w", err)
	}

	if appt.ClientID != actorID {
		return domain.Appointment{}, ErrNotAllowed
	}
	if appt.CanceledAt != nil {
		return domain.Appointment{}, ErrNotFound
	}

	now := s.now()
	if schedule.CancelDeadline(appt.Date).Before(now) {
		return domain.Appointment{}, ErrTooLateToCancel
	}

	updated, err := s.appts.MarkCanceled(ctx, appointmentID, now)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Appointment{}, ErrNotFound
		}
		return domain.Appointment{}, fmt.Errorf("mark canceled: %w", err)
	}
	return updated, nil
}
