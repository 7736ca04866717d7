package appointments

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"agenda/backend/internal/domain"
	"agenda/backend/internal/store"
)

type fakeAppointmentRepo struct {
	createFn         func(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	findByIDFn       func(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	findActiveSlotFn func(ctx context.Context, providerID uuid.UUID, slot time.Time) (bool, error)
	listForClientFn  func(ctx context.Context, clientID uuid.UUID, page int) ([]domain.Appointment, error)
	markCanceledFn   func(ctx context.Context, id uuid.UUID, at time.Time) (domain.Appointment, error)
}

func (f *fakeAppointmentRepo) Create(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	if f.createFn == nil {
		panic("Create not configured")
	}
	return f.createFn(ctx, appt)
}

func (f *fakeAppointmentRepo) FindByID(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	if f.findByIDFn == nil {
		panic("FindByID not configured")
	}
	return f.findByIDFn(ctx, id)
}

func (f *fakeAppointmentRepo) FindActiveSlot(ctx context.Context, providerID uuid.UUID, slot time.Time) (bool, error) {
	if f.findActiveSlotFn == nil {
		panic("FindActiveSlot not configured")
	}
	return f.findActiveSlotFn(ctx, providerID, slot)
}

func (f *fakeAppointmentRepo) ListForClient(ctx context.Context, clientID uuid.UUID, page int) ([]domain.Appointment, error) {
	if f.listForClientFn == nil {
		panic("ListForClient not configured")
	}
	return f.listForClientFn(ctx, clientID, page)
}

func (f *fakeAppointmentRepo) MarkCanceled(ctx context.Context, id uuid.UUID, at time.Time) (domain.Appointment, error) {
	if f.markCanceledFn == nil {
		panic("MarkCanceled not configured")
	}
	return f.markCanceledFn(ctx, id, at)
}

type fakeUserRepo struct {
	users map[uuid.UUID]domain.User
}

func (f *fakeUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	panic("Create not used")
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	panic("FindByEmail not used")
}

func (f *fakeUserRepo) Update(ctx context.Context, user domain.User) (domain.User, error) {
	panic("Update not used")
}

type fakeNotificationStore struct {
	appendFn func(ctx context.Context, n domain.Notification) (domain.Notification, error)
}

func (f *fakeNotificationStore) Append(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	if f.appendFn == nil {
		panic("Append not configured")
	}
	return f.appendFn(ctx, n)
}

func (f *fakeNotificationStore) ListForUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	panic("ListForUser not used")
}

func (f *fakeNotificationStore) MarkRead(ctx context.Context, id, userID string) (domain.Notification, error) {
	panic("MarkRead not used")
}

var (
	clientID   = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	providerID = uuid.MustParse("00000000-0000-0000-0000-000000000002")
)

func testUsers() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]domain.User{
		clientID:   {ID: clientID, Name: "Diego", Provider: false},
		providerID: {ID: providerID, Name: "Barber", Provider: true},
	}}
}

func newTestService(appts *fakeAppointmentRepo, users *fakeUserRepo, notifs *fakeNotificationStore, now time.Time) *Service {
	svc := NewService(appts, users, notifs)
	svc.now = func() time.Time { return now }
	return svc
}

func TestBook_ValidationErrors(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	svc := newTestService(&fakeAppointmentRepo{}, testUsers(), &fakeNotificationStore{}, now)

	tests := []struct {
		name string
		in   BookInput
	}{
		{"missing client", BookInput{ProviderID: providerID, Date: now.Add(time.Hour)}},
		{"missing provider", BookInput{ClientID: clientID, Date: now.Add(time.Hour)}},
		{"missing date", BookInput{ClientID: clientID, ProviderID: providerID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Book(context.Background(), tt.in)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("error type = %T, want *ValidationError", err)
			}
		})
	}
}

func TestBook_InvalidProvider(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	svc := newTestService(&fakeAppointmentRepo{}, testUsers(), &fakeNotificationStore{}, now)

	t.Run("unknown provider", func(t *testing.T) {
		_, err := svc.Book(context.Background(), BookInput{
			ClientID:   clientID,
			ProviderID: uuid.MustParse("00000000-0000-0000-0000-00000000dead"),
			Date:       now.Add(2 * time.Hour),
		})
		if !errors.Is(err, ErrInvalidProvider) {
			t.Fatalf("error = %v, want %v", err, ErrInvalidProvider)
		}
	})

	t.Run("account without provider flag", func(t *testing.T) {
		_, err := svc.Book(context.Background(), BookInput{
			ClientID:   providerID,
			ProviderID: clientID,
			Date:       now.Add(2 * time.Hour),
		})
		if !errors.Is(err, ErrInvalidProvider) {
			t.Fatalf("error = %v, want %v", err, ErrInvalidProvider)
		}
	})
}

func TestBook_SelfBooking(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	svc := newTestService(&fakeAppointmentRepo{}, testUsers(), &fakeNotificationStore{}, now)

	// Date is deliberately in the past: the self-booking rule fires first.
	_, err := svc.Book(context.Background(), BookInput{
		ClientID:   providerID,
		ProviderID: providerID,
		Date:       now.Add(-48 * time.Hour),
	})
	if !errors.Is(err, ErrSelfBooking) {
		t.Fatalf("error = %v, want %v", err, ErrSelfBooking)
	}
}

func TestBook_PastDate(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 30, 0, 0, time.UTC)
	svc := newTestService(&fakeAppointmentRepo{}, testUsers(), &fakeNotificationStore{}, now)

	_, err := svc.Book(context.Background(), BookInput{
		ClientID:   clientID,
		ProviderID: providerID,
		Date:       time.Date(2024, 5, 10, 11, 59, 0, 0, time.UTC),
	})
	if !errors.Is(err, ErrPastDate) {
		t.Fatalf("error = %v, want %v", err, ErrPastDate)
	}
}

func TestBook_CurrentHourStartAllowed(t *testing.T) {
	// Now is exactly on the hour; a request for that hour is not in the past.
	now := time.Date(2024, 5, 10, 14, 0, 0, 0, time.UTC)

	appts := &fakeAppointmentRepo{
		findActiveSlotFn: func(ctx context.Context, providerID uuid.UUID, slot time.Time) (bool, error) {
			return false, nil
		},
		createFn: func(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
			appt.ID = uuid.New()
			return appt, nil
		},
	}
	notifs := &fakeNotificationStore{
		appendFn: func(ctx context.Context, n domain.Notification) (domain.Notification, error) {
			return n, nil
		},
	}
	svc := newTestService(appts, testUsers(), notifs, now)

	_, err := svc.Book(context.Background(), BookInput{
		ClientID:   clientID,
		ProviderID: providerID,
		Date:       now,
	})
	if err != nil {
		t.Fatalf("Book error: %v", err)
	}
}

func TestBook_SlotUnavailable(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	appts := &fakeAppointmentRepo{
		findActiveSlotFn: func(ctx context.Context, providerID uuid.UUID, slot time.Time) (bool, error) {
			return true, nil
		},
	}
	svc := newTestService(appts, testUsers(), &fakeNotificationStore{}, now)

	_, err := svc.Book(context.Background(), BookInput{
		ClientID:   clientID,
		ProviderID: providerID,
		Date:       time.Date(2024, 5, 10, 14, 50, 0, 0, time.UTC),
	})
	if !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("error = %v, want %v", err, ErrSlotUnavailable)
	}
}

func TestBook_SlotRaceMapsToUnavailable(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	appts := &fakeAppointmentRepo{
		findActiveSlotFn: func(ctx context.Context, providerID uuid.UUID, slot time.Time) (bool, error) {
			return false, nil
		},
		createFn: func(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
			return domain.Appointment{}, store.ErrSlotTaken
		},
	}
	svc := newTestService(appts, testUsers(), &fakeNotificationStore{}, now)

	_, err := svc.Book(context.Background(), BookInput{
		ClientID:   clientID,
		ProviderID: providerID,
		Date:       time.Date(2024, 5, 10, 14, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("error = %v, want %v", err, ErrSlotUnavailable)
	}
}

func TestBook_PersistsRawDateChecksTruncatedSlot(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	requested := time.Date(2024, 5, 10, 14, 23, 0, 0, time.UTC)
	wantSlot := time.Date(2024, 5, 10, 14, 0, 0, 0, time.UTC)

	var gotSlot time.Time
	var created domain.Appointment
	appts := &fakeAppointmentRepo{
		findActiveSlotFn: func(ctx context.Context, providerID uuid.UUID, slot time.Time) (bool, error) {
			gotSlot = slot
			return false, nil
		},
		createFn: func(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
			created = appt
			appt.ID = uuid.New()
			return appt, nil
		},
	}
	var gotNotification domain.Notification
	notifs := &fakeNotificationStore{
		appendFn: func(ctx context.Context, n domain.Notification) (domain.Notification, error) {
			gotNotification = n
			return n, nil
		},
	}
	svc := newTestService(appts, testUsers(), notifs, now)

	_, err := svc.Book(context.Background(), BookInput{
		ClientID:   clientID,
		ProviderID: providerID,
		Date:       requested,
	})
	if err != nil {
		t.Fatalf("Book error: %v", err)
	}

	if !gotSlot.Equal(wantSlot) {
		t.Fatalf("slot = %v, want %v", gotSlot, wantSlot)
	}
	if !created.Date.Equal(requested) {
		t.Fatalf("persisted date = %v, want raw %v", created.Date, requested)
	}
	if gotNotification.UserID != providerID.String() {
		t.Fatalf("notification recipient = %q, want %q", gotNotification.UserID, providerID)
	}
	want := "Novo agendamento de Diego para dia 10 de maio, às 14:00"
	if gotNotification.Content != want {
		t.Fatalf("notification content = %q, want %q", gotNotification.Content, want)
	}
}

func TestBook_NotificationFailureIsReported(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	appts := &fakeAppointmentRepo{
		findActiveSlotFn: func(ctx context.Context, providerID uuid.UUID, slot time.Time) (bool, error) {
			return false, nil
		},
		createFn: func(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
			appt.ID = uuid.New()
			return appt, nil
		},
	}
	sinkErr := errors.New("mongo down")
	notifs := &fakeNotificationStore{
		appendFn: func(ctx context.Context, n domain.Notification) (domain.Notification, error) {
			return domain.Notification{}, sinkErr
		},
	}
	svc := newTestService(appts, testUsers(), notifs, now)

	appt, err := svc.Book(context.Background(), BookInput{
		ClientID:   clientID,
		ProviderID: providerID,
		Date:       time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, sinkErr) {
		t.Fatalf("error = %v, want wrapped %v", err, sinkErr)
	}
	if appt.ID == uuid.Nil {
		t.Fatalf("expected persisted appointment to be returned alongside the error")
	}
}

func TestListForClient_PassesPageThrough(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	var gotPage int
	appts := &fakeAppointmentRepo{
		listForClientFn: func(ctx context.Context, id uuid.UUID, page int) ([]domain.Appointment, error) {
			gotPage = page
			return nil, nil
		},
	}
	svc := newTestService(appts, testUsers(), &fakeNotificationStore{}, now)

	if _, err := svc.ListForClient(context.Background(), clientID, 3); err != nil {
		t.Fatalf("ListForClient error: %v", err)
	}
	if gotPage != 3 {
		t.Fatalf("page = %d, want 3", gotPage)
	}

	if _, err := svc.ListForClient(context.Background(), clientID, 0); err != nil {
		t.Fatalf("ListForClient error: %v", err)
	}
	if gotPage != 1 {
		t.Fatalf("page = %d, want clamped 1", gotPage)
	}
}

func TestCancel_NotFound(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	appts := &fakeAppointmentRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
			return domain.Appointment{}, store.ErrNotFound
		},
	}
	svc := newTestService(appts, testUsers(), &fakeNotificationStore{}, now)

	_, err := svc.Cancel(context.Background(), clientID, uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want %v", err, ErrNotFound)
	}
}

func TestCancel_OnlyOwningClient(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	apptID := uuid.New()
	appts := &fakeAppointmentRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
			return domain.Appointment{ID: apptID, ClientID: clientID, ProviderID: providerID, Date: now.Add(24 * time.Hour)}, nil
		},
	}
	svc := newTestService(appts, testUsers(), &fakeNotificationStore{}, now)

	_, err := svc.Cancel(context.Background(), providerID, apptID)
	if !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("error = %v, want %v", err, ErrNotAllowed)
	}
}

func TestCancel_AlreadyCanceled(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	canceledAt := now.Add(-time.Hour)
	apptID := uuid.New()
	appts := &fakeAppointmentRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
			return domain.Appointment{
				ID: apptID, ClientID: clientID, ProviderID: providerID,
				Date: now.Add(24 * time.Hour), CanceledAt: &canceledAt,
			}, nil
		},
	}
	svc := newTestService(appts, testUsers(), &fakeNotificationStore{}, now)

	_, err := svc.Cancel(context.Background(), clientID, apptID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want %v", err, ErrNotFound)
	}
}

func TestCancel_DeadlineWindow(t *testing.T) {
	date := time.Date(2024, 5, 10, 14, 0, 0, 0, time.UTC)
	apptID := uuid.New()

	newRepo := func() *fakeAppointmentRepo {
		return &fakeAppointmentRepo{
			findByIDFn: func(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
				return domain.Appointment{ID: apptID, ClientID: clientID, ProviderID: providerID, Date: date}, nil
			},
			markCanceledFn: func(ctx context.Context, id uuid.UUID, at time.Time) (domain.Appointment, error) {
				canceled := at
				return domain.Appointment{ID: id, ClientID: clientID, ProviderID: providerID, Date: date, CanceledAt: &canceled}, nil
			},
		}
	}

	t.Run("1h59m before is too late", func(t *testing.T) {
		now := date.Add(-time.Hour - 59*time.Minute)
		svc := newTestService(newRepo(), testUsers(), &fakeNotificationStore{}, now)
		_, err := svc.Cancel(context.Background(), clientID, apptID)
		if !errors.Is(err, ErrTooLateToCancel) {
			t.Fatalf("error = %v, want %v", err, ErrTooLateToCancel)
		}
	})

	t.Run("2h01m before succeeds", func(t *testing.T) {
		now := date.Add(-2*time.Hour - time.Minute)
		svc := newTestService(newRepo(), testUsers(), &fakeNotificationStore{}, now)
		appt, err := svc.Cancel(context.Background(), clientID, apptID)
		if err != nil {
			t.Fatalf("Cancel error: %v", err)
		}
		if appt.CanceledAt == nil || !appt.CanceledAt.Equal(now) {
			t.Fatalf("canceled_at = %v, want %v", appt.CanceledAt, now)
		}
	})
}

func TestBook_WrapsSlotCheckErrors(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	storeErr := errors.New("connection reset")
	appts := &fakeAppointmentRepo{
		findActiveSlotFn: func(ctx context.Context, providerID uuid.UUID, slot time.Time) (bool, error) {
			return false, storeErr
		},
	}
	svc := newTestService(appts, testUsers(), &fakeNotificationStore{}, now)

	_, err := svc.Book(context.Background(), BookInput{
		ClientID:   clientID,
		ProviderID: providerID,
		Date:       now.Add(3 * time.Hour),
	})
	if !errors.Is(err, storeErr) {
		t.Fatalf("error = %v, want wrapped %v", err, storeErr)
	}
	if !strings.Contains(err.Error(), "check slot availability") {
		t.Fatalf("error %q lacks context", err)
	}
}
