package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"agenda/backend/internal/auth"
	"agenda/backend/internal/domain"
	"agenda/backend/internal/service/accounts"
	"agenda/backend/internal/service/appointments"
	"agenda/backend/internal/service/notifications"
)

type accountsService interface {
	Register(ctx context.Context, in accounts.RegisterInput) (domain.User, error)
	Authenticate(ctx context.Context, email, password string) (domain.User, error)
	UpdateProfile(ctx context.Context, accountID uuid.UUID, in accounts.UpdateProfileInput) (domain.User, error)
}

type appointmentsService interface {
	Book(ctx context.Context, in appointments.BookInput) (domain.Appointment, error)
	ListForClient(ctx context.Context, clientID uuid.UUID, page int) ([]domain.Appointment, error)
	Cancel(ctx context.Context, actorID, appointmentID uuid.UUID) (domain.Appointment, error)
}

type notificationsService interface {
	ListForProvider(ctx context.Context, providerID uuid.UUID) ([]domain.Notification, error)
	MarkRead(ctx context.Context, providerID uuid.UUID, notificationID string) (domain.Notification, error)
}

type Handler struct {
	accounts      accountsService
	appointments  appointmentsService
	notifications notificationsService
	tokens        *auth.TokenManager
	log           *slog.Logger
}

func NewHandler(
	accountsSvc accountsService,
	appointmentsSvc appointmentsService,
	notificationsSvc notificationsService,
	tokens *auth.TokenManager,
	log *slog.Logger,
) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		accounts:      accountsSvc,
		appointments:  appointmentsSvc,
		notifications: notificationsSvc,
		tokens:        tokens,
		log:           log.With(slog.String("component", "rest")),
	}
}

func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())

	r.POST("/users", h.Register)
	r.POST("/sessions", h.CreateSession)

	authed := r.Group("/", h.requireAuth)
	authed.PUT("/users", h.UpdateProfile)
	authed.GET("/appointments", h.ListAppointments)
	authed.POST("/appointments", h.BookAppointment)
	authed.DELETE("/appointments/:id", h.CancelAppointment)
	authed.GET("/notifications", h.ListNotifications)
	authed.PUT("/notifications/:id", h.MarkNotificationRead)

	return r
}

// respondError maps the service error taxonomy onto HTTP statuses. Anything
// unrecognized is an internal failure and gets logged with its cause.
func (h *Handler) respondError(c *gin.Context, err error) {
	var acctValidation *accounts.ValidationError
	var apptValidation *appointments.ValidationError

	switch {
	case errors.As(err, &acctValidation), errors.As(err, &apptValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, appointments.ErrInvalidProvider),
		errors.Is(err, appointments.ErrSelfBooking),
		errors.Is(err, appointments.ErrPastDate),
		errors.Is(err, appointments.ErrSlotUnavailable),
		errors.Is(err, accounts.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, appointments.ErrNotAllowed),
		errors.Is(err, appointments.ErrTooLateToCancel),
		errors.Is(err, accounts.ErrPasswordMismatch),
		errors.Is(err, accounts.ErrInvalidCredentials),
		errors.Is(err, notifications.ErrOnlyProviders):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, appointments.ErrNotFound),
		errors.Is(err, accounts.ErrNotFound),
		errors.Is(err, notifications.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error("request failed", slog.String("path", c.FullPath()), slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
