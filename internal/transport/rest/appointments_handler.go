package rest

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"agenda/backend/internal/domain"
	"agenda/backend/internal/service/appointments"
)

type bookRequest struct {
	ProviderID string `json:"provider_id"`
	Date       string `json:"date"`
}

func (h *Handler) BookAppointment(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	providerID, err := uuid.Parse(req.ProviderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provider_id must be a valid id"})
		return
	}
	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be an RFC3339 timestamp"})
		return
	}

	appt, err := h.appointments.Book(c.Request.Context(), appointments.BookInput{
		ClientID:   actorID(c),
		ProviderID: providerID,
		Date:       date,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.log.Info("appointment booked",
		slog.String("appointment_id", appt.ID.String()),
		slog.String("client_id", appt.ClientID.String()),
		slog.String("provider_id", appt.ProviderID.String()),
		slog.Time("date", appt.Date),
	)
	c.JSON(http.StatusCreated, appt)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	// Absent, malformed or out-of-range pages all fall back to the first page.
	page := 1
	if raw := c.Query("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}

	appts, err := h.appointments.ListForClient(c.Request.Context(), actorID(c), page)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if appts == nil {
		appts = []domain.Appointment{}
	}

	c.JSON(http.StatusOK, appts)
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid appointment id"})
		return
	}

	appt, err := h.appointments.Cancel(c.Request.Context(), actorID(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.log.Info("appointment canceled",
		slog.String("appointment_id", appt.ID.String()),
		slog.String("client_id", appt.ClientID.String()),
	)
	c.JSON(http.StatusOK, appt)
}
