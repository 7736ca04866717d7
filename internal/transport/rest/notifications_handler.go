package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"agenda/backend/internal/domain"
)

func (h *Handler) ListNotifications(c *gin.Context) {
	list, err := h.notifications.ListForProvider(c.Request.Context(), actorID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if list == nil {
		list = []domain.Notification{}
	}

	c.JSON(http.StatusOK, list)
}

func (h *Handler) MarkNotificationRead(c *gin.Context) {
	n, err := h.notifications.MarkRead(c.Request.Context(), actorID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, n)
}
