package rest

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"agenda/backend/internal/service/accounts"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Provider bool   `json:"provider"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), accounts.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Provider: req.Provider,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.log.Info("user registered",
		slog.String("user_id", user.ID.String()),
		slog.Bool("provider", user.Provider),
	)
	c.JSON(http.StatusCreated, user)
}

type sessionRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) CreateSession(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.accounts.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

type updateProfileRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	AvatarURL   *string `json:"avatar_url"`
	OldPassword *string `json:"old_password"`
	Password    *string `json:"password"`
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.accounts.UpdateProfile(c.Request.Context(), actorID(c), accounts.UpdateProfileInput{
		Name:        req.Name,
		Email:       req.Email,
		AvatarURL:   req.AvatarURL,
		OldPassword: req.OldPassword,
		Password:    req.Password,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
