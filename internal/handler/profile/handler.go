package profile

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iamtxena/finance-scoop/internal/handler"
	"github.com/iamtxena/finance-scoop/internal/middleware"
	"github.com/iamtxena/finance-scoop/internal/model"
	"github.com/iamtxena/finance-scoop/internal/repository"
)

type Handler struct {
	profiles      repository.ProfileRepository
	notifications repository.NotificationRepository
}

func NewHandler(profiles repository.ProfileRepository, notifications repository.NotificationRepository) *Handler {
	return &Handler{profiles: profiles, notifications: notifications}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/profile", h.GetProfile)
	r.PUT("/profile", h.UpdateProfile)
	r.GET("/notifications", h.ListNotifications)
}

type updateProfileRequest struct {
	RedditUsername    *string `json:"reddit_username"`
	EmailAddress      string  `json:"email_address" binding:"omitempty,email"`
	NotificationEmail *bool   `json:"notification_email"`
	NotificationSlack *bool   `json:"notification_slack"`
}

func (h *Handler) GetProfile(c *gin.Context) {
	profile, err := h.profiles.GetByUserID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(profile))
}

// UpdateProfile merges the request into the stored profile, creating it on
// first write.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	userID := middleware.UserID(c)
	profile, err := h.profiles.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			handler.RespondError(c, err)
			return
		}
		profile = &model.Profile{UserID: userID}
	}

	if req.RedditUsername != nil {
		profile.RedditUsername = req.RedditUsername
	}
	if req.EmailAddress != "" {
		profile.EmailAddress = req.EmailAddress
	}
	if req.NotificationEmail != nil {
		profile.NotificationEmail = *req.NotificationEmail
	}
	if req.NotificationSlack != nil {
		profile.NotificationSlack = *req.NotificationSlack
	}

	if err := h.profiles.Upsert(c.Request.Context(), profile); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(profile))
}

func (h *Handler) ListNotifications(c *gin.Context) {
	notifications, err := h.notifications.List(c.Request.Context(), middleware.UserID(c), 100)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(notifications))
}
