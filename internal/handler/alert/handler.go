package alert

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/iamtxena/finance-scoop/internal/handler"
	"github.com/iamtxena/finance-scoop/internal/middleware"
	"github.com/iamtxena/finance-scoop/internal/model"
	alertService "github.com/iamtxena/finance-scoop/internal/service/alert"
)

type Handler struct {
	service alertService.AlertServicer
}

func NewHandler(service alertService.AlertServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	alerts := r.Group("/alerts")
	{
		alerts.GET("", h.ListAlerts)
		alerts.POST("", h.CreateAlert)
		alerts.GET("/:id", h.GetAlert)
		alerts.PATCH("/:id", h.UpdateAlert)
		alerts.DELETE("/:id", h.DeleteAlert)
	}
}

type createAlertRequest struct {
	Keywords    []string `json:"keywords" binding:"required,min=1,dive,min=1"`
	Subreddits  []string `json:"subreddits" binding:"required,min=1,dive,min=1"`
	Active      *bool    `json:"active"`
	TriggerMode string   `json:"trigger_mode" binding:"omitempty,oneof=single recurring"`
}

type updateAlertRequest struct {
	Keywords    []string `json:"keywords" binding:"omitempty,min=1,dive,min=1"`
	Subreddits  []string `json:"subreddits" binding:"omitempty,min=1,dive,min=1"`
	Active      *bool    `json:"active"`
	TriggerMode string   `json:"trigger_mode" binding:"omitempty,oneof=single recurring"`
}

func (h *Handler) CreateAlert(c *gin.Context) {
	var req createAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	alert := &model.Alert{
		UserID:      middleware.UserID(c),
		Keywords:    req.Keywords,
		Subreddits:  req.Subreddits,
		Active:      active,
		TriggerMode: model.TriggerMode(req.TriggerMode),
	}

	if err := h.service.CreateAlert(c.Request.Context(), alert); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(alert))
}

func (h *Handler) GetAlert(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid alert ID"))
		return
	}

	alert, err := h.service.GetAlert(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(alert))
}

func (h *Handler) UpdateAlert(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid alert ID"))
		return
	}

	var req updateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	// Partial update: load the existing alert and apply only the supplied
	// fields.
	alert, err := h.service.GetAlert(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	if req.Keywords != nil {
		alert.Keywords = req.Keywords
	}
	if req.Subreddits != nil {
		alert.Subreddits = req.Subreddits
	}
	if req.Active != nil {
		alert.Active = *req.Active
	}
	if req.TriggerMode != "" {
		alert.TriggerMode = model.TriggerMode(req.TriggerMode)
	}

	if err := h.service.UpdateAlert(c.Request.Context(), alert); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(alert))
}

func (h *Handler) DeleteAlert(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid alert ID"))
		return
	}

	if err := h.service.DeleteAlert(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListAlerts(c *gin.Context) {
	alerts, err := h.service.ListAlerts(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(alerts))
}
