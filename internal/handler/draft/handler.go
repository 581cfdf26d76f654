package draft

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/iamtxena/finance-scoop/internal/handler"
	"github.com/iamtxena/finance-scoop/internal/middleware"
	"github.com/iamtxena/finance-scoop/internal/repository"
)

type Handler struct {
	drafts repository.DraftRepository
}

func NewHandler(drafts repository.DraftRepository) *Handler {
	return &Handler{drafts: drafts}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/drafts")
	{
		group.GET("", h.ListDrafts)
		group.PATCH("/:id/used", h.MarkUsed)
	}
}

func (h *Handler) ListDrafts(c *gin.Context) {
	drafts, err := h.drafts.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(drafts))
}

func (h *Handler) MarkUsed(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid draft ID"))
		return
	}

	if err := h.drafts.MarkUsed(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"used": true}))
}
