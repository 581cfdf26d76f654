package ai

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/iamtxena/finance-scoop/internal/ai"
	"github.com/iamtxena/finance-scoop/internal/handler"
	"github.com/iamtxena/finance-scoop/internal/middleware"
	"github.com/iamtxena/finance-scoop/internal/model"
	"github.com/iamtxena/finance-scoop/internal/repository"
)

type Handler struct {
	classifier ai.Classifier
	drafts     repository.DraftRepository
}

func NewHandler(classifier ai.Classifier, drafts repository.DraftRepository) *Handler {
	return &Handler{classifier: classifier, drafts: drafts}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/ai")
	{
		group.POST("/analyze", h.Analyze)
		group.POST("/draft", h.Draft)
		group.POST("/summarize", h.Summarize)
	}
}

type analyzeRequest struct {
	PostContent string `json:"post_content" binding:"required"`
}

type draftRequest struct {
	PostContent   string `json:"post_content" binding:"required"`
	PostID        string `json:"post_id"`
	CustomContext string `json:"custom_context"`
}

func (h *Handler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	sentiment, err := h.classifier.ClassifySentiment(c.Request.Context(), req.PostContent)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"sentiment": sentiment}))
}

func (h *Handler) Draft(c *gin.Context) {
	var req draftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	draft, err := h.classifier.DraftReply(c.Request.Context(), req.PostContent, req.CustomContext)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	// The draft is returned either way; persistence is keyed on post_id and
	// failure to save only loses the saved copy.
	if req.PostID != "" {
		record := &model.Draft{
			UserID:  middleware.UserID(c),
			PostID:  req.PostID,
			Content: draft,
		}
		if err := h.drafts.Create(c.Request.Context(), record); err != nil {
			log.Error().Err(err).Str("post_id", req.PostID).Msg("failed to save draft")
		}
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"draft": draft}))
}

func (h *Handler) Summarize(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	summary, err := h.classifier.Summarize(c.Request.Context(), req.PostContent)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"summary": summary}))
}
