package post

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/iamtxena/finance-scoop/internal/handler"
	"github.com/iamtxena/finance-scoop/internal/middleware"
	"github.com/iamtxena/finance-scoop/internal/repository"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type Handler struct {
	posts repository.PostRepository
}

func NewHandler(posts repository.PostRepository) *Handler {
	return &Handler{posts: posts}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/posts", h.ListPosts)
}

// ListPosts returns the posts the sweep has recorded for the caller's
// alerts, newest first.
func (h *Handler) ListPosts(c *gin.Context) {
	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid limit"))
			return
		}
		if n > maxListLimit {
			n = maxListLimit
		}
		limit = n
	}

	posts, err := h.posts.List(c.Request.Context(), middleware.UserID(c), limit)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(posts))
}
