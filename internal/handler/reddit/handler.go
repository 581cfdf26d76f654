package reddit

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/iamtxena/finance-scoop/internal/handler"
	"github.com/iamtxena/finance-scoop/internal/reddit"
)

type Handler struct {
	client *reddit.Client
}

func NewHandler(client *reddit.Client) *Handler {
	return &Handler{client: client}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	rd := r.Group("/reddit")
	{
		rd.GET("/r/:subreddit/hot", h.HotPosts)
		rd.GET("/r/:subreddit/new", h.NewPosts)
		rd.POST("/search", h.Search)
		rd.GET("/users/:username", h.UserPosts)
		rd.GET("/posts/:postID", h.PostDetails)
		rd.GET("/posts/:postID/comments", h.Comments)
	}
}

type searchRequest struct {
	Subreddit string `json:"subreddit" binding:"required"`
	Query     string `json:"query" binding:"required"`
	Limit     int    `json:"limit"`
}

func (h *Handler) HotPosts(c *gin.Context) {
	posts, err := h.client.HotPosts(c.Request.Context(), c.Param("subreddit"), limitQuery(c, 25))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(posts))
}

func (h *Handler) NewPosts(c *gin.Context) {
	posts, err := h.client.NewPosts(c.Request.Context(), c.Param("subreddit"), limitQuery(c, 25))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(posts))
}

func (h *Handler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if req.Limit <= 0 {
		req.Limit = 25
	}

	posts, err := h.client.Search(c.Request.Context(), req.Subreddit, req.Query, req.Limit)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(posts))
}

func (h *Handler) UserPosts(c *gin.Context) {
	posts, err := h.client.UserPosts(c.Request.Context(), c.Param("username"), limitQuery(c, 25))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(posts))
}

func (h *Handler) PostDetails(c *gin.Context) {
	post, err := h.client.PostDetails(c.Request.Context(), c.Param("postID"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(post))
}

func (h *Handler) Comments(c *gin.Context) {
	subreddit := c.Query("subreddit")
	if subreddit == "" {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("subreddit parameter is required"))
		return
	}

	comments, err := h.client.Comments(c.Request.Context(), c.Param("postID"), subreddit, limitQuery(c, 50))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(comments))
}

func limitQuery(c *gin.Context, fallback int) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", ""))
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}
