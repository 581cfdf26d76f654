package cron

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/iamtxena/finance-scoop/internal/handler"
	"github.com/iamtxena/finance-scoop/internal/service/sweep"
)

const defaultSweepTimeout = 5 * time.Minute

// Sweeper is the slice of the sweep service this endpoint triggers.
type Sweeper interface {
	Run(ctx context.Context) (*sweep.Result, error)
}

// Handler exposes the scheduled sweep over HTTP so an external scheduler
// can trigger it. The endpoint is guarded by a shared secret instead of a
// user session.
type Handler struct {
	sweeper Sweeper
	secret  string
	timeout time.Duration
}

func NewHandler(sweeper Sweeper, secret string, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = defaultSweepTimeout
	}
	return &Handler{sweeper: sweeper, secret: secret, timeout: timeout}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/cron/check-reddit", h.CheckReddit)
}

func (h *Handler) CheckReddit(c *gin.Context) {
	const prefix = "Bearer "
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, prefix) ||
		subtle.ConstantTimeCompare([]byte(auth[len(prefix):]), []byte(h.secret)) != 1 {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	// The sweep runs under its own budget, not the router's per-request
	// deadline: a full sweep legitimately outlives an API request, and a
	// truncated one would report partial counters as success.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), h.timeout)
	defer cancel()

	result, err := h.sweeper.Run(ctx)
	if err != nil {
		log.Error().Err(err).Msg("sweep failed")
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("sweep failed"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"processed":     result.Processed,
		"notifications": result.Notifications,
		"alerts":        result.Alerts,
	})
}
