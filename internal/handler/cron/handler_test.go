package cron

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamtxena/finance-scoop/internal/service/sweep"
)

type fakeSweeper struct {
	result *sweep.Result
	err    error
	runs   int
	ctx    context.Context
}

func (f *fakeSweeper) Run(ctx context.Context) (*sweep.Result, error) {
	f.runs++
	f.ctx = ctx
	return f.result, f.err
}

func newTestRouter(sweeper *fakeSweeper) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	h := NewHandler(sweeper, "topsecret", 5*time.Minute)
	h.RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func doRequest(engine *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cron/check-reddit", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestCheckRedditSuccess(t *testing.T) {
	sweeper := &fakeSweeper{result: &sweep.Result{Processed: 3, Notifications: 1, Alerts: 2}}
	engine := newTestRouter(sweeper)

	w := doRequest(engine, "Bearer topsecret")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 3, body["processed"])
	assert.EqualValues(t, 1, body["notifications"])
	assert.EqualValues(t, 2, body["alerts"])
	assert.Equal(t, 1, sweeper.runs)
}

func TestCheckRedditRejectsBadSecret(t *testing.T) {
	tests := []struct {
		name          string
		authorization string
	}{
		{"missing header", ""},
		{"wrong secret", "Bearer wrong"},
		{"no bearer prefix", "topsecret"},
		{"empty bearer", "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sweeper := &fakeSweeper{result: &sweep.Result{}}
			engine := newTestRouter(sweeper)

			w := doRequest(engine, tt.authorization)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, 0, sweeper.runs, "a rejected request must not trigger a sweep")
		})
	}
}

// The router bounds every request context with server.request_timeout. A
// sweep legitimately runs longer than that, so the handler must give it the
// configured sweep budget instead of inheriting the request deadline.
func TestCheckRedditSweepOutlivesRequestDeadline(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Millisecond)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	sweeper := &fakeSweeper{result: &sweep.Result{Processed: 1}}
	NewHandler(sweeper, "topsecret", time.Hour).RegisterRoutes(engine.Group("/api/v1"))

	w := doRequest(engine, "Bearer topsecret")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, sweeper.ctx)

	deadline, ok := sweeper.ctx.Deadline()
	require.True(t, ok, "the sweep context carries its own deadline")
	assert.Greater(t, time.Until(deadline), 30*time.Minute,
		"the sweep deadline comes from the sweep budget, not the request")
	assert.NoError(t, sweeper.ctx.Err())
}

func TestNewHandlerDefaultsTimeout(t *testing.T) {
	h := NewHandler(&fakeSweeper{}, "s", 0)
	assert.Equal(t, defaultSweepTimeout, h.timeout)
}

func TestCheckRedditSweepFailure(t *testing.T) {
	sweeper := &fakeSweeper{err: errors.New("database down")}
	engine := newTestRouter(sweeper)

	w := doRequest(engine, "Bearer topsecret")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "database down", "internal detail must not leak")
}
