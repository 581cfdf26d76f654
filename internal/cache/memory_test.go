package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGatewayAllow(t *testing.T) {
	g := NewMemoryGateway()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		res, err := g.Allow(ctx, "reddit:new:stocks", 3, 10*time.Minute)
		require.NoError(t, err)
		assert.True(t, res.Allowed, "call %d should be allowed", i)
		assert.Equal(t, 3-i, res.Remaining)
	}

	res, err := g.Allow(ctx, "reddit:new:stocks", 3, 10*time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed, "call over the limit must be rejected")
	assert.Equal(t, 0, res.Remaining)
}

func TestMemoryGatewayAllowKeysAreIndependent(t *testing.T) {
	g := NewMemoryGateway()
	ctx := context.Background()

	res, err := g.Allow(ctx, "reddit:hot:stocks", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = g.Allow(ctx, "reddit:hot:stocks", 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	res, err = g.Allow(ctx, "reddit:hot:investing", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed, "a different key has its own counter")
}

func TestMemoryGatewayAllowWindowReset(t *testing.T) {
	g := NewMemoryGateway()
	ctx := context.Background()

	current := time.Unix(1_700_000_000, 0)
	g.now = func() time.Time { return current }

	res, err := g.Allow(ctx, "reddit:search:stocks", 1, 10*time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = g.Allow(ctx, "reddit:search:stocks", 1, 10*time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	// Past the window the counter starts fresh.
	current = current.Add(10*time.Minute + time.Second)
	res, err = g.Allow(ctx, "reddit:search:stocks", 1, 10*time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
}

func TestMemoryGatewayGetSet(t *testing.T) {
	g := NewMemoryGateway()
	ctx := context.Background()

	type payload struct {
		Title string `json:"title"`
		Score int    `json:"score"`
	}

	var missing payload
	found, err := g.Get(ctx, "absent", &missing)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, g.Set(ctx, "post", payload{Title: "earnings", Score: 42}, time.Minute))

	var got payload
	found, err = g.Get(ctx, "post", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Title: "earnings", Score: 42}, got)
}

func TestMemoryGatewayGetDistinguishesStoredZero(t *testing.T) {
	g := NewMemoryGateway()
	ctx := context.Background()

	require.NoError(t, g.Set(ctx, "count", 0, time.Minute))

	var n int
	found, err := g.Get(ctx, "count", &n)
	require.NoError(t, err)
	assert.True(t, found, "a stored zero value is still a hit")
	assert.Equal(t, 0, n)
}
