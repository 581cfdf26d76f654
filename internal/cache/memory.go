package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryGateway is the in-process Gateway used when no Redis URL is
// configured (local development, tests). Rate budgets are per-process.
type MemoryGateway struct {
	values *gocache.Cache

	mu       sync.Mutex
	counters map[string]*counter

	// now is swappable in tests.
	now func() time.Time
}

type counter struct {
	count     int
	expiresAt time.Time
}

func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{
		values:   gocache.New(gocache.NoExpiration, 5*time.Minute),
		counters: make(map[string]*counter),
		now:      time.Now,
	}
}

func (g *MemoryGateway) Allow(_ context.Context, key string, limit int, window time.Duration) (RateLimitResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	c, ok := g.counters[key]
	if !ok || now.After(c.expiresAt) {
		c = &counter{expiresAt: now.Add(window)}
		g.counters[key] = c
	}
	c.count++

	remaining := limit - c.count
	if remaining < 0 {
		remaining = 0
	}

	return RateLimitResult{
		Allowed:   c.count <= limit,
		Remaining: remaining,
	}, nil
}

func (g *MemoryGateway) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := g.values.Get(key)
	if !ok {
		return false, nil
	}

	// Values round-trip through JSON so both gateways behave identically.
	if err := json.Unmarshal(raw.([]byte), dest); err != nil {
		return false, fmt.Errorf("failed to decode cached value for %s: %w", key, err)
	}
	return true, nil
}

func (g *MemoryGateway) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for %s: %w", key, err)
	}
	g.values.Set(key, raw, ttl)
	return nil
}
