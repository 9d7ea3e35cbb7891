package interaction

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// GuardTTL is how long an interaction id is remembered. Platform retries
// and double-clicks arrive within seconds; a short window is plenty.
const GuardTTL = 30 * time.Second

// Guard drops duplicate deliveries of the same interaction. First returns
// true exactly once per id within the TTL window; the same user double
// clicking a component produces distinct interactions upstream, so this
// only filters genuine redeliveries.
type Guard interface {
	First(ctx context.Context, interactionID string) bool
}

// RedisGuard backs the guard with SETNX+TTL so the window survives across
// reconnects. Failures open the gate rather than blocking interactions.
type RedisGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisGuard constructs a RedisGuard. Zero ttl selects GuardTTL.
func NewRedisGuard(client *redis.Client, ttl time.Duration) *RedisGuard {
	if ttl <= 0 {
		ttl = GuardTTL
	}
	return &RedisGuard{client: client, ttl: ttl}
}

func (g *RedisGuard) First(ctx context.Context, interactionID string) bool {
	ok, err := g.client.SetNX(ctx, "interaction:"+interactionID, 1, g.ttl).Result()
	if err != nil {
		return true
	}
	return ok
}

// MemoryGuard is the in-process fallback used when no redis is configured.
type MemoryGuard struct {
	mu   sync.Mutex
	seen map[string]time.Time
	ttl  time.Duration
	now  func() time.Time
}

// NewMemoryGuard constructs a MemoryGuard. Zero ttl selects GuardTTL; a nil
// clock selects time.Now.
func NewMemoryGuard(ttl time.Duration, now func() time.Time) *MemoryGuard {
	if ttl <= 0 {
		ttl = GuardTTL
	}
	if now == nil {
		now = time.Now
	}
	return &MemoryGuard{seen: make(map[string]time.Time), ttl: ttl, now: now}
}

func (g *MemoryGuard) First(_ context.Context, interactionID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	for id, at := range g.seen {
		if now.Sub(at) > g.ttl {
			delete(g.seen, id)
		}
	}
	if _, dup := g.seen[interactionID]; dup {
		return false
	}
	g.seen[interactionID] = now
	return true
}
