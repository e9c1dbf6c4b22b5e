// Package cache holds the Redis-backed convenience collaborators of the
// kiosk flow: the recent-selection cache and the search sequence guard.
// Both are optional; with a nil Redis client they degrade to no-ops so the
// core stays correct without them.
package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// SelectionCache remembers which customer a kiosk session last selected so
// a returning customer sees their card without re-entering digits. It is a
// UX convenience with its own TTL; nothing correctness-critical reads it.
type SelectionCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSelectionCache(rdb *redis.Client, ttl time.Duration) *SelectionCache {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &SelectionCache{rdb: rdb, ttl: ttl}
}

func selectionKey(session string) string { return "kiosk:selection:" + session }

// Remember stores the selected customer id for a session.
func (s *SelectionCache) Remember(ctx context.Context, session string, customerID uint64) {
	if s.rdb == nil || session == "" {
		return
	}
	// Best-effort; a write failure only costs the convenience.
	_ = s.rdb.SetEx(ctx, selectionKey(session), strconv.FormatUint(customerID, 10), s.ttl).Err()
}

// Recall returns the remembered customer id for a session, if any.
func (s *SelectionCache) Recall(ctx context.Context, session string) (uint64, bool) {
	if s.rdb == nil || session == "" {
		return 0, false
	}
	v, err := s.rdb.Get(ctx, selectionKey(session)).Result()
	if err != nil {
		return 0, false
	}
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
