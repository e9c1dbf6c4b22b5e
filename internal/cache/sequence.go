package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// SequenceGuard enforces the latest-request-wins discipline for kiosk
// searches. Each keystroke-triggered search carries a monotonically
// increasing sequence number; a completion whose sequence is lower than
// the highest already observed for the session is stale and must be
// discarded. Clients still debounce; the guard makes out-of-order
// completions harmless on the server side.
type SequenceGuard struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSequenceGuard(rdb *redis.Client, ttl time.Duration) *SequenceGuard {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SequenceGuard{rdb: rdb, ttl: ttl}
}

// observeScript atomically keeps the highest sequence seen per session and
// reports whether the incoming one is stale.
var observeScript = redis.NewScript(`
	local key = KEYS[1]
	local seq = tonumber(ARGV[1])
	local ttl = tonumber(ARGV[2])

	local latest = tonumber(redis.call('GET', key))
	if latest ~= nil and seq < latest then
		return 0
	end
	redis.call('SET', key, seq, 'EX', ttl)
	return 1
`)

// Observe records the sequence for a session and reports whether the
// request is still the latest one. Without Redis every request counts as
// latest.
func (g *SequenceGuard) Observe(ctx context.Context, session string, seq uint64) bool {
	if g.rdb == nil || session == "" || seq == 0 {
		return true
	}
	key := "kiosk:searchseq:" + session
	v, err := observeScript.Run(ctx, g.rdb, []string{key}, seq, int64(g.ttl/time.Second)).Int64()
	if err != nil {
		// Degrade open: a Redis hiccup must not block searches.
		return true
	}
	return v == 1
}
