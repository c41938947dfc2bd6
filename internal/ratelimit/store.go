package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store counts hits inside fixed windows. Implementations must expire
// keys so a window resets once its duration passes.
type Store interface {
	// Incr bumps the counter for key and returns the new count plus
	// the time left in the current window.
	Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	// Decr refunds one hit without touching the window expiry. Used by
	// classes that only count failed requests.
	Decr(ctx context.Context, key string) error
}

// MemoryStore is the in-process fallback used when Redis is not
// configured. Counters are per-instance.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
}

type memoryEntry struct {
	count     int64
	expiresAt time.Time
}

// NewMemoryStore creates an in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*memoryEntry)}
}

// Incr implements Store.
func (s *MemoryStore) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok || !entry.expiresAt.After(now) {
		entry = &memoryEntry{expiresAt: now.Add(window)}
		s.entries[key] = entry
	}
	entry.count++

	// opportunistic sweep to keep the map from growing unbounded
	if len(s.entries) > 4096 {
		for k, e := range s.entries {
			if !e.expiresAt.After(now) {
				delete(s.entries, k)
			}
		}
	}
	return entry.count, entry.expiresAt.Sub(now), nil
}

// Decr implements Store.
func (s *MemoryStore) Decr(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[key]; ok && entry.count > 0 {
		entry.count--
	}
	return nil
}

var incrScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("TTL", KEYS[1])
return {current, ttl}
`)

var decrScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	local current = redis.call("DECR", KEYS[1])
	if current < 0 then
		redis.call("SET", KEYS[1], 0, "KEEPTTL")
	end
end
return 0
`)

// RedisStore shares counters across instances through Redis.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed store. All keys carry the given
// prefix.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) redisKey(key string) string {
	return s.prefix + ":" + key
}

// Incr implements Store via an atomic INCR+EXPIRE script.
func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	seconds := int(window / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	result, err := incrScript.Run(ctx, s.client, []string{s.redisKey(key)}, seconds).Result()
	if err != nil {
		return 0, 0, err
	}
	values, ok := result.([]interface{})
	if !ok || len(values) < 2 {
		return 0, 0, redis.Nil
	}
	count, _ := toInt64(values[0])
	ttlSeconds, _ := toInt64(values[1])
	if ttlSeconds < 0 {
		ttlSeconds = int64(seconds)
	}
	return count, time.Duration(ttlSeconds) * time.Second, nil
}

// Decr implements Store; counters never drop below zero.
func (s *RedisStore) Decr(ctx context.Context, key string) error {
	return decrScript.Run(ctx, s.client, []string{s.redisKey(key)}).Err()
}

func toInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case uint64:
		return int64(v), true
	case uint32:
		return int64(v), true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
