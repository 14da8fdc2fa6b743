package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// evictScript deletes the key only if it still holds the value the caller
// judged stale, so a Set that lands in between is kept.
var evictScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisStore shares entries between relay instances through Redis. Keys also
// carry a Redis expiry of ttl; staleness is still decided by IsExpired.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
	now       Clock
}

func NewRedisStore(client *redis.Client, keyPrefix string, ttl time.Duration, now Clock) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = "selfie:"
	}
	return &RedisStore{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
		now:       clockOrDefault(now),
	}
}

func (s *RedisStore) key(token string) string {
	return s.keyPrefix + token
}

func (s *RedisStore) Set(ctx context.Context, token, code string) (Entry, error) {
	e := Entry{Code: code, RecordedAt: s.now()}
	raw, err := json.Marshal(e)
	if err != nil {
		return Entry{}, err
	}
	expiration := time.Duration(0)
	if s.ttl > 0 {
		expiration = s.ttl
	}
	if err := s.client.Set(ctx, s.key(token), raw, expiration).Err(); err != nil {
		return Entry{}, fmt.Errorf("redis set %q: %w", token, err)
	}
	return e, nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (Entry, bool, error) {
	key := s.key(token)
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("redis get %q: %w", token, err)
	}

	var e Entry
	if err := json.Unmarshal([]byte(val), &e); err != nil {
		return Entry{}, false, fmt.Errorf("decode entry %q: %w", token, err)
	}
	if !IsExpired(&e, s.ttl, s.now()) {
		return e, true, nil
	}

	if err := evictScript.Run(ctx, s.client, []string{key}, val).Err(); err != nil {
		return Entry{}, false, fmt.Errorf("redis evict %q: %w", token, err)
	}
	return Entry{}, false, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", token, err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
