package core

import (
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type Options struct {
	RedisAddr      string
	RedisKeyPrefix string
	TTL            time.Duration
	Tokens         []string
	SingleSlot     bool
	Now            Clock
}

// NewRelayWithOptions wires a Relay to Redis when RedisAddr is set and to an
// in-memory store otherwise.
func NewRelayWithOptions(opts Options, logger zerolog.Logger) (*Relay, error) {
	var store Store
	if opts.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr: opts.RedisAddr,
		})
		store = NewRedisStore(client, opts.RedisKeyPrefix, opts.TTL, opts.Now)
		logger.Info().Str("addr", opts.RedisAddr).Msg("using redis store")
	} else {
		store = NewMemoryStore(opts.TTL, opts.Now)
		logger.Info().Msg("using in-memory store")
	}

	return NewRelay(Config{
		Store:      store,
		Allowlist:  NewAllowlist(opts.Tokens),
		SingleSlot: opts.SingleSlot,
		Logger:     logger,
	})
}
