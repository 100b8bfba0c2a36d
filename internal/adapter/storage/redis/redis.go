package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/mashirou1234/yesod-auth/config"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// NewClient creates a Redis client and verifies connectivity.
// The event queue blocks for up to popTimeout per read, so the client read
// timeout is widened to cover it.
func NewClient(ctx context.Context, cfg config.RedisConfig, popTimeout time.Duration, log zerolog.Logger) (*goredis.Client, error) {
	opts := &goredis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if popTimeout > 0 {
		opts.ReadTimeout = popTimeout + 3*time.Second
	}
	client := goredis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	log.Info().
		Str("addr", cfg.Addr()).
		Int("db", cfg.DB).
		Msg("Redis connection established")

	return client, nil
}
