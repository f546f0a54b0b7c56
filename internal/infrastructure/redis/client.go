package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
)

// NewClient creates a new Redis client. The first ping is retried with
// exponential backoff for up to connectTimeout so the server can start before
// Redis is reachable.
func NewClient(ctx context.Context, redisURL string, connectTimeout time.Duration) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxElapsedTime = connectTimeout

	ping := func() error {
		return client.Ping(ctx).Err()
	}
	if err := backoff.Retry(ping, backoff.WithContext(b, ctx)); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}
