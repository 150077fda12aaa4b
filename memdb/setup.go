package memdb

import (
	"context"
	"fmt"
	"github.com/redis/go-redis/v9"
	"gitlab.com/MikeTTh/env"
	"time"
)

// Connect opens a client from REDIS_URL and makes sure the server is reachable.
func Connect() (*Store, error) {
	redisClientOptions, err := redis.ParseURL(env.String("REDIS_URL", "redis://localhost:6379/0"))
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}

	redisClient := redis.NewClient(redisClientOptions)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return NewStore(redisClient), nil
}
