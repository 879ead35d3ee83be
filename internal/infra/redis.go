package infra

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedis connects the client shared by the price cache and the job
// queues. The worker pool parks long blocking BRPOPs, so the connection
// pool is sized above the worker count to keep cache reads from starving.
func NewRedis(redisURL string, workerCount int) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	if opts.PoolSize < workerCount+10 {
		opts.PoolSize = workerCount + 10
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}
