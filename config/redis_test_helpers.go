package config

import (
	"sync"

	"github.com/redis/go-redis/v9"
)

// SetRedisClientForTest installs client, usually a redismock client, as the
// store the rate limiter counts writes in. Passing nil makes the limiter
// fail open.
func SetRedisClientForTest(client *redis.Client) {
	redisClient = client
}

// ResetRedisClientForTest clears the client and lets the next ConnectRedis
// dial again.
func ResetRedisClientForTest() {
	redisClient = nil
	redisOnce = sync.Once{}
}
