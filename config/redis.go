package config

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
)

// ConnectRedis initializes a singleton Redis client from cfg, or from the
// loaded configuration when cfg is nil. Redis is optional: unless
// RedisEnabled is set it returns (nil, nil).
func ConnectRedis(cfg *Config) (*redis.Client, error) {
	if cfg == nil {
		cfg = LoadConfig()
	}
	var err error
	redisOnce.Do(func() {
		if !cfg.RedisEnabled {
			return
		}

		addr := cfg.RedisAddr
		if addr == "" {
			addr = defaultRedisAddr
		}
		dbNum := cfg.RedisDB

		rdb := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: cfg.RedisPassword,
			DB:       dbNum,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err = rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			redisClient = nil
			err = fmt.Errorf("redis ping failed: %w", err)
			return
		}

		redisClient = rdb
		zap.L().Info("connected to redis", zap.String("addr", addr), zap.Int("db", dbNum))
	})
	return redisClient, err
}

// GetRedisClient returns the initialized Redis client (may be nil if ConnectRedis failed or not called).
func GetRedisClient() *redis.Client {
	return redisClient
}
