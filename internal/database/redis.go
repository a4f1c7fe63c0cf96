package database

import (
	"context"
	"log"

	"github.com/go-redis/redis/v8"
	"github.com/placementdesk/backend/internal/config"
)

// InitRedis connects to Redis. It returns nil when Redis is unreachable; the
// server then runs without change notifications or token revocation.
func InitRedis(ctx context.Context, cfg config.Redis) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("[REDIS] %s unreachable, continuing without Redis: %v", cfg.Addr, err)
		rdb.Close()
		return nil
	}

	log.Printf("[REDIS] Connected to %s", cfg.Addr)
	return rdb
}
