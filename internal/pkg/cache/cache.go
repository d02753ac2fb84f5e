package cache

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/ManuelReschke/PayFox/internal/pkg/config"
)

// SetupCache initializes the connection to the redis server backing the
// job queue. A failed ping is only logged; the queue retries on its own.
func SetupCache(cfg *config.Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.CacheHost, cfg.CachePort),
		Password: cfg.CachePassword,
		DB:       0,
	})

	pong, err := client.Ping(context.Background()).Result()
	if err != nil {
		log.Printf("Warning: Could not connect to redis: %v", err)
	} else {
		log.Printf("Successfully connected to redis: %s", pong)
	}

	return client
}
