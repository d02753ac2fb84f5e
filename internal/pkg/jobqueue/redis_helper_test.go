package jobqueue

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ManuelReschke/PayFox/internal/pkg/env"
)

const isolatedJobQueueTestRedisDB = 14

// redisCandidates lists the addresses tried for tests: the configured cache
// first, then the compose service names, then loopback.
func redisCandidates() []string {
	port := env.GetEnv("CACHE_PORT", "6379")
	seen := map[string]bool{}
	var addrs []string
	for _, host := range []string{env.GetEnv("CACHE_HOST", ""), "cache", "payfox-cache", "localhost", "127.0.0.1"} {
		if host == "" {
			continue
		}
		addr := host + ":" + port
		if !seen[addr] {
			seen[addr] = true
			addrs = append(addrs, addr)
		}
	}
	return addrs
}

// newIsolatedRedisClient connects to the first reachable redis on database
// db and flushes it before and after the test. The test is skipped when no
// redis answers.
func newIsolatedRedisClient(t *testing.T, db int) *redis.Client {
	t.Helper()

	var lastErr error
	for _, addr := range redisCandidates() {
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: env.GetEnv("CACHE_PASSWORD", ""),
			DB:       db,
		})

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		err := client.Ping(ctx).Err()
		cancel()
		if err != nil {
			lastErr = err
			_ = client.Close()
			continue
		}

		if err := client.FlushDB(context.Background()).Err(); err != nil {
			_ = client.Close()
			t.Fatalf("failed to flush redis db %d: %v", db, err)
		}
		t.Cleanup(func() {
			_ = client.FlushDB(context.Background()).Err()
			_ = client.Close()
		})
		return client
	}

	t.Skipf("Skipping Redis-dependent test: no reachable Redis endpoint (%v)", lastErr)
	return nil
}

func resetJobQueueRedis(t *testing.T, client *redis.Client) {
	t.Helper()

	ctx := context.Background()
	keys := []string{JobQueueKey, JobProcessingKey, JobStatsKey, JobDeadLetterKey, JobDelayedKey}

	iter := client.Scan(ctx, 0, JobKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		t.Fatalf("failed to scan redis keys: %v", err)
	}
	if err := client.Del(ctx, keys...).Err(); err != nil {
		t.Fatalf("failed to clean up redis keys: %v", err)
	}
}
