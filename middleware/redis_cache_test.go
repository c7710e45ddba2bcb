package middleware

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shrek82/sieve/exec"
)

func setupRedisCache(t *testing.T) *RedisCacheMiddleware {
	t.Helper()

	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set, skipping Redis tests")
	}

	m := NewRedisCache(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := m.Client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not reachable: %v", err)
	}
	t.Cleanup(func() { m.Shutdown() })
	return m
}

func TestRedisCacheHit(t *testing.T) {
	m := setupRedisCache(t)

	calls := 0
	next := countingNext(&calls)
	ctx := WithCacheTTL(context.Background(), time.Minute)

	stmt := &exec.Statement{SQL: "SELECT redis", Args: []any{time.Now().UnixNano()}}

	var first []map[string]any
	stmt.Dest = &first
	if _, err := m.Process(ctx, stmt, next); err != nil {
		t.Fatalf("process: %v", err)
	}

	var second []map[string]any
	stmt.Dest = &second
	if _, err := m.Process(ctx, stmt, next); err != nil {
		t.Fatalf("process: %v", err)
	}

	if calls != 1 {
		t.Errorf("expected one database hit, got %d", calls)
	}
	if len(second) != 1 || second[0]["name"] != "John" {
		t.Errorf("cached rows not restored: %v", second)
	}
}
