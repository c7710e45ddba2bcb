package middleware

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shrek82/sieve/exec"
)

// RedisCacheMiddleware caches statement results in Redis. Enable caching
// per statement with WithCacheTTL.
type RedisCacheMiddleware struct {
	Client *redis.Client
}

// NewRedisCache creates a Redis-backed result cache.
func NewRedisCache(opt *redis.Options) *RedisCacheMiddleware {
	return &RedisCacheMiddleware{
		Client: redis.NewClient(opt),
	}
}

func (m *RedisCacheMiddleware) Name() string {
	return "RedisCache"
}

func (m *RedisCacheMiddleware) Init(db *exec.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.Client.Ping(ctx).Err()
}

func (m *RedisCacheMiddleware) Shutdown() error {
	return m.Client.Close()
}

func (m *RedisCacheMiddleware) Process(ctx context.Context, stmt *exec.Statement, next exec.QueryFunc) (*exec.Result, error) {
	ttl, ok := cacheTTL(ctx)
	if !ok || ttl == 0 {
		return next(ctx, stmt)
	}
	if ttl < 0 {
		// Redis uses 0 for no expiration
		ttl = 0
	}

	key := cacheKey(stmt.SQL, stmt.Args)

	if val, err := m.Client.Get(ctx, key).Result(); err == nil {
		if res, ok := restoreDest(stmt.Dest, []byte(val)); ok {
			return res, nil
		}
	}

	res, err := next(ctx, stmt)
	if err != nil {
		return res, err
	}

	if res.Data != nil {
		if data, err := json.Marshal(res.Data); err == nil {
			m.Client.Set(ctx, key, data, ttl)
		}
	}

	return res, nil
}
