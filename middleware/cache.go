package middleware

import (
	"context"
	"fmt"
	"time"
)

type cacheTTLKey struct{}

// WithCacheTTL marks the statements run under ctx as cacheable for ttl.
// A zero ttl disables caching for that statement; a negative ttl caches
// without expiration.
func WithCacheTTL(ctx context.Context, ttl time.Duration) context.Context {
	return context.WithValue(ctx, cacheTTLKey{}, ttl)
}

func cacheTTL(ctx context.Context) (time.Duration, bool) {
	ttl, ok := ctx.Value(cacheTTLKey{}).(time.Duration)
	return ttl, ok
}

func cacheKey(sqlStr string, args []any) string {
	return fmt.Sprintf("sieve:cache:%s:%v", sqlStr, args)
}
