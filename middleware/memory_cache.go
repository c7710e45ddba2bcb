package middleware

import (
	"context"
	"encoding/json"
	"reflect"
	"sync"
	"time"

	"github.com/shrek82/sieve/exec"
)

// MemoryCacheMiddleware caches statement results in memory. Enable caching
// per statement with WithCacheTTL.
type MemoryCacheMiddleware struct {
	items     map[string]memoryCacheEntry
	mu        sync.RWMutex
	stopClean chan struct{}
}

type memoryCacheEntry struct {
	Data      []byte
	ExpiresAt time.Time
}

// NewMemoryCache creates a new in-memory result cache.
func NewMemoryCache() *MemoryCacheMiddleware {
	return &MemoryCacheMiddleware{
		items:     make(map[string]memoryCacheEntry),
		stopClean: make(chan struct{}),
	}
}

func (m *MemoryCacheMiddleware) Name() string {
	return "MemoryCache"
}

func (m *MemoryCacheMiddleware) Init(db *exec.DB) error {
	go m.cleanupLoop()
	return nil
}

func (m *MemoryCacheMiddleware) Shutdown() error {
	close(m.stopClean)
	return nil
}

func (m *MemoryCacheMiddleware) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopClean:
			return
		case <-ticker.C:
			m.cleanup()
		}
	}
}

func (m *MemoryCacheMiddleware) cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for k, v := range m.items {
		if !v.ExpiresAt.IsZero() && now.After(v.ExpiresAt) {
			delete(m.items, k)
		}
	}
}

func (m *MemoryCacheMiddleware) Process(ctx context.Context, stmt *exec.Statement, next exec.QueryFunc) (*exec.Result, error) {
	ttl, ok := cacheTTL(ctx)
	if !ok || ttl == 0 {
		return next(ctx, stmt)
	}

	key := cacheKey(stmt.SQL, stmt.Args)

	m.mu.RLock()
	entry, found := m.items[key]
	m.mu.RUnlock()

	if found {
		if entry.ExpiresAt.IsZero() || time.Now().Before(entry.ExpiresAt) {
			if res, ok := restoreDest(stmt.Dest, entry.Data); ok {
				return res, nil
			}
		} else {
			// Expired, lazy delete
			m.mu.Lock()
			delete(m.items, key)
			m.mu.Unlock()
		}
	}

	res, err := next(ctx, stmt)
	if err != nil {
		return res, err
	}

	if res.Data != nil {
		if data, err := json.Marshal(res.Data); err == nil {
			e := memoryCacheEntry{Data: data}
			if ttl > 0 {
				e.ExpiresAt = time.Now().Add(ttl)
			}
			m.mu.Lock()
			m.items[key] = e
			m.mu.Unlock()
		}
	}

	return res, nil
}

// restoreDest unmarshals cached rows into a temporary value first, so a
// stale or mismatched entry cannot corrupt the caller's destination.
func restoreDest(dest any, data []byte) (*exec.Result, bool) {
	if dest == nil {
		return nil, false
	}
	destType := reflect.TypeOf(dest)
	if destType.Kind() != reflect.Ptr {
		return nil, false
	}
	temp := reflect.New(destType.Elem()).Interface()
	if err := json.Unmarshal(data, temp); err != nil {
		return nil, false
	}
	reflect.ValueOf(dest).Elem().Set(reflect.ValueOf(temp).Elem())
	return &exec.Result{Data: dest}, true
}
