package cache

import (
	"context"
	"time"
)

// Cache is the JSON key-value store behind ranking-result reuse. Redis backs
// it in deployment; MemoryCache covers local runs and tests.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
