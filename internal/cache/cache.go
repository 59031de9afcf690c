package cache

import (
	"context"
	"time"
)

// DecisionCache memoizes authorization decisions for a bounded time.
// A miss is always safe: the caller falls through to the rights store.
type DecisionCache interface {
	Get(ctx context.Context, key string) (allowed bool, ok bool)
	Set(ctx context.Context, key string, allowed bool, ttl time.Duration)
	Purge(ctx context.Context)
}

// BuildKey creates a cache key from subject, resource, and method.
func BuildKey(subject, resource, method string) string {
	return subject + ":" + resource + ":" + method
}
