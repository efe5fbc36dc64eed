package utils

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// CacheInvalidator drops cached GET responses after event writes so the
// listing never shows stale attendance or photos for long.
type CacheInvalidator struct{ rdb *redis.Client }

func NewCacheInvalidator(rdb *redis.Client) *CacheInvalidator { return &CacheInvalidator{rdb} }

func (ci *CacheInvalidator) PurgeEventsList(ctx context.Context) {
	ci.purge(ctx, "cache:events:list:*")
}

// PurgeEventItem drops all cached items. Item keys are hashed, so a
// targeted delete would need the raw id in the key; scanning the whole
// item namespace is cheap at this collection size.
func (ci *CacheInvalidator) PurgeEventItem(ctx context.Context, id string) {
	ci.purge(ctx, "cache:events:item:*")
}

func (ci *CacheInvalidator) purge(ctx context.Context, pattern string) {
	iter := ci.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		_ = ci.rdb.Del(ctx, iter.Val()).Err()
	}
}
