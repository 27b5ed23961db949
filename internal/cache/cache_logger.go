package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern invalidates a cache pattern, logging failures
// instead of propagating them.
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete deletes cache keys, logging failures.
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateCatalogCache drops the cached detail entry and list entries for
// one catalog resource after a write.
func InvalidateCatalogCache(ctx context.Context, cm *CacheManager, resource string, id uint) {
	SafeDelete(ctx, cm.Catalog, fmt.Sprintf("%s:id:%d", resource, id))
	SafeInvalidatePattern(ctx, cm.Catalog, fmt.Sprintf("%s:list:*", resource))
}

// InvalidateUserCache drops the cached user entry after an entitlement write.
func InvalidateUserCache(ctx context.Context, cm *CacheManager, userID uint) {
	SafeDelete(ctx, cm.User, fmt.Sprintf("id:%d", userID))
}
