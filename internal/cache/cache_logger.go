package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern invalidates a cache pattern, logging failures instead
// of surfacing them to the caller.
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete deletes cache keys, logging failures instead of surfacing them.
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateEventCache drops every cached projection of an event, including
// list pages and derived stats.
func InvalidateEventCache(ctx context.Context, cm *CacheManager, eventID uint, organizerID string) {
	SafeDelete(ctx, cm.Event,
		fmt.Sprintf("id:%d", eventID),
		fmt.Sprintf("details:%d", eventID))

	SafeInvalidatePattern(ctx, cm.Event, fmt.Sprintf("organizer:%s:*", organizerID))
	SafeInvalidatePattern(ctx, cm.Event, "list:*")
	SafeInvalidatePattern(ctx, cm.Stats, fmt.Sprintf("event:%d:*", eventID))
}

// InvalidateRegistrationCache drops cached registration views for one
// registration and the event's counters, which the capacity checks never read
// from cache but list endpoints do.
func InvalidateRegistrationCache(ctx context.Context, cm *CacheManager, registrationID, eventID uint, userID string) {
	SafeDelete(ctx, cm.Registration, fmt.Sprintf("id:%d", registrationID))
	SafeInvalidatePattern(ctx, cm.Registration, fmt.Sprintf("event:%d:*", eventID))
	SafeInvalidatePattern(ctx, cm.Registration, fmt.Sprintf("user:%s:*", userID))
	SafeInvalidatePattern(ctx, cm.Stats, fmt.Sprintf("event:%d:*", eventID))
}

// InvalidateUserCache drops cached user projections.
func InvalidateUserCache(ctx context.Context, cm *CacheManager, userID string) {
	SafeDelete(ctx, cm.User, fmt.Sprintf("id:%s", userID))
	SafeInvalidatePattern(ctx, cm.User, "list:*")
}

// InvalidateCategoryCache drops the cached category list.
func InvalidateCategoryCache(ctx context.Context, cm *CacheManager, categoryID uint) {
	SafeDelete(ctx, cm.Category, fmt.Sprintf("id:%d", categoryID))
	SafeInvalidatePattern(ctx, cm.Category, "list:*")
}
