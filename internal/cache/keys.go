package cache

import (
	"context"
	"fmt"
	"time"

	"unfake/internal/middleware"
	"unfake/internal/models"
)

const (
	// ApprovedFeedKey holds the public feed of approved posts.
	ApprovedFeedKey = "posts:approved:v1"
	// ApprovedFeedTTL bounds staleness of the public feed.
	ApprovedFeedTTL = 30 * time.Second
	// StandingTTL bounds how long a ban can go unnoticed by a replica that missed the invalidation.
	StandingTTL = time.Minute
)

// StandingKey is the cache key for a user's account status.
func StandingKey(userID string) string {
	return fmt.Sprintf("user:standing:%s", userID)
}

// InvalidateFeed drops the cached public feed. Failures are logged, not returned.
func (c *Cache) InvalidateFeed(ctx context.Context) {
	if err := c.Delete(ctx, ApprovedFeedKey); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to invalidate feed cache", "error", err)
	}
}

// Standing returns the cached status of a user, if present.
func (c *Cache) Standing(ctx context.Context, userID string) (models.UserStatus, bool) {
	var status models.UserStatus
	found, err := c.GetJSON(ctx, StandingKey(userID), &status)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "standing cache read failed", "error", err)
		return "", false
	}
	return status, found
}

// SetStanding caches a user's status.
func (c *Cache) SetStanding(ctx context.Context, userID string, status models.UserStatus) {
	if err := c.SetJSON(ctx, StandingKey(userID), status, StandingTTL); err != nil {
		middleware.Logger.WarnContext(ctx, "standing cache write failed", "error", err)
	}
}

// InvalidateStanding drops a user's cached status after it changes.
func (c *Cache) InvalidateStanding(ctx context.Context, userID string) {
	if err := c.Delete(ctx, StandingKey(userID)); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to invalidate standing cache", "error", err)
	}
}
