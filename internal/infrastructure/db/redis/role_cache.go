package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fitcoach/coaching-platform/internal/api/metrics"
	"github.com/fitcoach/coaching-platform/internal/core/domain"
)

const roleCacheTTL = 5 * time.Minute

// RoleCache is a short-TTL read-through cache for role lookups. It only
// ever accelerates the role directory; it never decides an access
// grant on its own. Role changes invalidate the entry, and the TTL
// bounds staleness when an invalidation is lost.
type RoleCache struct {
	client *redis.Client
}

func NewRoleCache(client *redis.Client) *RoleCache {
	return &RoleCache{client: client}
}

func (c *RoleCache) key(memberID string) string {
	return "role:" + memberID
}

// Get returns the cached role for the member. A value that is not one
// of the known roles counts as a miss, so a corrupted entry can never
// smuggle in an unknown role.
func (c *RoleCache) Get(ctx context.Context, memberID string) (domain.Role, bool, error) {
	val, err := c.client.Get(ctx, c.key(memberID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.RoleCacheTotal.WithLabelValues("miss").Inc()
			return "", false, nil
		}
		metrics.RoleCacheTotal.WithLabelValues("error").Inc()
		return "", false, fmt.Errorf("role cache get: %w", err)
	}

	role := domain.Role(val)
	if !role.Known() {
		metrics.RoleCacheTotal.WithLabelValues("miss").Inc()
		return "", false, nil
	}
	metrics.RoleCacheTotal.WithLabelValues("hit").Inc()
	return role, true, nil
}

func (c *RoleCache) Set(ctx context.Context, memberID string, role domain.Role) error {
	if err := c.client.Set(ctx, c.key(memberID), string(role), roleCacheTTL).Err(); err != nil {
		return fmt.Errorf("role cache set: %w", err)
	}
	return nil
}

func (c *RoleCache) Invalidate(ctx context.Context, memberID string) error {
	if err := c.client.Del(ctx, c.key(memberID)).Err(); err != nil {
		return fmt.Errorf("role cache invalidate: %w", err)
	}
	return nil
}
