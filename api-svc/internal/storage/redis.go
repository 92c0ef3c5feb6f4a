package storage

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// PopularMenuKey is the leaderboard the aggregator maintains.
const PopularMenuKey = "popular:menu"

type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: client, TTL: ttl}
}

func (c *RedisCache) RoleKey(email string) string {
	return "role:" + strings.ToLower(email)
}

func (c *RedisCache) GetRole(ctx context.Context, email string) (string, bool, error) {
	role, err := c.Client.Get(ctx, c.RoleKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return role, true, nil
}

func (c *RedisCache) SetRole(ctx context.Context, email, role string) error {
	return c.Client.Set(ctx, c.RoleKey(email), role, c.TTL).Err()
}

func (c *RedisCache) InvalidateRole(ctx context.Context, email string) error {
	return c.Client.Del(ctx, c.RoleKey(email)).Err()
}

// TopMenuIDs reads the highest scored menu ids, best first.
func (c *RedisCache) TopMenuIDs(ctx context.Context, limit int) ([]int, error) {
	members, err := c.Client.ZRevRange(ctx, PopularMenuKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(members))
	for _, m := range members {
		id, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
