package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis stores each key as storefront:<namespace>:<key>. The namespace
// plays the role of the browser profile: one per customer device.
type Redis struct {
	Client    *redis.Client
	Namespace string
	Timeout   time.Duration
}

func NewRedis(client *redis.Client, namespace string) *Redis {
	return &Redis{Client: client, Namespace: namespace, Timeout: 2 * time.Second}
}

func (r *Redis) key(k string) string {
	return "storefront:" + r.Namespace + ":" + k
}

func (r *Redis) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.Timeout)
}

func (r *Redis) Get(key string) (string, error) {
	ctx, cancel := r.ctx()
	defer cancel()

	v, err := r.Client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return v, err
}

func (r *Redis) Set(key, value string) error {
	ctx, cancel := r.ctx()
	defer cancel()
	return r.Client.Set(ctx, r.key(key), value, 0).Err()
}

func (r *Redis) Remove(key string) error {
	ctx, cancel := r.ctx()
	defer cancel()
	return r.Client.Del(ctx, r.key(key)).Err()
}

var _ Local = (*Redis)(nil)
