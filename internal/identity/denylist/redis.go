package denylist

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "denylist:"

// RedisDenylist is the production Denylist. Redis gives the cross-worker
// visibility the logout flow depends on and expires entries on its own.
type RedisDenylist struct {
	client *redis.Client
}

// NewRedis connects to the redis instance at redisURL and verifies the
// connection before returning.
func NewRedis(ctx context.Context, redisURL string) (*RedisDenylist, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &RedisDenylist{client: client}, nil
}

func (d *RedisDenylist) Contains(ctx context.Context, token string) (bool, error) {
	err := d.client.Get(ctx, keyPrefix+token).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (d *RedisDenylist) Put(ctx context.Context, token, subjectID string, ttl time.Duration) error {
	return d.client.Set(ctx, keyPrefix+token, subjectID, ttl).Err()
}

// Close releases the redis connection.
func (d *RedisDenylist) Close() error { return d.client.Close() }
