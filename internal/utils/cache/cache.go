package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type (
	// Store is a cache-aside layer for read-mostly data. Implementations must
	// fail soft: a cache miss and a cache outage look the same to callers.
	Store interface {
		Get(ctx context.Context, key string, dest any) bool
		Set(ctx context.Context, key string, value any, ttl time.Duration)
	}

	redisStore struct {
		client *redis.Client
	}

	noopStore struct{}
)

func NewRedis(addr, password string) Store {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	return &redisStore{client: client}
}

// NewNoop returns a Store that never hits; used when Redis is not configured.
func NewNoop() Store {
	return noopStore{}
}

func (r *redisStore) Get(ctx context.Context, key string, dest any) bool {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			// outage, fall through to the database
			return false
		}
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (r *redisStore) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	r.client.Set(ctx, key, raw, ttl)
}

func (noopStore) Get(context.Context, string, any) bool           { return false }
func (noopStore) Set(context.Context, string, any, time.Duration) {}
