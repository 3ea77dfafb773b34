package session

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Redis is a session store backed by Redis.
// Sessions are serialized as JSON and expire via Redis TTL, so no
// server-side sweeping is needed.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

// RedisOption configures the Redis store.
type RedisOption func(*Redis)

// WithPrefix sets the key prefix for session keys.
// Default: "session".
func WithPrefix(prefix string) RedisOption {
	return func(r *Redis) {
		r.prefix = prefix
	}
}

// NewRedis creates a Redis-backed session store.
// The client should be obtained from pkg/redis.Open.
func NewRedis(client redis.UniversalClient, opts ...RedisOption) *Redis {
	r := &Redis{
		client: client,
		prefix: "session",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Redis) Save(ctx context.Context, s *Session) error {
	ttl := s.TTL()
	if ttl <= 0 {
		return ErrExpired
	}

	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, r.key(s.Token), data, ttl).Err()
}

func (r *Redis) Get(ctx context.Context, token string) (*Session, error) {
	data, err := r.client.Get(ctx, r.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}

	// Redis TTL expiry is authoritative, but guard against clock skew
	// between instances.
	if s.IsExpired() {
		_ = r.client.Del(ctx, r.key(token)).Err()
		return nil, ErrExpired
	}

	return &s, nil
}

func (r *Redis) Delete(ctx context.Context, token string) error {
	return r.client.Del(ctx, r.key(token)).Err()
}

func (r *Redis) key(token string) string {
	return r.prefix + ":" + token
}
