package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on top of a Redis client. Session deadlines
// map onto key TTLs, so DeleteExpired is a no-op: Redis evicts on its own.
type RedisStore struct {
	client *redis.Client
	codec  Codec
	prefix string
}

// NewRedisStore creates a Redis-backed session store. The prefix namespaces
// session keys; pass "" for the default "sess:".
func NewRedisStore(client *redis.Client, codec Codec, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "sess:"
	}
	return &RedisStore{
		client: client,
		codec:  codec,
		prefix: prefix,
	}
}

func (r *RedisStore) key(token string) string {
	return r.prefix + token
}

func (r *RedisStore) ttl(session *Session) time.Duration {
	if session.ExpiresAt.IsZero() {
		return 0 // no durable deadline, key lives until Destroy
	}
	return time.Until(session.ExpiresAt)
}

// Create stores a new session
func (r *RedisStore) Create(ctx context.Context, session *Session) error {
	return r.set(ctx, session)
}

// Get retrieves a session by token
func (r *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	data, err := r.client.Get(ctx, r.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("session: redis get: %w", err)
	}

	var session Session
	if err := r.codec.Unmarshal(data, &session); err != nil {
		return nil, errors.Join(ErrInvalidSession, err)
	}

	if session.IsExpired() {
		_ = r.client.Del(ctx, r.key(token)).Err()
		return nil, ErrSessionExpired
	}

	return &session, nil
}

// Update replaces the stored session snapshot
func (r *RedisStore) Update(ctx context.Context, session *Session) error {
	return r.set(ctx, session)
}

// Delete removes a session by token
func (r *RedisStore) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, r.key(token)).Err(); err != nil {
		return fmt.Errorf("session: redis del: %w", err)
	}
	return nil
}

// DeleteExpired is a no-op: Redis expires keys by TTL.
func (r *RedisStore) DeleteExpired(ctx context.Context) error {
	return nil
}

func (r *RedisStore) set(ctx context.Context, session *Session) error {
	if session == nil || session.Token == "" {
		return ErrInvalidSession
	}

	ttl := r.ttl(session)
	if !session.ExpiresAt.IsZero() && ttl <= 0 {
		return ErrSessionExpired
	}

	data, err := r.codec.Marshal(session)
	if err != nil {
		return errors.Join(ErrInvalidSession, err)
	}

	if err := r.client.Set(ctx, r.key(session.Token), data, ttl).Err(); err != nil {
		return fmt.Errorf("session: redis set: %w", err)
	}
	return nil
}
