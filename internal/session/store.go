// Package session implements the server-side session store behind the
// opaque session cookie. Identity lives in the store, never in the client.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a token resolves to no live session.
// Callers treat it as "anonymous", never as a failure.
var ErrNotFound = errors.New("session not found")

// Session is the identity record associated with an opaque client token.
type Session struct {
	UserID      uint   `json:"user_id"`
	Role        string `json:"role"`
	DisplayName string `json:"display_name"`
}

// Store persists sessions keyed by opaque token with a fixed idle TTL.
type Store interface {
	// Create stores the session and returns a fresh opaque token.
	Create(ctx context.Context, s Session) (string, error)

	// Get resolves a token and refreshes the idle TTL.
	Get(ctx context.Context, token string) (*Session, error)

	// Delete removes the session. Deleting an absent token is a no-op.
	Delete(ctx context.Context, token string) error
}

// RedisStore is the production Store backed by redis.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) sessionKey(token string) string {
	return "clinic:session:" + token
}

func (s *RedisStore) Create(ctx context.Context, sess Session) (string, error) {
	token := uuid.NewString()

	data, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.Set(ctx, s.sessionKey(token), data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	return token, nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	key := s.sessionKey(token)

	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	// Sliding idle timeout: every resolved request pushes expiry out.
	if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("failed to refresh session ttl: %w", err)
	}

	return &sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
