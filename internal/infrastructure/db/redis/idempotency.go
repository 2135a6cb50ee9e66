package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	idempotencyTTL = 24 * time.Hour
	// pendingTTL bounds how long a claim survives a request that died mid-create.
	pendingTTL    = 30 * time.Second
	pendingMarker = "pending"
)

// IdempotencyStore maps client-supplied Idempotency-Key values to the id of the
// check-in they created. Keys are namespaced per user.
// Key format: idem:checkin:<user_id>:<key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore wraps the given Redis client.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: idempotencyTTL}
}

// Reserve claims key with SETNX. When the key exists it reports the stored
// check-in id, or "" while the claim is still pending.
func (s *IdempotencyStore) Reserve(ctx context.Context, userID, key string) (string, bool, error) {
	k := s.key(userID, key)
	ok, err := s.client.SetNX(ctx, k, pendingMarker, pendingTTL).Result()
	if err != nil {
		return "", false, fmt.Errorf("idempotency reserve: %w", err)
	}
	if ok {
		return "", true, nil
	}

	val, err := s.client.Get(ctx, k).Result()
	switch {
	case errors.Is(err, redis.Nil):
		// Expired between SETNX and GET; the caller retries.
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("idempotency lookup: %w", err)
	case val == pendingMarker:
		return "", false, nil
	}
	return val, false, nil
}

// Complete records checkInID for a key held by the caller.
func (s *IdempotencyStore) Complete(ctx context.Context, userID, key, checkInID string) error {
	if err := s.client.Set(ctx, s.key(userID, key), checkInID, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency complete: %w", err)
	}
	return nil
}

// Release drops a claim so the client can retry with the same key.
func (s *IdempotencyStore) Release(ctx context.Context, userID, key string) error {
	if err := s.client.Del(ctx, s.key(userID, key)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(userID, key string) string {
	return fmt.Sprintf("idem:checkin:%s:%s", userID, key)
}
