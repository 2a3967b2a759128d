package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisStore keeps the session slot in Redis. The record carries a TTL
// matching its expiration date, so Redis drops a dead session even if the
// process never gets to clear it.
type redisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(addr, password string, db int) Store {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &redisStore{client: client}
}

func (r *redisStore) Save(ctx context.Context, s Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := time.Until(s.ExpirationDate)
	if ttl <= 0 {
		return fmt.Errorf("session expiration must be in the future")
	}

	return r.client.Set(ctx, SlotKey, data, ttl).Err()
}

func (r *redisStore) Load(ctx context.Context) (*Session, error) {
	val, err := r.client.Get(ctx, SlotKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var s Session
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		// A slot we cannot parse counts as absent.
		return nil, nil
	}

	return &s, nil
}

func (r *redisStore) Clear(ctx context.Context) error {
	return r.client.Del(ctx, SlotKey).Err()
}
