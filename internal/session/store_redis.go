package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redisclient "github.com/santelink/provider-portal/pkg/redis"
)

// RedisStore persists sessions in Redis so a restart or a second portal
// instance does not log every provider out. Idle expiry rides on key TTLs.
type RedisStore struct {
	client *redisclient.Client
}

func NewRedisStore(client *redisclient.Client) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &RedisStore{client: client}, nil
}

func (r *RedisStore) Save(ctx context.Context, sessionID string, record Record, ttl time.Duration) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode session record: %w", err)
	}
	return r.client.Set(ctx, r.client.SessionKey(sessionID), string(payload), ttl)
}

func (r *RedisStore) Load(ctx context.Context, sessionID string) (Record, error) {
	raw, err := r.client.Get(ctx, r.client.SessionKey(sessionID))
	if err != nil {
		if errors.Is(err, redisclient.Nil) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	var record Record
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return Record{}, fmt.Errorf("decode session record: %w", err)
	}
	return record, nil
}

func (r *RedisStore) Touch(ctx context.Context, sessionID string, ttl time.Duration) (bool, error) {
	return r.client.Expire(ctx, r.client.SessionKey(sessionID), ttl)
}

func (r *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.client.SessionKey(sessionID))
}
