package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"gamebank/internal/core"
)

// storeKey is the single key the redis backend uses for the blob.
const storeKey = "gamebank:store"

// RedisStore keeps the blob under one key. The value never expires; a tally
// board is expected to survive between evenings.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Load(ctx context.Context) (core.StoreData, error) {
	raw, err := r.client.Get(ctx, storeKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.WarnContext(ctx, "Failed to read store key, resetting",
				"error", err, "key", storeKey, "component", "storage")
		}
		return core.EmptyStore(), nil
	}
	return decodeStore(ctx, raw), nil
}

func (r *RedisStore) Save(ctx context.Context, data core.StoreData) error {
	raw, err := encodeStore(data)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, storeKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("save store key: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

// Reset deletes the blob key; the next Load starts from an empty store.
func (r *RedisStore) Reset(ctx context.Context) error {
	if err := r.client.Del(ctx, storeKey).Err(); err != nil {
		return fmt.Errorf("delete store key: %w", err)
	}
	return nil
}
