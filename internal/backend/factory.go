package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"gamebank/internal/storage"
)

// NewStore builds the configured store backend.
func NewStore(ctx context.Context, cfg Config) (storage.Store, error) {
	if !cfg.Type.IsValid() {
		return nil, fmt.Errorf("invalid store backend: %s", cfg.Type)
	}

	switch cfg.Type {
	case MemoryStore:
		slog.InfoContext(ctx, "Initialized memory store", "backend", cfg.Type)
		return storage.NewMemoryStore(), nil

	case FileStore:
		store, err := storage.NewFileStore(cfg.FilePath)
		if err != nil {
			return nil, fmt.Errorf("initialize file store: %w", err)
		}
		slog.InfoContext(ctx, "Initialized file store",
			"backend", cfg.Type, "path", cfg.FilePath)
		return store, nil

	case SQLiteStore:
		store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		slog.InfoContext(ctx, "Initialized sqlite store",
			"backend", cfg.Type, "db_path", cfg.SQLiteDBPath)
		return store, nil

	case RedisStore:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		slog.InfoContext(ctx, "Initialized redis store",
			"backend", cfg.Type, "addr", cfg.RedisAddr, "db", cfg.RedisDB)
		return storage.NewRedisStore(client), nil

	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.Type)
	}
}
