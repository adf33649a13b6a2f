package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gamebank/internal/core"

	_ "modernc.org/sqlite"
)

// storeSlot is the primary key of the one row this backend ever writes.
const storeSlot = "default"

// SQLiteStore keeps the blob in a single-row table. The whole store is still
// one serialized unit; SQLite only provides the durable slot and the atomic
// replace.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (core.StoreData, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM store_blobs WHERE slot = ?`, storeSlot).Scan(&raw)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.WarnContext(ctx, "Failed to read store row, resetting",
				"error", err, "component", "storage")
		}
		return core.EmptyStore(), nil
	}
	return decodeStore(ctx, raw), nil
}

func (s *SQLiteStore) Save(ctx context.Context, data core.StoreData) error {
	raw, err := encodeStore(data)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO store_blobs (slot, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(slot) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		storeSlot, raw)
	if err != nil {
		return fmt.Errorf("save store row: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Reset deletes the blob row; the next Load starts from an empty store.
func (s *SQLiteStore) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM store_blobs WHERE slot = ?`, storeSlot); err != nil {
		return fmt.Errorf("delete store row: %w", err)
	}
	return nil
}
