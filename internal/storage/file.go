package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gamebank/internal/core"
)

// FileStore persists the blob as a single JSON file, the closest durable
// analogue of the browser localStorage slot this system grew out of. Saves
// write to a temp file in the same directory and rename over the target, so
// a reader never observes a partial write.
type FileStore struct {
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

func (f *FileStore) Load(ctx context.Context) (core.StoreData, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.WarnContext(ctx, "Failed to read store file, resetting",
				"error", err, "path", f.path, "component", "storage")
		}
		return core.EmptyStore(), nil
	}
	return decodeStore(ctx, raw), nil
}

func (f *FileStore) Save(_ context.Context, data core.StoreData) error {
	raw, err := encodeStore(data)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".store-*.json")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close store file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}

func (f *FileStore) Close() error { return nil }

// Reset removes the store file; the next Load starts from an empty store.
func (f *FileStore) Reset(_ context.Context) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove store file: %w", err)
	}
	return nil
}
