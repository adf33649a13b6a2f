// Package storage persists the tally board as one serialized blob. Every
// backend stores the whole StoreData in a single slot and follows the same
// recovery policy: a missing, corrupt or version-mismatched blob loads as a
// fresh empty store instead of failing.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"gamebank/internal/core"
)

// Store is the persistence contract: load the full blob, save the full blob.
// There is no partial write. Implementations are safe for the single-writer
// model this system targets; they do not coordinate concurrent writers.
type Store interface {
	Load(ctx context.Context) (core.StoreData, error)
	Save(ctx context.Context, data core.StoreData) error
	// Reset drops the blob entirely; the next Load starts from an empty store.
	Reset(ctx context.Context) error
	Close() error
}

// encodeStore serializes the blob, stamping the current schema version.
func encodeStore(data core.StoreData) ([]byte, error) {
	data.SchemaVersion = core.SchemaVersion
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode store: %w", err)
	}
	return raw, nil
}

// decodeStore parses a persisted blob. Parse failures and schema-version
// mismatches are deliberate lossy-recovery cases: the caller gets an empty
// store and a warning in the log, never an error.
func decodeStore(ctx context.Context, raw []byte) core.StoreData {
	if len(raw) == 0 {
		return core.EmptyStore()
	}

	var data core.StoreData
	if err := json.Unmarshal(raw, &data); err != nil {
		slog.WarnContext(ctx, "Persisted store is corrupt, resetting",
			"error", err, "component", "storage")
		return core.EmptyStore()
	}
	if data.SchemaVersion != core.SchemaVersion {
		slog.WarnContext(ctx, "Persisted store schema version mismatch, resetting",
			"found", data.SchemaVersion, "want", core.SchemaVersion, "component", "storage")
		return core.EmptyStore()
	}
	if data.SessionHistory == nil {
		data.SessionHistory = []core.Session{}
	}
	return data
}
