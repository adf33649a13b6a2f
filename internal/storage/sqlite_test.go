package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "data", "gamebank.db"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer store.Close()

	// No row yet.
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.ActiveSession != nil {
		t.Fatalf("expected empty store")
	}

	if err := store.Save(ctx, sampleStore()); err != nil {
		t.Fatalf("save: %v", err)
	}
	// Upsert path: save twice into the same slot.
	if err := store.Save(ctx, sampleStore()); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err = store.Load(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.ActiveSession == nil || got.ActiveSession.ID != "s1" {
		t.Fatalf("round trip lost session: %+v", got.ActiveSession)
	}
	if len(got.ActiveSession.Transactions) != 1 {
		t.Fatalf("transaction log lost")
	}

	if err := store.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	got, err = store.Load(ctx)
	if err != nil {
		t.Fatalf("load after reset: %v", err)
	}
	if got.ActiveSession != nil {
		t.Fatalf("expected empty store after reset")
	}
}
