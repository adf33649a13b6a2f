package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"gamebank/internal/core"
	"gamebank/internal/ledger"
	"gamebank/internal/storage"
)

func newTestService() *GameService {
	return NewGameService(storage.NewMemoryStore(), nil)
}

func startGame(t *testing.T, svc *GameService) *core.Session {
	t.Helper()
	session, err := svc.StartNewGame(context.Background(),
		[]ledger.PlayerSetup{{Name: "Alice"}, {Name: "Bob"}}, 5000, core.JPY)
	if err != nil {
		t.Fatalf("StartNewGame: %v", err)
	}
	return session
}

func TestGameServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	if got, err := svc.LoadActiveSession(ctx); err != nil || got != nil {
		t.Fatalf("expected no active session, got %v (err=%v)", got, err)
	}

	session := startGame(t, svc)
	alice, bob := session.Players[0].ID, session.Players[1].ID

	// State survives a reload through the store.
	got, err := svc.LoadActiveSession(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil || got.ID != session.ID {
		t.Fatalf("active session not persisted")
	}

	// Full walkthrough through the persistence cycle.
	steps := []struct {
		input     TransactionInput
		wantAlice int64
		wantBob   int64
	}{
		{TransactionInput{Type: core.BankIncome, From: core.Bank(), To: core.PlayerRef(alice), Amount: 1000}, 6000, 5000},
		{TransactionInput{Type: core.Transfer, From: core.PlayerRef(alice), To: core.PlayerRef(bob), Amount: 2000}, 4000, 7000},
	}
	for i, step := range steps {
		after, err := svc.RecordTransaction(ctx, step.input)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if after.Players[0].Balance != step.wantAlice || after.Players[1].Balance != step.wantBob {
			t.Fatalf("step %d: %d/%d", i, after.Players[0].Balance, after.Players[1].Balance)
		}
	}

	undone, err := svc.UndoLastTransaction(ctx)
	if err != nil || !undone {
		t.Fatalf("undo: %v undone=%v", err, undone)
	}
	got, _ = svc.LoadActiveSession(ctx)
	if got.Players[0].Balance != 6000 || got.Players[1].Balance != 5000 {
		t.Fatalf("after undo: %d/%d", got.Players[0].Balance, got.Players[1].Balance)
	}

	if _, err := svc.RecordTransaction(ctx, TransactionInput{
		Type: core.BankPayment, From: core.PlayerRef(bob), To: core.Bank(), Amount: 500,
	}); err != nil {
		t.Fatalf("payment: %v", err)
	}

	ended, err := svc.EndGame(ctx)
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if !ended.Ended {
		t.Fatalf("ended session not frozen")
	}
	if ended.Players[0].Balance != 6000 || ended.Players[1].Balance != 4500 {
		t.Fatalf("final balances: %d/%d", ended.Players[0].Balance, ended.Players[1].Balance)
	}

	if got, _ := svc.LoadActiveSession(ctx); got != nil {
		t.Fatalf("active slot not cleared after end")
	}
	history, err := svc.SessionHistory(ctx)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].ID != session.ID {
		t.Fatalf("history: %+v", history)
	}
}

func TestRecordWithoutActiveSession(t *testing.T) {
	svc := newTestService()
	_, err := svc.RecordTransaction(context.Background(), TransactionInput{
		Type: core.BankIncome, From: core.Bank(), To: core.PlayerRef("p1"), Amount: 100,
	})
	if !errors.Is(err, core.ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}
}

func TestRecordInvalidLeavesStateAlone(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	session := startGame(t, svc)

	_, err := svc.RecordTransaction(ctx, TransactionInput{
		Type: core.Transfer,
		From: core.PlayerRef(session.Players[0].ID),
		To:   core.PlayerRef(session.Players[0].ID),
		Amount: 100,
	})
	if err == nil {
		t.Fatalf("expected validation error")
	}

	got, _ := svc.LoadActiveSession(ctx)
	if len(got.Transactions) != 0 {
		t.Fatalf("rejected transaction was persisted")
	}
	if got.Players[0].Balance != 5000 {
		t.Fatalf("rejected transaction moved balances")
	}
}

func TestUndoWithNothingToUndo(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	// No session at all.
	undone, err := svc.UndoLastTransaction(ctx)
	if err != nil || undone {
		t.Fatalf("expected false, got %v (err=%v)", undone, err)
	}

	// Session with empty log.
	startGame(t, svc)
	undone, err = svc.UndoLastTransaction(ctx)
	if err != nil || undone {
		t.Fatalf("expected false on empty log, got %v (err=%v)", undone, err)
	}
}

func TestEndGameWithoutActiveSession(t *testing.T) {
	svc := newTestService()
	if _, err := svc.EndGame(context.Background()); !errors.Is(err, core.ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}
}

func TestStartNewGameReplacesUnfinishedSession(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	first := startGame(t, svc)
	second := startGame(t, svc)
	if first.ID == second.ID {
		t.Fatalf("sessions share an id")
	}

	got, _ := svc.LoadActiveSession(ctx)
	if got.ID != second.ID {
		t.Fatalf("active session is %s, want %s", got.ID, second.ID)
	}
	// The abandoned session never reaches the history.
	history, _ := svc.SessionHistory(ctx)
	if len(history) != 0 {
		t.Fatalf("unfinished session leaked into history")
	}
}

func TestHistoryBoundThroughService(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	var ids []string
	for i := 0; i < core.MaxHistory+2; i++ {
		session := startGame(t, svc)
		ids = append(ids, session.ID)
		if _, err := svc.EndGame(ctx); err != nil {
			t.Fatalf("end %d: %v", i, err)
		}
	}

	history, err := svc.SessionHistory(ctx)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != core.MaxHistory {
		t.Fatalf("history length %d", len(history))
	}
	if history[0].ID != ids[len(ids)-1] {
		t.Fatalf("history[0] is not the most recent session")
	}
}

func TestResetWipesEverything(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	startGame(t, svc)
	if _, err := svc.EndGame(ctx); err != nil {
		t.Fatalf("end: %v", err)
	}
	startGame(t, svc)

	if err := svc.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if got, _ := svc.LoadActiveSession(ctx); got != nil {
		t.Fatalf("active session survived reset")
	}
	if history, _ := svc.SessionHistory(ctx); len(history) != 0 {
		t.Fatalf("history survived reset")
	}
}

func TestCorruptStoreRecovers(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemoryStore()
	svc := NewGameService(mem, nil)

	startGame(t, svc)
	mem.Corrupt([]byte(fmt.Sprintf(`{"schema_version":%q}`, "0.0.1")))

	got, err := svc.LoadActiveSession(ctx)
	if err != nil {
		t.Fatalf("load after corruption: %v", err)
	}
	if got != nil {
		t.Fatalf("expected reset store after version mismatch")
	}
}
