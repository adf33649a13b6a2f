package ledger

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"gamebank/internal/core"
)

func twoPlayerSession(t *testing.T, initial int64) *core.Session {
	t.Helper()
	s, err := NewSession([]PlayerSetup{{Name: "Alice"}, {Name: "Bob"}}, initial, core.JPY)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return &s
}

func tx(txType core.TransactionType, from, to core.Party, amount int64) core.Transaction {
	return core.Transaction{
		ID:        "tx-" + string(txType),
		Type:      txType,
		From:      from,
		To:        to,
		Amount:    amount,
		Timestamp: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRecordBankConservation(t *testing.T) {
	s := twoPlayerSession(t, 5000)
	alice, bob := s.Players[0].ID, s.Players[1].ID

	if err := Record(s, tx(core.BankIncome, core.Bank(), core.PlayerRef(alice), 1000)); err != nil {
		t.Fatalf("income: %v", err)
	}
	if s.Players[0].Balance != 6000 || s.Players[1].Balance != 5000 {
		t.Fatalf("after income: %d/%d", s.Players[0].Balance, s.Players[1].Balance)
	}
	if s.TotalBalance() != 11000 {
		t.Fatalf("total after income: %d", s.TotalBalance())
	}

	if err := Record(s, tx(core.BankPayment, core.PlayerRef(bob), core.Bank(), 500)); err != nil {
		t.Fatalf("payment: %v", err)
	}
	if s.Players[1].Balance != 4500 {
		t.Fatalf("after payment: %d", s.Players[1].Balance)
	}
	if s.TotalBalance() != 10500 {
		t.Fatalf("total after payment: %d", s.TotalBalance())
	}
}

func TestRecordTransferZeroSum(t *testing.T) {
	s := twoPlayerSession(t, 5000)
	alice, bob := s.Players[0].ID, s.Players[1].ID

	if err := Record(s, tx(core.Transfer, core.PlayerRef(alice), core.PlayerRef(bob), 2000)); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if s.Players[0].Balance != 3000 || s.Players[1].Balance != 7000 {
		t.Fatalf("after transfer: %d/%d", s.Players[0].Balance, s.Players[1].Balance)
	}
	if s.TotalBalance() != 10000 {
		t.Fatalf("transfer changed the total: %d", s.TotalBalance())
	}
	if len(s.Transactions) != 1 {
		t.Fatalf("expected one log entry, got %d", len(s.Transactions))
	}
}

func TestBalanceMayGoNegative(t *testing.T) {
	s := twoPlayerSession(t, 100)
	alice := s.Players[0].ID

	if err := Record(s, tx(core.BankPayment, core.PlayerRef(alice), core.Bank(), 500)); err != nil {
		t.Fatalf("payment: %v", err)
	}
	if s.Players[0].Balance != -400 {
		t.Fatalf("expected -400, got %d", s.Players[0].Balance)
	}
}

func TestRecordRejectsWithoutMutating(t *testing.T) {
	s := twoPlayerSession(t, 5000)
	alice := s.Players[0].ID
	before := *s
	beforePlayers := append([]core.Player(nil), s.Players...)

	bads := []core.Transaction{
		tx(core.BankIncome, core.Bank(), core.PlayerRef(alice), 0),
		tx(core.BankIncome, core.Bank(), core.PlayerRef(alice), -100),
		tx(core.Transfer, core.PlayerRef(alice), core.PlayerRef(alice), 100),
		tx(core.Transfer, core.PlayerRef(alice), core.PlayerRef("ghost"), 100),
		tx(core.BankPayment, core.Bank(), core.PlayerRef(alice), 100),
	}
	for i, bad := range bads {
		if err := Record(s, bad); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
	if !reflect.DeepEqual(s.Players, beforePlayers) {
		t.Fatalf("rejected transaction mutated balances")
	}
	if len(s.Transactions) != len(before.Transactions) {
		t.Fatalf("rejected transaction appended to the log")
	}
}

func TestRecordOnEndedSession(t *testing.T) {
	s := twoPlayerSession(t, 5000)
	s.Ended = true
	err := Record(s, tx(core.BankIncome, core.Bank(), core.PlayerRef(s.Players[0].ID), 100))
	if !errors.Is(err, core.ErrSessionEnded) {
		t.Fatalf("expected ErrSessionEnded, got %v", err)
	}
}

func TestUndoIsExactInverse(t *testing.T) {
	s := twoPlayerSession(t, 5000)
	alice, bob := s.Players[0].ID, s.Players[1].ID

	txs := []core.Transaction{
		tx(core.BankIncome, core.Bank(), core.PlayerRef(alice), 1000),
		tx(core.BankPayment, core.PlayerRef(bob), core.Bank(), 700),
		tx(core.Transfer, core.PlayerRef(alice), core.PlayerRef(bob), 2000),
	}
	for _, txn := range txs {
		balancesBefore := append([]core.Player(nil), s.Players...)
		logBefore := len(s.Transactions)

		if err := Record(s, txn); err != nil {
			t.Fatalf("record %s: %v", txn.Type, err)
		}
		if !UndoLast(s) {
			t.Fatalf("undo after %s returned false", txn.Type)
		}
		if !reflect.DeepEqual(s.Players, balancesBefore) {
			t.Fatalf("undo after %s did not restore balances", txn.Type)
		}
		if len(s.Transactions) != logBefore {
			t.Fatalf("undo after %s did not restore the log", txn.Type)
		}
	}
}

func TestUndoWalksBackward(t *testing.T) {
	s := twoPlayerSession(t, 5000)
	alice := s.Players[0].ID

	for i := 0; i < 3; i++ {
		if err := Record(s, core.Transaction{
			ID: "t" + string(rune('0'+i)), Type: core.BankIncome,
			From: core.Bank(), To: core.PlayerRef(alice), Amount: 100, Timestamp: time.Now(),
		}); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	for i := 3; i > 0; i-- {
		if !UndoLast(s) {
			t.Fatalf("undo %d returned false", i)
		}
	}
	if UndoLast(s) {
		t.Fatalf("undo on empty log should return false")
	}
	if s.Players[0].Balance != 5000 {
		t.Fatalf("expected 5000 after full rewind, got %d", s.Players[0].Balance)
	}
}

// The end-to-end scenario: Alice and Bob at ¥5,000 each.
func TestScenario(t *testing.T) {
	s := twoPlayerSession(t, 5000)
	alice, bob := s.Players[0].ID, s.Players[1].ID

	steps := []struct {
		tx          core.Transaction
		wantAlice   int64
		wantBob     int64
		undoInstead bool
	}{
		{tx: tx(core.BankIncome, core.Bank(), core.PlayerRef(alice), 1000), wantAlice: 6000, wantBob: 5000},
		{tx: tx(core.Transfer, core.PlayerRef(alice), core.PlayerRef(bob), 2000), wantAlice: 4000, wantBob: 7000},
		{undoInstead: true, wantAlice: 6000, wantBob: 5000},
		{tx: tx(core.BankPayment, core.PlayerRef(bob), core.Bank(), 500), wantAlice: 6000, wantBob: 4500},
	}
	for i, step := range steps {
		if step.undoInstead {
			if !UndoLast(s) {
				t.Fatalf("step %d: undo returned false", i)
			}
		} else if err := Record(s, step.tx); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if s.Players[0].Balance != step.wantAlice || s.Players[1].Balance != step.wantBob {
			t.Fatalf("step %d: got %d/%d, want %d/%d",
				i, s.Players[0].Balance, s.Players[1].Balance, step.wantAlice, step.wantBob)
		}
	}

	data := core.EmptyStore()
	data.ActiveSession = s
	ended, err := Archive(&data)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if !ended.Ended {
		t.Fatalf("archived session not marked ended")
	}
	if data.ActiveSession != nil {
		t.Fatalf("active slot not cleared")
	}
	got := data.SessionHistory[0]
	if got.Players[0].Balance != 6000 || got.Players[1].Balance != 4500 {
		t.Fatalf("history balances %d/%d", got.Players[0].Balance, got.Players[1].Balance)
	}
}
