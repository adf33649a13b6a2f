// Package ledger implements the transaction engine and session lifecycle:
// recording balance deltas, single-step undo, and rotating finished sessions
// into the bounded history. All functions here are pure over core values;
// persistence is the caller's job.
package ledger

import (
	"fmt"

	"gamebank/internal/core"
)

// Record validates tx against the session and, only if valid, appends it to
// the log and applies the balance delta: the debited player loses the amount,
// the credited player gains it. Bank legs carry no balance (the bank has
// unlimited funds). A rejected transaction leaves the session untouched.
func Record(s *core.Session, tx core.Transaction) error {
	if s == nil {
		return core.ErrNoActiveSession
	}
	if s.Ended {
		return core.ErrSessionEnded
	}
	if err := tx.Validate(s); err != nil {
		return fmt.Errorf("record transaction: %w", err)
	}

	apply(s, tx, +1)
	s.Transactions = append(s.Transactions, tx)
	return nil
}

// UndoLast removes the most recently recorded transaction and reverses its
// balance effect exactly. It reports whether an undo happened; an empty log
// is not an error. Repeated calls walk backward through the log one entry at
// a time. There is no redo.
func UndoLast(s *core.Session) bool {
	if s == nil || s.Ended || len(s.Transactions) == 0 {
		return false
	}

	last := s.Transactions[len(s.Transactions)-1]
	s.Transactions = s.Transactions[:len(s.Transactions)-1]
	apply(s, last, -1)
	return true
}

// apply moves balances for one transaction. sign is +1 to apply, -1 to
// reverse. Legs referencing the bank are skipped.
func apply(s *core.Session, tx core.Transaction, sign int64) {
	if id, ok := tx.From.PlayerID(); ok {
		if p := s.FindPlayer(id); p != nil {
			p.Balance -= sign * tx.Amount
		}
	}
	if id, ok := tx.To.PlayerID(); ok {
		if p := s.FindPlayer(id); p != nil {
			p.Balance += sign * tx.Amount
		}
	}
}
