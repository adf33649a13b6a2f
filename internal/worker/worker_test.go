package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"gamebank/internal/archive/memory"
	"gamebank/internal/core"
	"gamebank/internal/events"
)

func endedMessage(id string) *events.SessionEndedMessage {
	return &events.SessionEndedMessage{
		SessionID:     id,
		EndedAt:       time.Now(),
		Currency:      core.USD,
		InitialAmount: 5000,
		Standings: []events.StandingSummary{
			{Rank: 1, Name: "Alice", Balance: 6000, Delta: 1000},
			{Rank: 2, Name: "Bob", Balance: 4000, Delta: -1000},
		},
	}
}

func TestHandleSessionEndedWritesRow(t *testing.T) {
	writer := memory.New()
	w := NewArchiveWorker(nil, writer)

	if err := w.HandleSessionEnded(context.Background(), endedMessage("session-1")); err != nil {
		t.Fatalf("handle: %v", err)
	}

	rows := writer.Appended()
	if len(rows) != 1 || rows[0].SessionID != "session-1" {
		t.Fatalf("rows: %+v", rows)
	}
}

type failingWriter struct{}

func (failingWriter) Append(context.Context, events.SessionEndedMessage) (string, error) {
	return "", errors.New("sheet unavailable")
}

func TestHandleSessionEndedPropagatesWriterError(t *testing.T) {
	w := NewArchiveWorker(nil, failingWriter{})

	if err := w.HandleSessionEnded(context.Background(), endedMessage("session-1")); err == nil {
		t.Fatalf("expected error to surface for requeue")
	}
}

func TestHandleTransactionIsANoOp(t *testing.T) {
	w := NewArchiveWorker(nil, memory.New())

	err := w.HandleTransaction(context.Background(), &events.TransactionRecordedMessage{
		SessionID:     "session-1",
		TransactionID: "tx-1",
		Type:          core.BankIncome,
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
}
