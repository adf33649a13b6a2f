// Package worker consumes ledger events and archives finished sessions.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"gamebank/internal/archive"
	"gamebank/internal/events"
)

// ArchiveWorker turns session.ended events into archive rows. Transaction
// events are acknowledged and logged only; the summary row carries everything
// the archive needs.
type ArchiveWorker struct {
	client *events.Client
	writer archive.SessionWriter
}

func NewArchiveWorker(client *events.Client, writer archive.SessionWriter) *ArchiveWorker {
	return &ArchiveWorker{client: client, writer: writer}
}

// Run consumes events until the context is canceled or the broker connection
// drops. The caller owns reconnect policy.
func (w *ArchiveWorker) Run(ctx context.Context) error {
	return w.client.ConsumeEvents(ctx, w.HandleTransaction, w.HandleSessionEnded)
}

// HandleTransaction acknowledges the notification; nothing is archived per
// transaction.
func (w *ArchiveWorker) HandleTransaction(ctx context.Context, msg *events.TransactionRecordedMessage) error {
	slog.DebugContext(ctx, "Transaction event received",
		"session_id", msg.SessionID,
		"transaction_id", msg.TransactionID,
		"type", msg.Type,
		"component", "worker")
	return nil
}

// HandleSessionEnded writes the summary row. A returned error requeues the
// event so a transient sheet failure does not lose the session.
func (w *ArchiveWorker) HandleSessionEnded(ctx context.Context, msg *events.SessionEndedMessage) error {
	rowRef, err := w.writer.Append(ctx, *msg)
	if err != nil {
		return fmt.Errorf("archive session %s: %w", msg.SessionID, err)
	}

	slog.InfoContext(ctx, "Session archived",
		"session_id", msg.SessionID,
		"row_ref", rowRef,
		"players", len(msg.Standings),
		"component", "worker",
		"operation", "archive")
	return nil
}
