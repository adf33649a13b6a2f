// Package services exposes the operation set the presentation layer calls:
// start and end games, record and undo transactions, read back state. Every
// mutation is a full load-mutate-save cycle against the store.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gamebank/internal/core"
	"gamebank/internal/events"
	"gamebank/internal/ledger"
	"gamebank/internal/storage"
)

// TransactionInput is what the caller supplies; the service stamps ID and
// timestamp and the ledger validates the rest.
type TransactionInput struct {
	Type   core.TransactionType
	From   core.Party
	To     core.Party
	Amount int64
	Label  string
}

// GameService orchestrates the ledger engine, the persistence store and the
// optional event publisher. The mutex keeps the load-mutate-save cycle
// single-writer, which is the concurrency model the store contract assumes.
type GameService struct {
	mu     sync.Mutex
	store  storage.Store
	events *events.Client
}

func NewGameService(store storage.Store, eventsClient *events.Client) *GameService {
	return &GameService{
		store:  store,
		events: eventsClient,
	}
}

// StartNewGame creates and persists a fresh live session. Any unfinished
// active session is silently replaced; it never reaches the history unless
// it was explicitly ended first.
func (s *GameService) StartNewGame(ctx context.Context, players []ledger.PlayerSetup, initialAmount int64, currency core.Currency) (*core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := ledger.NewSession(players, initialAmount, currency)
	if err != nil {
		return nil, fmt.Errorf("start new game: %w", err)
	}

	data, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load store: %w", err)
	}
	if data.ActiveSession != nil {
		slog.InfoContext(ctx, "Replacing unfinished session",
			"session_id", data.ActiveSession.ID, "component", "ledger")
	}
	data.ActiveSession = &session
	s.save(ctx, data)

	slog.InfoContext(ctx, "Game started",
		"session_id", session.ID,
		"player_count", len(session.Players),
		"initial_amount", session.InitialAmount,
		"currency", session.Currency,
		"component", "ledger",
		"operation", "start_game")

	return &session, nil
}

// RecordTransaction appends one transaction to the active session and applies
// its balance delta. The caller re-reads state afterwards; the returned
// session reflects the mutation.
func (s *GameService) RecordTransaction(ctx context.Context, input TransactionInput) (*core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load store: %w", err)
	}
	if data.ActiveSession == nil {
		return nil, core.ErrNoActiveSession
	}

	tx := ledger.NewTransaction(input.Type, input.From, input.To, input.Amount, input.Label)
	if err := ledger.Record(data.ActiveSession, tx); err != nil {
		return nil, err
	}
	s.save(ctx, data)

	slog.InfoContext(ctx, "Transaction recorded",
		"session_id", data.ActiveSession.ID,
		"transaction_id", tx.ID,
		"transaction_type", tx.Type,
		"amount", tx.Amount,
		"component", "ledger",
		"operation", "record")

	s.publishTransaction(ctx, data.ActiveSession, tx)

	return data.ActiveSession, nil
}

// UndoLastTransaction reverses the most recent transaction. It reports false
// when there is nothing to undo, including when no session is active.
func (s *GameService) UndoLastTransaction(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.store.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("load store: %w", err)
	}
	if !ledger.UndoLast(data.ActiveSession) {
		return false, nil
	}
	s.save(ctx, data)

	slog.InfoContext(ctx, "Transaction undone",
		"session_id", data.ActiveSession.ID,
		"remaining", len(data.ActiveSession.Transactions),
		"component", "ledger",
		"operation", "undo")

	return true, nil
}

// EndGame freezes the active session, rotates it into the history and clears
// the active slot. The frozen session is returned for the result screen.
func (s *GameService) EndGame(ctx context.Context) (*core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load store: %w", err)
	}
	ended, err := ledger.Archive(&data)
	if err != nil {
		return nil, err
	}
	s.save(ctx, data)

	endedAt := time.Now()
	slog.InfoContext(ctx, "Game ended",
		"session_id", ended.ID,
		"transactions", len(ended.Transactions),
		"history_size", len(data.SessionHistory),
		"component", "ledger",
		"operation", "end_game")

	s.publishSessionEnded(ctx, ended, endedAt)

	return &ended, nil
}

// LoadActiveSession returns the live session, or nil when none exists.
func (s *GameService) LoadActiveSession(ctx context.Context) (*core.Session, error) {
	data, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load store: %w", err)
	}
	return data.ActiveSession, nil
}

// SessionHistory returns the finished sessions, most recent first.
func (s *GameService) SessionHistory(ctx context.Context) ([]core.Session, error) {
	data, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load store: %w", err)
	}
	return data.SessionHistory, nil
}

// Reset wipes the persisted blob: active session and history both gone.
func (s *GameService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Reset(ctx); err != nil {
		return fmt.Errorf("reset store: %w", err)
	}
	slog.InfoContext(ctx, "Store reset", "component", "ledger", "operation", "reset")
	return nil
}

// save persists the whole blob. Failures are logged and swallowed: the
// in-memory state the caller sees is not rolled back, accepting a possible
// durability gap over failing an interactive operation.
func (s *GameService) save(ctx context.Context, data core.StoreData) {
	if err := s.store.Save(ctx, data); err != nil {
		slog.ErrorContext(ctx, "Failed to persist store, continuing with in-memory state",
			"error", err, "component", "storage", "operation", "save")
	}
}

func (s *GameService) publishTransaction(ctx context.Context, session *core.Session, tx core.Transaction) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishTransactionRecorded(ctx, session.ID, tx, session.Currency); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"error", err, "transaction_id", tx.ID, "component", "events")
		// Don't fail the operation - the ledger entry is recorded
	}
}

func (s *GameService) publishSessionEnded(ctx context.Context, ended core.Session, endedAt time.Time) {
	if s.events == nil {
		return
	}
	msg := events.NewSessionEndedMessage(ended, endedAt)
	if err := s.events.PublishSessionEnded(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish session ended event",
			"error", err, "session_id", ended.ID, "component", "events")
		// Don't fail the operation - the session is archived locally
	}
}

// Close releases the store and the event channel.
func (s *GameService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.events != nil {
		if err := s.events.Close(); err != nil {
			errs = append(errs, fmt.Errorf("events: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close game service: %v", errs)
	}
	return nil
}
