// Package memory is an in-process SessionWriter used in tests and when no
// spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"gamebank/internal/archive"
	"gamebank/internal/events"
)

type Store struct {
	mu    sync.Mutex
	items []events.SessionEndedMessage
}

var _ archive.SessionWriter = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// Append stores the summary and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, msg events.SessionEndedMessage) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, msg)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// Appended returns a copy of everything written so far.
func (s *Store) Appended() []events.SessionEndedMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]events.SessionEndedMessage(nil), s.items...)
}
