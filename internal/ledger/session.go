package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"gamebank/internal/core"
)

// PlayerSetup describes one seat at session start. Name and Color are
// optional; blanks get "Player N" and the next palette color.
type PlayerSetup struct {
	Name  string
	Color string
}

// NewSession builds a live session: fresh ID, current timestamp, the initial
// amount applied uniformly to every player, an empty transaction log. The
// player count is enforced here, not left to the caller.
func NewSession(players []PlayerSetup, initialAmount int64, currency core.Currency) (core.Session, error) {
	if len(players) < core.MinPlayers || len(players) > core.MaxPlayers {
		return core.Session{}, fmt.Errorf("%w: %d (want %d-%d)",
			core.ErrPlayerCount, len(players), core.MinPlayers, core.MaxPlayers)
	}
	if initialAmount < 0 {
		return core.Session{}, core.ErrNegativeInitial
	}
	if err := currency.Validate(); err != nil {
		return core.Session{}, err
	}

	seats := make([]core.Player, len(players))
	for i, setup := range players {
		name := strings.TrimSpace(setup.Name)
		if name == "" {
			name = fmt.Sprintf("Player %d", i+1)
		}
		color := setup.Color
		if color == "" {
			color = core.PlayerColors[i%len(core.PlayerColors)]
		}
		seats[i] = core.Player{
			ID:      uuid.NewString(),
			Name:    name,
			Color:   color,
			Balance: initialAmount,
		}
	}

	return core.Session{
		ID:            uuid.NewString(),
		StartedAt:     time.Now(),
		InitialAmount: initialAmount,
		Currency:      currency,
		Players:       seats,
		Transactions:  []core.Transaction{},
		Ended:         false,
	}, nil
}

// NewTransaction stamps a transaction with a fresh ID and the current time.
// Validation happens in Record, against the session.
func NewTransaction(txType core.TransactionType, from, to core.Party, amount int64, label string) core.Transaction {
	return core.Transaction{
		ID:        uuid.NewString(),
		Type:      txType,
		From:      from,
		To:        to,
		Amount:    amount,
		Timestamp: time.Now(),
		Label:     label,
	}
}

// Archive ends the active session: marks it ended, prepends it to the
// history, truncates the history to core.MaxHistory entries (oldest dropped)
// and clears the active slot. The frozen session is returned.
func Archive(data *core.StoreData) (core.Session, error) {
	if data.ActiveSession == nil {
		return core.Session{}, core.ErrNoActiveSession
	}

	ended := *data.ActiveSession
	ended.Ended = true

	data.SessionHistory = append([]core.Session{ended}, data.SessionHistory...)
	if len(data.SessionHistory) > core.MaxHistory {
		data.SessionHistory = data.SessionHistory[:core.MaxHistory]
	}
	data.ActiveSession = nil
	return ended, nil
}
