package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	JPY Currency = "JPY"
	USD Currency = "USD"

	BankIncome  TransactionType = "bank_income"
	BankPayment TransactionType = "bank_payment"
	Transfer    TransactionType = "transfer"
)

const (
	// SchemaVersion tags the persisted blob; any other version is discarded on load.
	SchemaVersion = "1.0.0"

	MinPlayers = 2
	MaxPlayers = 8

	// MaxHistory bounds the finished-session list; the oldest entry is evicted.
	MaxHistory = 10

	DefaultInitialAmount int64 = 5000
	DefaultCurrency            = USD
)

// PlayerColors is the default palette assigned to players in seat order.
var PlayerColors = []string{
	"#FF6B6B",
	"#4ECDC4",
	"#95E77E",
	"#FFA07A",
	"#87CEEB",
	"#DDA0DD",
	"#F0E68C",
	"#FFB6C1",
}

// QuickAmounts are the preset amounts offered by the setup and bank screens.
var QuickAmounts = []int64{1000, 5000, 10000, 20000, 50000, 100000}

type (
	Currency        string
	TransactionType string

	Player struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Color   string `json:"color"`
		Balance int64  `json:"balance"`
	}

	Transaction struct {
		ID        string          `json:"id"`
		Type      TransactionType `json:"type"`
		From      Party           `json:"from"`
		To        Party           `json:"to"`
		Amount    int64           `json:"amount"`
		Timestamp time.Time       `json:"timestamp"`
		Label     string          `json:"label,omitempty"`
	}

	Session struct {
		ID            string        `json:"id"`
		StartedAt     time.Time     `json:"started_at"`
		InitialAmount int64         `json:"initial_amount"`
		Currency      Currency      `json:"currency"`
		Players       []Player      `json:"players"`
		Transactions  []Transaction `json:"transactions"`
		Ended         bool          `json:"ended"`
	}

	// StoreData is the single persisted blob: the active session plus a
	// bounded, most-recent-first history of finished sessions.
	StoreData struct {
		SchemaVersion  string    `json:"schema_version"`
		ActiveSession  *Session  `json:"active_session"`
		SessionHistory []Session `json:"session_history"`
	}
)

var (
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInvalidCurrency    = errors.New("invalid currency")
	ErrInvalidType        = errors.New("invalid transaction type")
	ErrUnknownPlayer      = errors.New("unknown player")
	ErrSamePlayer         = errors.New("transfer requires two distinct players")
	ErrBankLeg            = errors.New("transaction legs do not match its type")
	ErrSessionEnded       = errors.New("session has ended")
	ErrNoActiveSession    = errors.New("no active session")
	ErrPlayerCount        = errors.New("player count out of range")
	ErrNegativeInitial    = errors.New("initial amount must not be negative")
	ErrEmptyTransactionID = errors.New("empty transaction id")
)

// Party identifies one leg of a transaction: either the bank (the zero value)
// or a player in the session. On the wire it is the literal string "bank" or
// the player ID, matching the persisted layout.
type Party struct {
	playerID string
}

// Bank returns the non-player, infinite-funds counterparty.
func Bank() Party { return Party{} }

// PlayerRef returns a Party referencing the given player ID.
func PlayerRef(id string) Party { return Party{playerID: id} }

func (p Party) IsBank() bool { return p.playerID == "" }

// PlayerID returns the referenced player ID and whether the party is a player.
func (p Party) PlayerID() (string, bool) { return p.playerID, p.playerID != "" }

func (p Party) String() string {
	if p.playerID == "" {
		return "bank"
	}
	return p.playerID
}

func (p Party) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Party) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "bank" {
		*p = Party{}
	} else {
		*p = Party{playerID: s}
	}
	return nil
}

func (c Currency) Validate() error {
	switch c {
	case JPY, USD:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidCurrency, string(c))
	}
}

func (t TransactionType) Validate() error {
	switch t {
	case BankIncome, BankPayment, Transfer:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidType, string(t))
	}
}

// FindPlayer returns a pointer into the session's player slice, or nil.
func (s *Session) FindPlayer(id string) *Player {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return &s.Players[i]
		}
	}
	return nil
}

// TotalBalance sums all player balances. Transfers never change it; bank
// income and payment move it by exactly the transaction amount.
func (s *Session) TotalBalance() int64 {
	var total int64
	for _, p := range s.Players {
		total += p.Balance
	}
	return total
}

// Validate checks a transaction against the session it is about to join.
// It is shape-only: no balance is touched here.
func (tx Transaction) Validate(s *Session) error {
	if strings.TrimSpace(tx.ID) == "" {
		return ErrEmptyTransactionID
	}
	if err := tx.Type.Validate(); err != nil {
		return err
	}
	if tx.Amount <= 0 {
		return ErrInvalidAmount
	}

	fromID, fromIsPlayer := tx.From.PlayerID()
	toID, toIsPlayer := tx.To.PlayerID()

	switch tx.Type {
	case BankIncome:
		if fromIsPlayer || !toIsPlayer {
			return ErrBankLeg
		}
	case BankPayment:
		if !fromIsPlayer || toIsPlayer {
			return ErrBankLeg
		}
	case Transfer:
		if !fromIsPlayer || !toIsPlayer {
			return ErrBankLeg
		}
		if fromID == toID {
			return ErrSamePlayer
		}
	}

	if fromIsPlayer && s.FindPlayer(fromID) == nil {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, fromID)
	}
	if toIsPlayer && s.FindPlayer(toID) == nil {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, toID)
	}
	return nil
}

// EmptyStore returns a fresh blob with the current schema version.
func EmptyStore() StoreData {
	return StoreData{
		SchemaVersion:  SchemaVersion,
		ActiveSession:  nil,
		SessionHistory: []Session{},
	}
}
