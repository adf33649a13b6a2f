package events

import (
	"encoding/json"
	"fmt"
	"time"

	"gamebank/internal/core"
)

const (
	EventTransactionRecorded = "transaction.recorded"
	EventSessionEnded        = "session.ended"
)

// Envelope wraps every published message with its event name so a single
// queue can carry both kinds.
type Envelope struct {
	Event     string          `json:"event"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// TransactionRecordedMessage is a lightweight notification that a transaction
// entered the ledger. Balances are not carried; consumers that need them
// re-read the store.
type TransactionRecordedMessage struct {
	SessionID     string               `json:"session_id"`
	TransactionID string               `json:"transaction_id"`
	Type          core.TransactionType `json:"type"`
	Amount        int64                `json:"amount"`
	Currency      core.Currency        `json:"currency"`
	RecordedAt    time.Time            `json:"recorded_at"`
}

// SessionEndedMessage carries everything the archive worker needs to write a
// summary row without reading the store: the final standings travel with the
// event.
type SessionEndedMessage struct {
	SessionID     string            `json:"session_id"`
	StartedAt     time.Time         `json:"started_at"`
	EndedAt       time.Time         `json:"ended_at"`
	Currency      core.Currency     `json:"currency"`
	InitialAmount int64             `json:"initial_amount"`
	Standings     []StandingSummary `json:"standings"`
}

// StandingSummary is one final-result row inside a SessionEndedMessage.
type StandingSummary struct {
	Rank    int    `json:"rank"`
	Name    string `json:"name"`
	Balance int64  `json:"balance"`
	Delta   int64  `json:"delta"`
}

// NewSessionEndedMessage builds the archive event for a frozen session.
func NewSessionEndedMessage(s core.Session, endedAt time.Time) SessionEndedMessage {
	standings := core.Standings(&s)
	rows := make([]StandingSummary, len(standings))
	for i, st := range standings {
		rows[i] = StandingSummary{
			Rank:    st.Rank,
			Name:    st.Player.Name,
			Balance: st.Player.Balance,
			Delta:   st.Delta,
		}
	}
	return SessionEndedMessage{
		SessionID:     s.ID,
		StartedAt:     s.StartedAt,
		EndedAt:       endedAt,
		Currency:      s.Currency,
		InitialAmount: s.InitialAmount,
		Standings:     rows,
	}
}

func wrap(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", event, err)
	}
	body, err := json.Marshal(Envelope{
		Event:     event,
		Timestamp: time.Now(),
		Data:      data,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", event, err)
	}
	return body, nil
}

// ParseEnvelope decodes a raw delivery body.
func ParseEnvelope(body []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Envelope{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	return env, nil
}
