// Package archive defines the outbound port for writing finished-game
// summaries to an external sheet or log.
package archive

import (
	"context"

	"gamebank/internal/events"
)

// SessionWriter appends one summary row per finished session.
type SessionWriter interface {
	Append(ctx context.Context, msg events.SessionEndedMessage) (rowRef string, err error)
}
