// Package core holds the tally-board domain: sessions, players, transactions
// and the persisted blob layout.
//
// This file contains parsing and display formatting for amounts. Both
// supported currencies count whole units only; there are no fractional
// minor units anywhere in the system.
package core

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ParseAmount converts a user-supplied string to a positive whole amount.
//
// Digit grouping with commas is tolerated ("5,000" parses as 5000). Signs,
// decimals and anything non-numeric are rejected, as are zero amounts.
//
// Examples:
//
//	ParseAmount("5000")  -> 5000, nil
//	ParseAmount("5,000") -> 5000, nil
//	ParseAmount("0")     -> 0, ErrInvalidAmount
//	ParseAmount("-20")   -> 0, ErrInvalidAmount
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, ErrInvalidAmount
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if v <= 0 {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// FormatCurrency renders an amount with its currency symbol and comma
// grouping, e.g. ¥5,000 or -$1,200. Unknown currencies fall back to the
// bare grouped number.
func FormatCurrency(amount int64, currency Currency) string {
	var symbol string
	switch currency {
	case JPY:
		symbol = "¥"
	case USD:
		symbol = "$"
	default:
		return FormatNumber(amount)
	}
	if amount < 0 {
		return "-" + symbol + groupDigits(-amount)
	}
	return symbol + groupDigits(amount)
}

// FormatNumber renders an amount with comma grouping and no symbol.
func FormatNumber(amount int64) string {
	if amount < 0 {
		return "-" + groupDigits(-amount)
	}
	return groupDigits(amount)
}

// FormatDateTime renders a timestamp as "1/2 15:04" for history rows.
func FormatDateTime(t time.Time) string {
	return t.Format("1/2 15:04")
}

// FormatTime renders a timestamp as "15:04:05" for the transaction log.
func FormatTime(t time.Time) string {
	return t.Format("15:04:05")
}

func groupDigits(v int64) string {
	s := strconv.FormatInt(v, 10)
	n := len(s)
	if n <= 3 {
		return s
	}
	var b strings.Builder
	b.Grow(n + n/3)
	lead := n % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
