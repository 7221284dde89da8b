// Package common holds the small shared primitives used across layers:
// identifiers, timestamps, and currency amounts.
package common

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ID is a UUID-backed identifier carried as a string for painless JSON and
// SQL round-trips.
type ID string

// GenerateID returns a new random ID.  The optional prefix is joined with a
// dash, e.g. GenerateID("doc") → "doc-3f1c…".
func GenerateID(prefix string) ID {
	u := uuid.NewString()
	if prefix == "" {
		return ID(u)
	}
	return ID(prefix + "-" + u)
}

// IsZero reports whether the ID is empty.
func (id ID) IsZero() bool { return id == "" }

// String returns the raw identifier.
func (id ID) String() string { return string(id) }

// ParseID validates that s is a plausible identifier (optionally prefixed
// UUID) and returns it as an ID.
func ParseID(s string) (ID, error) {
	raw := s
	if i := strings.LastIndexByte(s, '-'); i > 0 && len(s)-i-1 == 36 {
		raw = s[i+1:]
	}
	if _, err := uuid.Parse(raw); err != nil {
		return "", fmt.Errorf("invalid id %q: %w", s, err)
	}
	return ID(s), nil
}

// Timestamp wraps time.Time with RFC 3339 JSON encoding in UTC.
type Timestamp time.Time

// Now returns the current instant as a Timestamp.
func Now() Timestamp { return Timestamp(time.Now().UTC()) }

// Time returns the underlying time.Time.
func (t Timestamp) Time() time.Time { return time.Time(t) }

// MarshalJSON encodes the timestamp as an RFC 3339 string in UTC.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).UTC().Format(time.RFC3339))
}

// UnmarshalJSON decodes an RFC 3339 string.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}
	*t = Timestamp(parsed)
	return nil
}

// Money is a currency amount in whole units (benefit figures are INR with no
// fractional paise anywhere in the catalog).
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// INR constructs a rupee amount.
func INR(amount int64) Money { return Money{Amount: amount, Currency: "INR"} }

// Add returns the sum of two amounts.  Mixing currencies is a programming
// error and panics.
func (m Money) Add(other Money) Money {
	if m.Currency == "" {
		return other
	}
	if other.Currency == "" {
		return m
	}
	if m.Currency != other.Currency {
		panic(fmt.Sprintf("money: cannot add %s to %s", other.Currency, m.Currency))
	}
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}
}

// String renders the amount as "<amount> <currency>".
func (m Money) String() string { return fmt.Sprintf("%d %s", m.Amount, m.Currency) }
