package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"moneybot/internal/core"
	"moneybot/internal/ports"
)

// Event types carried in LedgerEvent.Type
const (
	EventRecorded = "ledger.recorded"
	EventCleared  = "ledger.cleared"
)

// LedgerEvent describes one mutation of a user's ledger.
type LedgerEvent struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	UserID      string    `json:"user_id"`
	Kind        string    `json:"kind,omitempty"`
	Memo        string    `json:"memo,omitempty"`
	AmountCents int64     `json:"amount_cents,omitempty"`
	Deleted     int64     `json:"deleted,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewRecordedEvent creates the event for a newly stored transaction.
func NewRecordedEvent(userID string, kind core.Kind, memo string, amount core.Money) *LedgerEvent {
	return &LedgerEvent{
		ID:          uuid.NewString(),
		Type:        EventRecorded,
		UserID:      userID,
		Kind:        string(kind),
		Memo:        memo,
		AmountCents: amount.Cents,
		Timestamp:   time.Now().UTC(),
	}
}

// NewClearedEvent creates the event for a cleared ledger.
func NewClearedEvent(userID string, deleted int64) *LedgerEvent {
	return &LedgerEvent{
		ID:        uuid.NewString(),
		Type:      EventCleared,
		UserID:    userID,
		Deleted:   deleted,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// JournalEntry converts the event into a journal row.
func (m *LedgerEvent) JournalEntry() ports.JournalEntry {
	return ports.JournalEntry{
		EventID:   m.ID,
		Event:     m.Type,
		UserID:    m.UserID,
		Kind:      core.Kind(m.Kind),
		Memo:      m.Memo,
		Amount:    core.Money{Cents: m.AmountCents},
		Deleted:   m.Deleted,
		Timestamp: m.Timestamp,
	}
}

// LedgerEventFromJSON decodes and sanity-checks an event body.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var msg LedgerEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	switch msg.Type {
	case EventRecorded, EventCleared:
	default:
		return nil, fmt.Errorf("unknown event type %q", msg.Type)
	}
	if msg.UserID == "" {
		return nil, fmt.Errorf("event %s has no user id", msg.ID)
	}
	return &msg, nil
}
