package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

type (
	// Kind tells whether a transaction adds to or takes from the balance.
	Kind string

	Money struct {
		Cents int64
	}

	Transaction struct {
		ID         int64 // Assigned by the store
		UserID     string
		Kind       Kind
		Memo       string
		Amount     Money
		RecordedAt time.Time // Assigned by the store at insert time
	}
)

var (
	ErrInvalidKind   = errors.New("invalid transaction kind")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyMemo     = errors.New("empty memo")
	ErrEmptyUser     = errors.New("empty user id")
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case Income, Expense:
		return true
	default:
		return false
	}
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.UserID) == "" {
		return ErrEmptyUser
	}
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	if strings.TrimSpace(t.Memo) == "" {
		return ErrEmptyMemo
	}
	return t.Amount.Validate()
}
