package ports

import (
	"context"
	"time"

	"moneybot/internal/core"
)

// Ports for outbound adapters.
type (
	// TransactionWriter records and removes ledger entries.
	TransactionWriter interface {
		// Insert stores one entry. The store assigns the id and timestamp.
		Insert(ctx context.Context, userID string, kind core.Kind, memo string, amount core.Money) error
		// DeleteAll removes every entry of userID and returns how many went.
		DeleteAll(ctx context.Context, userID string) (int64, error)
	}

	// TransactionReader reads a single user's ledger.
	TransactionReader interface {
		// SelectAll returns every entry of userID in no particular order.
		SelectAll(ctx context.Context, userID string) ([]core.Transaction, error)
		// SelectRecent returns up to limit entries, newest first.
		SelectRecent(ctx context.Context, userID string, limit int) ([]core.Transaction, error)
	}

	Store interface {
		TransactionWriter
		TransactionReader
	}

	// ChartRenderer draws an expense breakdown and returns the written file path.
	ChartRenderer interface {
		Render(ctx context.Context, name string, slices []core.CategoryAmount) (path string, err error)
	}

	// EventPublisher announces ledger mutations to other processes.
	EventPublisher interface {
		PublishRecorded(ctx context.Context, userID string, kind core.Kind, memo string, amount core.Money) error
		PublishCleared(ctx context.Context, userID string, deleted int64) error
	}

	// JournalWriter appends ledger events to an external journal.
	JournalWriter interface {
		AppendEvent(ctx context.Context, e JournalEntry) error
	}
)

// JournalEntry is one row of the external journal.
type JournalEntry struct {
	EventID   string
	Event     string
	UserID    string
	Kind      core.Kind
	Memo      string
	Amount    core.Money
	Deleted   int64
	Timestamp time.Time
}
