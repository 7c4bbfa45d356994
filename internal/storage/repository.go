package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"moneybot/internal/core"
	"moneybot/internal/ports"

	_ "modernc.org/sqlite"
)

// timestampLayout is how recorded_at is read back from SQLite.
const timestampLayout = "2006-01-02 15:04:05"

var _ ports.Store = (*SQLiteRepository)(nil)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

// dsn waits on locks instead of failing immediately when several users write at once.
func dsn(dbPath string) string {
	return "file:" + dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Insert implements ports.TransactionWriter
func (r *SQLiteRepository) Insert(ctx context.Context, userID string, kind core.Kind, memo string, amount core.Money) error {
	t := core.Transaction{UserID: userID, Kind: kind, Memo: memo, Amount: amount}
	if err := t.Validate(); err != nil {
		return fmt.Errorf("validate transaction: %w", err)
	}

	id, err := r.queries.CreateTransaction(ctx, CreateTransactionParams{
		UserID:      userID,
		Type:        string(kind),
		Memo:        memo,
		AmountCents: amount.Cents,
	})
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}

	slog.DebugContext(ctx, "Transaction saved to SQLite",
		"id", id,
		"user_id", userID,
		"type", kind,
		"amount_cents", amount.Cents)

	return nil
}

// DeleteAll implements ports.TransactionWriter
func (r *SQLiteRepository) DeleteAll(ctx context.Context, userID string) (int64, error) {
	n, err := r.queries.DeleteUserTransactions(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("delete transactions: %w", err)
	}
	return n, nil
}

// SelectAll implements ports.TransactionReader
func (r *SQLiteRepository) SelectAll(ctx context.Context, userID string) ([]core.Transaction, error) {
	rows, err := r.queries.ListUserTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return toCore(rows)
}

// SelectRecent implements ports.TransactionReader
func (r *SQLiteRepository) SelectRecent(ctx context.Context, userID string, limit int) ([]core.Transaction, error) {
	rows, err := r.queries.ListRecentUserTransactions(ctx, userID, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list recent transactions: %w", err)
	}
	return toCore(rows)
}

func toCore(rows []Transaction) ([]core.Transaction, error) {
	out := make([]core.Transaction, len(rows))
	for i, row := range rows {
		recorded, err := time.ParseInLocation(timestampLayout, row.RecordedAt, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse recorded_at of transaction %d: %w", row.ID, err)
		}
		out[i] = core.Transaction{
			ID:         row.ID,
			UserID:     row.UserID,
			Kind:       core.Kind(row.Type),
			Memo:       row.Memo,
			Amount:     core.Money{Cents: row.AmountCents},
			RecordedAt: recorded,
		}
	}
	return out, nil
}
