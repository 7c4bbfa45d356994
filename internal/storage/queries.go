package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Transaction mirrors a row of the transactions table.
type Transaction struct {
	ID          int64
	UserID      string
	Type        string
	Memo        string
	AmountCents int64
	RecordedAt  string
}

const createTransaction = `INSERT INTO transactions (user_id, type, memo, amount_cents) VALUES (?, ?, ?, ?)`

type CreateTransactionParams struct {
	UserID      string
	Type        string
	Memo        string
	AmountCents int64
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, createTransaction, arg.UserID, arg.Type, arg.Memo, arg.AmountCents)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const deleteUserTransactions = `DELETE FROM transactions WHERE user_id = ?`

func (q *Queries) DeleteUserTransactions(ctx context.Context, userID string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteUserTransactions, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const selectColumns = `SELECT id, user_id, type, memo, amount_cents, strftime('%Y-%m-%d %H:%M:%S', recorded_at) FROM transactions`

const listUserTransactions = selectColumns + ` WHERE user_id = ?`

func (q *Queries) ListUserTransactions(ctx context.Context, userID string) ([]Transaction, error) {
	return q.list(ctx, listUserTransactions, userID)
}

const listRecentUserTransactions = selectColumns + ` WHERE user_id = ? ORDER BY recorded_at DESC, id DESC LIMIT ?`

func (q *Queries) ListRecentUserTransactions(ctx context.Context, userID string, limit int64) ([]Transaction, error) {
	return q.list(ctx, listRecentUserTransactions, userID, limit)
}

func (q *Queries) list(ctx context.Context, query string, args ...any) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Transaction
	for rows.Next() {
		var i Transaction
		if err := rows.Scan(&i.ID, &i.UserID, &i.Type, &i.Memo, &i.AmountCents, &i.RecordedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
