// Package postgres stores the ledger in PostgreSQL through gorm.
package postgres

import (
	"context"
	"fmt"
	"time"

	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"moneybot/internal/core"
	"moneybot/internal/ports"
)

var _ ports.Store = (*Repository)(nil)

// TransactionRow is the gorm model of the transactions table.
type TransactionRow struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	UserID      string    `gorm:"type:text;not null;index:idx_transactions_user_recorded,priority:1"`
	Type        string    `gorm:"type:text;not null"`
	Memo        string    `gorm:"type:text;not null"`
	AmountCents int64     `gorm:"not null;check:amount_cents >= 0"`
	RecordedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_transactions_user_recorded,priority:2,sort:desc"`
}

func (TransactionRow) TableName() string { return "transactions" }

func (r TransactionRow) toCore() core.Transaction {
	return core.Transaction{
		ID:         r.ID,
		UserID:     r.UserID,
		Kind:       core.Kind(r.Type),
		Memo:       r.Memo,
		Amount:     core.Money{Cents: r.AmountCents},
		RecordedAt: r.RecordedAt.UTC(),
	}
}

type Repository struct {
	db *gorm.DB
}

// Open connects to dsn and migrates the schema when autoMigrate is set.
func Open(dsn string, autoMigrate bool) (*Repository, error) {
	db, err := gorm.Open(gormpg.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return NewRepository(db, autoMigrate)
}

// NewRepository wraps an existing gorm handle.
func NewRepository(db *gorm.DB, autoMigrate bool) (*Repository, error) {
	if autoMigrate {
		if err := db.AutoMigrate(&TransactionRow{}); err != nil {
			return nil, fmt.Errorf("migrate transactions: %w", err)
		}
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping reports whether the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Insert leaves RecordedAt zero so the column default stamps the row.
func (r *Repository) Insert(ctx context.Context, userID string, kind core.Kind, memo string, amount core.Money) error {
	t := core.Transaction{UserID: userID, Kind: kind, Memo: memo, Amount: amount}
	if err := t.Validate(); err != nil {
		return fmt.Errorf("validate transaction: %w", err)
	}
	row := TransactionRow{UserID: userID, Type: string(kind), Memo: memo, AmountCents: amount.Cents}
	if err := r.db.WithContext(ctx).Omit("RecordedAt").Create(&row).Error; err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (r *Repository) DeleteAll(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&TransactionRow{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete transactions: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *Repository) SelectAll(ctx context.Context, userID string) ([]core.Transaction, error) {
	var rows []TransactionRow
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return toCore(rows), nil
}

func (r *Repository) SelectRecent(ctx context.Context, userID string, limit int) ([]core.Transaction, error) {
	var rows []TransactionRow
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("recorded_at DESC").Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list recent transactions: %w", err)
	}
	return toCore(rows), nil
}

func toCore(rows []TransactionRow) []core.Transaction {
	out := make([]core.Transaction, len(rows))
	for i, r := range rows {
		out[i] = r.toCore()
	}
	return out
}
