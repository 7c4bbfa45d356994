package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"moneybot/internal/core"
	"moneybot/internal/log"
	"moneybot/internal/ports"
)

var _ ports.Store = (*LedgerService)(nil)

// LedgerService stores transactions and announces each mutation. The store
// is the source of truth; events are best effort.
type LedgerService struct {
	store     ports.Store
	publisher ports.EventPublisher
	logger    *log.Logger
}

// NewLedgerService wraps store. publisher and logger may be nil.
func NewLedgerService(store ports.Store, publisher ports.EventPublisher, logger *log.Logger) *LedgerService {
	if logger == nil {
		logger = log.Discard()
	}
	return &LedgerService{
		store:     store,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentAMQP),
	}
}

// Insert saves the transaction and publishes a recorded event
func (s *LedgerService) Insert(ctx context.Context, userID string, kind core.Kind, memo string, amount core.Money) error {
	if err := s.store.Insert(ctx, userID, kind, memo, amount); err != nil {
		return fmt.Errorf("save transaction: %w", err)
	}

	if s.publisher == nil {
		return nil
	}
	if err := s.publisher.PublishRecorded(ctx, userID, kind, memo, amount); err != nil {
		// Don't fail the request, the transaction is saved
		s.logger.ErrorContext(ctx, "Failed to publish recorded event",
			log.NewFields().WithUser(userID).WithOperation(log.OpPublish).
				WithErrorType(log.ErrorTypeNetwork).WithError(err).ToSlice()...)
	}
	return nil
}

// DeleteAll clears the user's ledger and publishes a cleared event
func (s *LedgerService) DeleteAll(ctx context.Context, userID string) (int64, error) {
	n, err := s.store.DeleteAll(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("clear transactions: %w", err)
	}

	if s.publisher == nil {
		return n, nil
	}
	if err := s.publisher.PublishCleared(ctx, userID, n); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish cleared event",
			log.NewFields().WithUser(userID).WithOperation(log.OpPublish).
				WithErrorType(log.ErrorTypeNetwork).WithError(err).ToSlice()...)
	}
	return n, nil
}

func (s *LedgerService) SelectAll(ctx context.Context, userID string) ([]core.Transaction, error) {
	return s.store.SelectAll(ctx, userID)
}

func (s *LedgerService) SelectRecent(ctx context.Context, userID string, limit int) ([]core.Transaction, error) {
	return s.store.SelectRecent(ctx, userID, limit)
}

// Close closes the store and publisher when they hold resources
func (s *LedgerService) Close() error {
	var errs []error

	if c, ok := s.store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}

	if c, ok := s.publisher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("close ledger service: %w", err)
	}
	return nil
}
