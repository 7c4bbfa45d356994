package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"moneybot/internal/amqp"
	"moneybot/internal/log"
	"moneybot/internal/ports"
)

// EventSource delivers ledger events to a handler until ctx is done.
type EventSource interface {
	ConsumeEvents(ctx context.Context, handler func(context.Context, *amqp.LedgerEvent) error) error
}

// JournalWorker copies ledger events into an external journal.
type JournalWorker struct {
	journal ports.JournalWriter
	logger  *log.Logger

	appended atomic.Int64
	failed   atomic.Int64
}

func NewJournalWorker(journal ports.JournalWriter, logger *log.Logger) *JournalWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &JournalWorker{
		journal: journal,
		logger:  logger.WithComponent(log.ComponentWorker),
	}
}

// HandleEvent appends one event. A returned error makes the consumer requeue it.
func (w *JournalWorker) HandleEvent(ctx context.Context, ev *amqp.LedgerEvent) error {
	if ev == nil {
		return errors.New("nil event")
	}
	w.logger.InfoContext(ctx, "Processing ledger event",
		log.FieldEventID, ev.ID,
		log.FieldEventType, ev.Type,
		log.FieldUserID, ev.UserID,
		log.FieldOperation, log.OpConsume)

	if err := w.journal.AppendEvent(ctx, ev.JournalEntry()); err != nil {
		w.failed.Add(1)
		w.logger.ErrorContext(ctx, "Failed to append event to journal",
			log.FieldEventID, ev.ID,
			log.FieldError, err,
			log.FieldErrorType, log.ErrorTypeNetwork,
			log.FieldOperation, log.OpAppend)
		return fmt.Errorf("append event %s: %w", ev.ID, err)
	}

	w.appended.Add(1)
	return nil
}

// Run consumes from src until ctx is cancelled.
func (w *JournalWorker) Run(ctx context.Context, src EventSource) error {
	w.logger.InfoContext(ctx, "Journal worker started")
	err := src.ConsumeEvents(ctx, w.HandleEvent)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("consume events: %w", err)
	}
	appended, failed := w.Stats()
	w.logger.InfoContext(ctx, "Journal worker stopped",
		"appended", appended,
		"failed", failed)
	return nil
}

// Stats returns how many events were appended and how many failed.
func (w *JournalWorker) Stats() (appended, failed int64) {
	return w.appended.Load(), w.failed.Load()
}
