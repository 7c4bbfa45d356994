package backend

import (
	"context"
	"fmt"

	"moneybot/internal/amqp"
	"moneybot/internal/log"
	"moneybot/internal/ports"
	"moneybot/internal/services"
	"moneybot/internal/storage"
	"moneybot/internal/storage/memory"
	"moneybot/internal/storage/postgres"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend opens the configured store and wraps it in a LedgerService
// that publishes events when AMQP is configured.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	store, ping, err := f.openStore(ctx, config)
	if err != nil {
		return nil, err
	}

	// A nil *amqp.Client must not reach the service as a non-nil interface.
	var publisher ports.EventPublisher
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without events", log.FieldError, err)
		} else {
			publisher = client
			f.logger.InfoContext(ctx, "Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	svc := services.NewLedgerService(store, publisher, f.logger)
	f.logger.InfoContext(ctx, "Initialized backend",
		"type", config.Type.String(),
		"amqp_enabled", publisher != nil)

	return &BackendResult{
		Store:      svc,
		Ping:       ping,
		Cleanup:    svc.Close,
		Publishing: publisher != nil,
	}, nil
}

func (f *DefaultFactory) openStore(ctx context.Context, config Config) (ports.Store, PingFunc, error) {
	logger := f.logger.WithComponent(log.ComponentStorage)
	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		logger.InfoContext(ctx, "Opened SQLite store", "path", config.SQLiteDBPath)
		return repo, repo.Ping, nil
	case PostgresBackend:
		repo, err := postgres.Open(config.PostgresDSN, true)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize postgres repository: %w", err)
		}
		logger.InfoContext(ctx, "Opened postgres store")
		return repo, repo.Ping, nil
	case MemoryBackend:
		logger.WarnContext(ctx, "Using in-memory store, data is lost on restart")
		return memory.New(), func(context.Context) error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}
