package backend

import (
	"context"
	"slices"

	"moneybot/internal/config"
	"moneybot/internal/ports"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// PingFunc reports whether the backing store can serve requests.
type PingFunc func(ctx context.Context) error

// BackendResult contains the store and its lifecycle hooks.
type BackendResult struct {
	Store   ports.Store
	Ping    PingFunc
	Cleanup CleanupFunc
	// Publishing is true when mutations are announced over AMQP.
	Publishing bool
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	SQLiteDBPath string
	PostgresDSN  string

	// Optional event publishing
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend   BackendType = config.BackendSQLite
	PostgresBackend BackendType = config.BackendPostgres
	MemoryBackend   BackendType = config.BackendMemory
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is one config accepts
func (bt BackendType) IsValid() bool {
	return slices.Contains(config.Backends(), string(bt))
}
