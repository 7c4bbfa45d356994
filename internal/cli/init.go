// Package cli holds the start-up steps shared by cmd/moneybot and
// cmd/ledger-worker.
package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"moneybot/internal/config"
	"moneybot/internal/log"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile(files ...string) {
	_ = godotenv.Load(files...)
}

// Bootstrap loads .env and the configuration, then installs a logger for
// component at the configured level as the process default.
func Bootstrap(component string) (*config.Config, *log.Logger) {
	return bootstrap(component, os.Stdout)
}

func bootstrap(component string, out io.Writer) (*config.Config, *log.Logger) {
	LoadEnvFile()
	cfg := config.Load()
	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Component: component,
		Output:    out,
	})
	log.SetDefault(logger)
	return cfg, logger
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		logger.Info("Shutdown requested", log.FieldOperation, log.OpShutdown)
	}()
	return ctx, stop
}

// Exit logs err and terminates with status 1 when err is non-nil.
func Exit(logger *log.Logger, process string, err error) {
	if err == nil {
		return
	}
	logger.Error(process+" exited", ExitFields(err).ToSlice()...)
	os.Exit(1)
}

// ExitFields classifies a fatal start-up or run error.
func ExitFields(err error) log.LogFields {
	fields := log.NewFields().WithError(err)
	if errors.Is(err, config.ErrInvalid) {
		return fields.WithErrorType(log.ErrorTypeConfiguration)
	}
	return fields.WithErrorType(log.ErrorTypeInternal)
}
