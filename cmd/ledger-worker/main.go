package main

import (
	"moneybot/internal/amqp"
	"moneybot/internal/cli"
	"moneybot/internal/config"
	"moneybot/internal/log"
	gsheet "moneybot/internal/sheets/google"
	"moneybot/internal/worker"
)

func main() {
	cfg, logger := cli.Bootstrap(log.ComponentWorker)
	cli.Exit(logger, "ledger-worker", run(cfg, logger))
}

func run(cfg *config.Config, logger *log.Logger) error {
	if err := cfg.ValidateWorker(); err != nil {
		return err
	}

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	journal, err := gsheet.NewFromEnv(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
	if err != nil {
		return err
	}
	logger.WithComponent(log.ComponentSheets).Info("Journal spreadsheet configured",
		"spreadsheet_id", cfg.GoogleSpreadsheetID,
		"sheet", cfg.GoogleSheetName)

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return err
	}
	defer client.Close()

	logger.WithComponent(log.ComponentAMQP).Info("Starting ledger-worker",
		"queue", cfg.AMQPQueue,
		log.FieldOperation, log.OpStartup)

	return worker.NewJournalWorker(journal, logger).Run(ctx, client)
}
