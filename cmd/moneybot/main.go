package main

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/sync/errgroup"

	"moneybot/internal/backend"
	"moneybot/internal/chart"
	"moneybot/internal/cli"
	"moneybot/internal/config"
	apphttp "moneybot/internal/http"
	"moneybot/internal/ledger"
	"moneybot/internal/log"
)

func main() {
	cfg, logger := cli.Bootstrap(log.ComponentApp)
	cli.Exit(logger, "moneybot", run(cfg, logger))
}

func run(cfg *config.Config, logger *log.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	be, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := be.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err)
		}
	}()

	font, err := chart.LoadFont(cfg.ChartFont)
	if err != nil {
		return err
	}
	chartLogger := logger.WithComponent(log.ComponentChart)
	if font.Thai {
		chartLogger.Info("Chart font loaded", "font", font.Path)
	} else {
		chartLogger.Warn("No Thai font found, Thai chart labels will not render", "font", font.Path)
	}
	charts, err := chart.NewPieRenderer(cfg.StaticDir, font)
	if err != nil {
		return err
	}
	engine := ledger.NewEngine(be.Store, charts, ledger.Options{
		PublicBaseURL: cfg.PublicBaseURL,
		StaticPath:    ledger.DefaultStaticPath,
		HistoryLimit:  cfg.HistoryLimit,
	}, logger)
	if cfg.PublicBaseURL == "" {
		logger.Warn("PUBLIC_BASE_URL not set, summaries are sent without charts")
	}

	replier, err := apphttp.NewLineReplier(cfg.LineChannelAccessToken, "")
	if err != nil {
		return err
	}
	srv := apphttp.NewServer(apphttp.Options{
		Addr:                    ":" + cfg.Port,
		ChannelSecret:           cfg.LineChannelSecret,
		StaticDir:               cfg.StaticDir,
		StaticPath:              ledger.DefaultStaticPath,
		Ready:                   be.Ping,
		StaticRequestsPerMinute: 60,
		TrustedProxies:          cfg.TrustedProxies,
		Logger:                  logger,
	}, engine, replier)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting moneybot server",
			"port", cfg.Port,
			"backend", cfg.DataBackend,
			"events", be.Publishing,
			log.FieldOperation, log.OpStartup)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server", log.FieldOperation, log.OpShutdown)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}
