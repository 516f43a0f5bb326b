package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ahmadakra1997/tradecore/client"
	"github.com/ahmadakra1997/tradecore/config"
	"github.com/ahmadakra1997/tradecore/instrumentation"
	"github.com/ahmadakra1997/tradecore/journal"
	"github.com/ahmadakra1997/tradecore/server"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connect to the stream and serve analytics",
	Long: `Connect to the configured market data stream, keep rolling buffers of
candles, trades and order book snapshots, and serve summaries over HTTP.

Example:
  tradecore run --config tradecore.yaml`,
	RunE: runRun,
}

var runConfigPath string

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON)")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	registry := prometheus.NewRegistry()
	metrics := instrumentation.NewMetrics(registry)

	var j journal.Journal = journal.Nop{}
	if cfg.Journal.Enabled {
		sqlite, err := journal.NewSQLite(cfg.Journal.DBPath)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer sqlite.Close()
		j = sqlite
	}

	c, err := client.New(client.Options{
		Config:  cfg,
		Journal: j,
		Metrics: metrics,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("build client: %w", err)
	}
	defer c.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.History.BaseURL != "" {
		for _, symbol := range cfg.Stream.Symbols {
			if err := c.Backfill(ctx, symbol, cfg.Stream.Timeframe, cfg.Store.MaxCandles); err != nil {
				logger.Warn("backfill failed, continuing with live data only",
					"symbol", symbol, "error", err)
			}
		}
	}

	logger.Info("connecting to stream",
		"url", cfg.Stream.URL, "symbols", cfg.Stream.Symbols)
	c.Connect()

	if cfg.Server.Enabled {
		srv := server.New(cfg.Server.Addr, c, registry, logger)
		if err := srv.Start(ctx); err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	} else {
		<-ctx.Done()
	}

	logger.Info("shutting down")
	return nil
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
