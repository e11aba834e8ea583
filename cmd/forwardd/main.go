package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/botforge/forward-driver/internal/adapters/raw"
	"github.com/botforge/forward-driver/internal/bot"
	"github.com/botforge/forward-driver/internal/config"
	"github.com/botforge/forward-driver/internal/database"
	"github.com/botforge/forward-driver/internal/driver"
	"github.com/botforge/forward-driver/internal/journal"
	"github.com/botforge/forward-driver/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/forwardd.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting forwardd",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)

	logger.Info("configuration loaded", "connections", len(cfg.Connections))

	ctx := context.Background()

	opts := []driver.Option{
		driver.WithLogger(logger),
		driver.WithRequestTimeout(cfg.Driver.RequestTimeout),
	}

	var jnl *journal.Journal
	if cfg.Journal.Enabled {
		logger.Info("connecting to journal database",
			"host", cfg.Journal.Database.Host,
			"database", cfg.Journal.Database.Name,
		)

		pool, err := database.Connect(ctx, cfg.Journal.Database)
		if err != nil {
			logger.Error("failed to connect to journal database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		jnl = journal.New(journal.Config{
			BatchSize:     cfg.Journal.BatchSize,
			FlushInterval: cfg.Journal.FlushInterval,
			BufferSize:    cfg.Journal.BufferSize,
		}, pool, logger)

		if err := jnl.Start(ctx); err != nil {
			logger.Error("failed to start journal", "error", err)
			os.Exit(1)
		}
		opts = append(opts, driver.WithRecorder(jnl))
	}

	adapters := bot.NewAdapterRegistry()
	if err := adapters.Register(raw.New(logger)); err != nil {
		logger.Error("failed to register adapter", "error", err)
		os.Exit(1)
	}

	d := driver.New(adapters, opts...)

	for _, conn := range cfg.Connections {
		req, err := conn.Request()
		if err != nil {
			logger.Error("invalid connection", "adapter", conn.Adapter, "error", err)
			os.Exit(1)
		}
		if err := d.RequestConnection(conn.Adapter, req,
			driver.WithPollInterval(conn.PollInterval),
			driver.WithReconnectInterval(conn.ReconnectInterval),
		); err != nil {
			logger.Error("failed to register connection", "adapter", conn.Adapter, "error", err)
			os.Exit(1)
		}
	}

	if jnl != nil {
		d.OnShutdown(func(ctx context.Context) error {
			stopCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return jnl.Stop(stopCtx)
		})
	}

	if err := d.Run(ctx); err != nil {
		logger.Error("driver exited with error", "error", err)
		os.Exit(1)
	}

	logger.Info("forwardd stopped")
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
