package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-co-op/gocron/v2"
	"golang.org/x/sync/errgroup"

	"github.com/ayusharma-ctrl/GIYC/internal/config"
	"github.com/ayusharma-ctrl/GIYC/internal/database"
	"github.com/ayusharma-ctrl/GIYC/internal/game"
	"github.com/ayusharma-ctrl/GIYC/internal/migrations"
	"github.com/ayusharma-ctrl/GIYC/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- SQLite ---
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating data dir: %w", err)
		}
	}
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	// --- Stores & engine ---
	store := server.NewSQLiteStore(db)
	engine := game.NewEngine(store, logger)

	if err := server.Seed(ctx, logger, store); err != nil {
		return fmt.Errorf("seeding: %w", err)
	}

	// --- Notification sweeper ---
	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}
	_, err = sched.NewJob(
		gocron.DurationJob(cfg.SweepInterval),
		gocron.NewTask(func() {
			n, err := engine.PurgeExpired(context.Background())
			if err != nil {
				logger.Error("purging expired notifications", "error", err)
				return
			}
			if n > 0 {
				logger.Info("purged expired notifications", "count", n)
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("scheduling notification sweep: %w", err)
	}
	sched.Start()
	defer sched.Shutdown()

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, store, engine, db)

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}
