package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/oriolvn/serptrack/pkg/config"
	"github.com/oriolvn/serptrack/pkg/domains"
	"github.com/oriolvn/serptrack/pkg/logger"
	"github.com/oriolvn/serptrack/pkg/provider"
	"github.com/oriolvn/serptrack/pkg/queue"
	"github.com/oriolvn/serptrack/pkg/refresh"
	"github.com/oriolvn/serptrack/pkg/storage"
)

func main() {
	cfg, err := config.Load("config.toml")
	if err != nil {
		slog.Error("fatal: couldn't load config", slog.Any("err", err))
		os.Exit(1)
	}

	logger.InitLogger(cfg)

	pool, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		slog.Error("fatal: couldn't open database", slog.Any("err", err))
		os.Exit(1)
	}
	defer pool.Close()

	if err := storage.RunMigrations(pool); err != nil {
		slog.Error("fatal: failed to run migrations", "err", err)
		os.Exit(1)
	}

	store := storage.NewPostgresStorage(pool)
	policies := domains.NewPolicyCache(store)
	retryQueue := queue.New(cfg.Scraper.QueueFile)
	refresher := refresh.New(cfg.Scraper, provider.Default(), store, policies, retryQueue)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var wg sync.WaitGroup

	appSignal := make(chan os.Signal, 1)
	signal.Notify(appSignal, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)

	wg.Add(1)
	go func() {
		defer wg.Done()
		run(ctx, cfg, store, policies, refresher)
	}()

	select {
	case s := <-appSignal:
		slog.Info("received system signal", slog.String("signal", s.String()))
		stop()
	case <-ctx.Done():
		slog.Info("context done, stopping")
	}

	wg.Wait()
	slog.Info("shutdown complete")
}

// run drives the two periodic passes: a full refresh of every tracked
// keyword, and an hourly-by-default retry of queued failures.
func run(ctx context.Context, cfg *config.Config, store storage.Store, policies *domains.PolicyCache, refresher *refresh.Refresher) {
	refreshTicker := time.NewTicker(cfg.Scraper.GetInterval())
	defer refreshTicker.Stop()
	retryTicker := time.NewTicker(cfg.Scraper.GetRetryEvery())
	defer retryTicker.Stop()

	refreshAll(ctx, store, policies, refresher)

	for {
		select {
		case <-refreshTicker.C:
			refreshAll(ctx, store, policies, refresher)
		case <-retryTicker.C:
			refresher.RetryQueued(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func refreshAll(ctx context.Context, store storage.Store, policies *domains.PolicyCache, refresher *refresh.Refresher) {
	// Domain settings may have changed between passes.
	policies.InvalidateAll()

	rows, err := store.ListKeywords(ctx)
	if err != nil {
		slog.Error("failed to list keywords", slog.Any("err", err))
		return
	}
	if len(rows) == 0 {
		slog.Info("no keywords to refresh")
		return
	}

	slog.Info("starting refresh", slog.Int("keywords", len(rows)))
	refresher.RefreshKeywords(ctx, rows)
}
