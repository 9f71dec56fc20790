package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osse101/zombie-showcase-server/internal/config"
	"github.com/osse101/zombie-showcase-server/internal/database"
	"github.com/osse101/zombie-showcase-server/internal/domain"
	"github.com/osse101/zombie-showcase-server/internal/handler"
	"github.com/osse101/zombie-showcase-server/internal/item"
	"github.com/osse101/zombie-showcase-server/internal/rates"
	"github.com/osse101/zombie-showcase-server/internal/scheduler"
	"github.com/osse101/zombie-showcase-server/internal/server"
	"github.com/osse101/zombie-showcase-server/internal/store"
	"github.com/osse101/zombie-showcase-server/internal/upstream"
	"github.com/osse101/zombie-showcase-server/internal/worker"
	"github.com/osse101/zombie-showcase-server/internal/zombie"
	"github.com/osse101/zombie-showcase-server/internal/zombieitem"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	initLogger(cfg)
	handler.InitValidator()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	client, err := database.Connect(ctx, cfg.MongoURI)
	cancel()
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}()

	db := client.Database(cfg.MongoDatabase)

	zombies := store.New[domain.Zombie, *domain.Zombie](db, domain.CollectionZombies)
	items := store.New[domain.Item, *domain.Item](db, domain.CollectionItems)
	currencyRates := store.New[domain.CurrencyRate, *domain.CurrencyRate](db, domain.CollectionCurrencyRates)
	assignments := store.New[domain.ZombieItem, *domain.ZombieItem](db, domain.CollectionZombieItems)

	zombieService := zombie.NewService(zombies, assignments)
	itemService := item.NewService(items, upstream.NewItemsClient(cfg.ItemsAPIURL))
	rateService := rates.NewService(currencyRates, upstream.NewRatesClient(cfg.RatesAPIURL))
	assignmentService := zombieitem.NewService(assignments, items, zombies, currencyRates)

	pool := worker.NewPool(2, 8)
	pool.Start()
	defer pool.Stop()

	sched := scheduler.New(pool)
	sched.Schedule(cfg.RefreshInterval, &worker.ItemRefreshJob{Items: itemService})
	sched.Schedule(cfg.RefreshInterval, &worker.RateRefreshJob{Rates: rateService})
	defer sched.Stop()

	srv := server.NewServer(
		cfg.Port,
		database.Pinger{Client: client},
		zombieService,
		itemService,
		rateService,
		assignmentService,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	case sig := <-stop:
		slog.Info("Shutting down", "signal", sig.String())
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
