package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"auction-house/config"
	"auction-house/internal/auction"
	"auction-house/internal/bidding"
	"auction-house/internal/events"
	"auction-house/internal/lifecycle"
	"auction-house/internal/locks"
	"auction-house/internal/metrics"
	"auction-house/internal/repository"
	"auction-house/internal/server"
	"auction-house/internal/settlement"
	"auction-house/internal/wallet"
	"auction-house/utils"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	utils.ConfigureLogger(cfg.Log.Level, cfg.Log.Format)

	store, err := openStore(cfg)
	if err != nil {
		utils.Fatal("failed to open store", map[string]any{"error": err.Error()})
	}

	publisher := openPublisher(cfg)
	notifier := events.NewPublisherNotifier(publisher)

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	auctionLocks := locks.NewKeyedMutex()
	walletSvc := wallet.NewService(store, publisher, m)
	settlementSvc := settlement.NewService(store, walletSvc, publisher, notifier, m, auctionLocks)
	biddingSvc := bidding.NewService(store, walletSvc, publisher, notifier, m, auctionLocks)
	scheduler := lifecycle.NewScheduler(store, settlementSvc, biddingSvc, publisher, notifier)
	auctionSvc := auction.NewService(store, scheduler, settlementSvc, publisher, notifier, auctionLocks)

	// Recovery pass: re-arm timers and replay transitions missed while down.
	if err := scheduler.Bootstrap(); err != nil {
		utils.Fatal("scheduler bootstrap failed", map[string]any{"error": err.Error()})
	}
	defer scheduler.Stop()

	router := server.SetupRouter(server.Services{
		Auction:    auctionSvc,
		Settlement: settlementSvc,
		Bidding:    biddingSvc,
		Wallet:     walletSvc,
	}, server.Options{
		RatePerSecond:   cfg.RateLimit.PerSecond,
		RateBurst:       cfg.RateLimit.Burst,
		MetricsRegistry: registry,
	})

	utils.Info("starting auction house server", map[string]any{
		"addr":    cfg.Addr(),
		"storage": cfg.Storage.Driver,
	})
	if err := router.Run(cfg.Addr()); err != nil {
		utils.Fatal("server stopped", map[string]any{"error": err.Error()})
	}
}

// openStore selects the persistence backend from config.
func openStore(cfg *config.Config) (repository.Store, error) {
	switch cfg.Storage.Driver {
	case "sqlite":
		return repository.NewSQLiteStore(cfg.Storage.DSN)
	case "memory", "":
		return repository.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// openPublisher connects to NATS when configured, otherwise events go to the
// log.
func openPublisher(cfg *config.Config) events.Publisher {
	if cfg.Events.NATSURL == "" {
		return events.NewLogPublisher()
	}
	p, err := events.NewNATSPublisher(cfg.Events.NATSURL)
	if err != nil {
		utils.Warn("nats unavailable, falling back to log publisher", map[string]any{
			"url":   cfg.Events.NATSURL,
			"error": err.Error(),
		})
		return events.NewLogPublisher()
	}
	return p
}
