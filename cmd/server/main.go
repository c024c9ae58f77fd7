// Package main is the entry point for Hermes, the trading mission simulator.
//
// Startup wires one SQLite cache database, the Alpha Vantage and NewsData
// clients behind the market data service, the session registry, the cron
// scheduler and the HTTP server. SIGINT/SIGTERM trigger a graceful shutdown.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/hermes/internal/clientdata"
	"github.com/aristath/hermes/internal/clients/alphavantage"
	"github.com/aristath/hermes/internal/clients/newsdata"
	"github.com/aristath/hermes/internal/config"
	"github.com/aristath/hermes/internal/database"
	"github.com/aristath/hermes/internal/events"
	"github.com/aristath/hermes/internal/modules/marketdata"
	"github.com/aristath/hermes/internal/modules/missions"
	"github.com/aristath/hermes/internal/modules/simulation"
	"github.com/aristath/hermes/internal/scheduler"
	"github.com/aristath/hermes/internal/server"
	"github.com/aristath/hermes/pkg/logger"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Str("data_dir", cfg.DataDir).
		Bool("mock_fallback", cfg.MockFallback).
		Msg("Starting Hermes")

	cacheDB, err := database.New(database.Config{
		Path:    cfg.HistoryDBPath(),
		Profile: database.ProfileCache,
		Name:    "cache",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open cache database")
	}
	defer cacheDB.Close()

	if err := cacheDB.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate cache database")
	}
	if err := cacheDB.QuickCheck(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Cache database is not reachable")
	}

	cacheRepo := clientdata.NewRepository(cacheDB.Conn())
	avClient := alphavantage.NewClient(cfg.AlphaVantageKey, log)
	newsClient := newsdata.NewClient(cfg.NewsDataKey, log)

	marketService := marketdata.NewService(avClient, newsClient, cacheRepo, marketdata.Config{
		MockFallback: cfg.MockFallback,
		HistoryTTL:   cfg.HistoryCacheTTL,
	}, log)

	eventBus := events.NewBus(log)
	eventManager := events.NewManager(eventBus, log)

	catalog := missions.DefaultCatalog()
	log.Info().Strs("symbols", catalog.Symbols()).Int("missions", len(catalog.List())).Msg("Mission catalog loaded")

	registry := simulation.NewRegistry(catalog, marketService, eventManager, simulation.SessionConfig{
		InitialCash:      cfg.InitialCash,
		PlaybackInterval: cfg.PlaybackInterval,
		ChartWindow:      cfg.ChartWindowDays,
	}, log)

	sched := scheduler.New(log)
	sched.SetEventManager(eventManager)
	evictionJob := scheduler.NewSessionEvictionJob(registry, cfg.SessionIdleTTL, log)
	cleanupJob := clientdata.NewCleanupJob(cacheRepo, log)
	budgetJob := scheduler.NewRequestBudgetResetJob(avClient, log)
	walJob := scheduler.NewCheckWALCheckpointsJob(log, cacheDB)

	jobs := []struct {
		schedule string
		job      scheduler.Job
	}{
		{scheduler.ScheduleSessionEviction, evictionJob},
		{scheduler.ScheduleCacheCleanup, cleanupJob},
		{scheduler.ScheduleRequestBudgetReset, budgetJob},
		{scheduler.ScheduleWALCheck, walJob},
	}
	for _, j := range jobs {
		if err := sched.AddJob(j.schedule, j.job); err != nil {
			log.Fatal().Err(err).Str("job", j.job.Name()).Msg("Failed to schedule job")
		}
	}

	srv := server.New(server.Config{
		Log:           log,
		Port:          cfg.Port,
		DevMode:       cfg.DevMode,
		Registry:      registry,
		EventBus:      eventBus,
		MarketData:    marketService,
		CacheDB:       cacheDB,
		RequestBudget: avClient,
	})
	srv.SystemHandlers().RegisterJobs(evictionJob, cleanupJob, budgetJob, walJob)
	srv.SystemHandlers().UseScheduler(sched)

	// Entries that expired while the server was down
	if err := sched.RunNow(cleanupJob); err != nil {
		log.Warn().Err(err).Msg("Initial cache cleanup failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched.Start()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
	}

	registry.CloseAll()
	sched.Stop()

	log.Info().Msg("Hermes stopped")
}
