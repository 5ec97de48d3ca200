package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/contratoflow/sync-engine/internal/config"
	"github.com/contratoflow/sync-engine/internal/credentials"
	handlerHTTP "github.com/contratoflow/sync-engine/internal/handler/http"
	"github.com/contratoflow/sync-engine/internal/logger"
	"github.com/contratoflow/sync-engine/internal/metrics"
	"github.com/contratoflow/sync-engine/internal/registry"
	"github.com/contratoflow/sync-engine/internal/search"
	"github.com/contratoflow/sync-engine/internal/server"
	"github.com/contratoflow/sync-engine/internal/service"
	"github.com/contratoflow/sync-engine/internal/store"
	"github.com/contratoflow/sync-engine/internal/workers"
	"github.com/contratoflow/sync-engine/migrations"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("syncd")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	db, err := store.NewConnectPostgres(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	if err = migrations.Migrate(db.DB); err != nil {
		log.Fatal().Err(err).Msg("error running migrations")
	}

	storages := store.NewStorages(db, log)
	collector := metrics.NewCollector(0, 0)

	tokens := credentials.NewCache(cfg.Registry, log)
	registryAdapter, err := registry.NewHTTPAdapter(cfg.Registry, cfg.Resilience, tokens, collector, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating registry adapter")
	}

	searchClient, err := search.NewHTTPClient(cfg.Search, cfg.Resilience, collector, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating search client")
	}

	services := service.NewServices(storages, registryAdapter, log)

	scheduler := workers.NewPushScheduler(services.SyncEngine, cfg.Workers.PushQueueSize, log)
	services.AttachScheduler(storages, scheduler, log)

	router := handlerHTTP.NewHandler(services, searchClient, collector, log).Init()

	servers, err := server.NewServer(router, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	background := workers.NewWorkers(scheduler)
	go func() {
		if err := background.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("background workers stopped")
		}
	}()

	servers.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
