package main

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"

	"fitterm/internal/client"
	"fitterm/internal/config"
	"fitterm/internal/logging"
	"fitterm/internal/storage"
	"fitterm/internal/ui"
	"fitterm/internal/wger"
)

func main() {
	ctx := context.Background()

	cfgStore := config.Load()

	logger := logging.Open(cfgStore.Config.LogFile)
	defer func() { _ = logger.Sync() }()
	if warn := cfgStore.LoadWarning(); warn != nil {
		logger.Warn("falling back to default config", zap.Error(warn))
	}

	db, err := storage.Open(ctx, logger)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	defer db.Close()

	clients, err := db.LoadClients(ctx)
	if err != nil {
		log.Fatalf("load clients: %v", err)
	}
	repo := client.NewRepository(clients, db)

	catalog, err := wger.NewClient(cfgStore.Config.CatalogURL, cfgStore.Config.CatalogLanguage)
	if err != nil {
		log.Fatalf("init exercise catalog client: %v", err)
	}

	program := ui.NewProgram(repo, catalog, cfgStore, logger)
	if err := program.Start(); err != nil {
		logger.Error("program terminated", zap.Error(err))
		log.Println("program terminated:", err)
		os.Exit(1)
	}
}
