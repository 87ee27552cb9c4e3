package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"comply-core/internal/advisory"
	"comply-core/internal/api"
	"comply-core/internal/seed"
	"comply-core/pkg/config"
	"comply-core/pkg/db"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	log.Printf("starting compliance core on port %s (db: %s)", cfg.Port, cfg.DBPath)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	database, err := db.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to init database: %v", err)
	}
	defer database.Close()
	if err := db.ApplyMigrations(database); err != nil {
		log.Fatalf("failed to apply migrations: %v", err)
	}

	// One-time seed on a fresh store; any failure aborts before serving.
	fresh, err := seed.IsFresh(ctx, database)
	if err != nil {
		log.Fatalf("failed to inspect store: %v", err)
	}
	if fresh {
		log.Println("fresh store detected, seeding initial data")
		if err := seed.Run(ctx, database, cfg.RulesConfigPath); err != nil {
			log.Fatalf("failed to seed initial data: %v", err)
		}
		log.Println("initial data seeded")
	} else {
		log.Println("existing store found, skipping seed")
	}

	advisoryClient := advisory.NewClient(cfg.AdvisoryURL, cfg.AdvisoryModel, cfg.AdvisoryTimeout)

	server := api.NewServer(database, advisoryClient, cfg.JWTSecret, cfg.TokenTTL)
	go func() {
		if err := server.Start(":" + cfg.Port); err != nil {
			log.Fatalf("api server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Println("shutting down")
}
