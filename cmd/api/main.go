// Package main provides the entry point for the TeamPlan account API server
// @title TeamPlan Account API
// @version 1.0
// @description Account security API: verification challenges, operation tokens, provider links.
// @host localhost:8080
// @BasePath /api/v1
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"teamplan/internal/api/server"
	"teamplan/internal/cleanup"
	"teamplan/internal/config"
	"teamplan/internal/database"
	"teamplan/internal/repository/postgres"
	"teamplan/internal/validation"

	"github.com/joho/godotenv"
)

func main() {
	// Parse command line flags
	envFile := flag.String("env", ".env", "Path to env file")
	flag.Parse()

	// Load environment file
	if err := godotenv.Load(*envFile); err != nil && *envFile == ".env" {
		log.Printf("Warning: %v", err)
	}

	// Load configuration
	cfg := &config.Config{}
	if err := cfg.LoadFromEnv(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.Database); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize validators
	validation.Initialize()

	// Start the store hygiene sweeps. Bucket retention tracks the
	// longest configured limit window so live buckets survive.
	sweepCtx, stopSweeps := context.WithCancel(context.Background())
	defer stopSweeps()
	sweeper := cleanup.NewStoreSweeper(
		cfg.Cleanup.Schedule,
		postgres.NewChallengeRepository(db),
		postgres.NewOperationTokenRepository(db),
		postgres.NewRateLimitRepository(db),
		postgres.NewAuditLogRepository(db),
		longestWindow(cfg.Limits),
		cfg.Cleanup.AuditRetention,
	)
	go func() {
		if err := sweeper.Start(sweepCtx); err != nil {
			log.Printf("Cleanup sweeper stopped: %v", err)
		}
	}()

	// Serve until interrupted
	if err := server.New(cfg, db).Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server exiting")
}

func longestWindow(limits config.LimitsConfig) time.Duration {
	longest := limits.ChallengeIssuance.Window
	for _, w := range []time.Duration{
		limits.CodeVerification.Window,
		limits.PasswordUpdate.Window,
		limits.AccountCreation.Window,
	} {
		if w > longest {
			longest = w
		}
	}
	return longest
}
