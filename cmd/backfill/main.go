package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"centavo/backend/config"
	"centavo/backend/database"
	"centavo/backend/migrations"
	"centavo/backend/services"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database connection
	err = database.InitDB(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Run migrations
	err = migrations.RunMigrations(database.DB)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	result, err := services.BackfillFaturaTransfers()
	if err != nil {
		log.Fatalf("Backfill failed after creating %d transfer(s): %v", result.Created, err)
	}

	fmt.Printf("Backfill completed, created %d transfer(s)\n", result.Created)
	os.Exit(0)
}
