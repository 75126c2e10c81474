package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/propmaint/backend/internal/config"
	"github.com/propmaint/backend/internal/database"
	"github.com/propmaint/backend/internal/docstore/gormstore"
)

func main() {
	path := flag.String("file", "", "seed file (defaults to data/initial-maintenance.json)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg.Store.DatabaseURL, false)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Running database migrations...")
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	tasks, err := database.LoadMaintenanceSeed(*path)
	if err != nil {
		log.Fatalf("Error loading maintenance tasks: %v", err)
	}

	log.Println("Seeding maintenance tasks...")
	collection := cfg.Collections.Maintenance
	if collection == "" {
		collection = "mantenimiento"
	}
	n, err := database.SeedMaintenance(context.Background(), gormstore.New(db), collection, tasks, time.Now())
	if err != nil {
		log.Fatalf("Error seeding maintenance tasks after %d: %v", n, err)
	}

	log.Printf("✅ Database seeding completed successfully! (%d tasks)", n)
}
