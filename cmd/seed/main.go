package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/osse101/PhotocardBot_Go/internal/catalog"
	"github.com/osse101/PhotocardBot_Go/internal/database"
	"github.com/osse101/PhotocardBot_Go/internal/database/postgres"
)

func main() {
	path := flag.String("file", "configs/catalog.toml", "TOML catalog to load")
	dryRun := flag.Bool("dry-run", false, "validate the catalog without touching the database")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	f, err := os.Open(*path)
	if err != nil {
		log.Fatalf("Failed to open catalog: %v", err)
	}
	defer f.Close()

	cards, err := catalog.LoadSeed(f)
	if err != nil {
		log.Fatalf("Invalid catalog %s: %v", *path, err)
	}
	log.Printf("Catalog %s holds %d cards\n", *path, len(cards))
	if *dryRun {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	connString := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
	)
	pool, err := database.NewPool(ctx, connString, database.PoolConfig{MaxConns: 4})
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer pool.Close()

	if _, err := database.Migrate(ctx, pool); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	n, err := postgres.NewCatalogRepository(pool).UpsertCards(ctx, cards)
	if err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}
	log.Printf("✅ Seeded %d cards\n", n)
}
