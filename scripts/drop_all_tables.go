package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"linkhive/internal/config"
	"linkhive/internal/repository/postgres"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.Environment == "prod" {
		log.Fatal("refusing to drop tables in production")
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := postgres.DropAll(ctx, pool, postgres.NewTableNames(cfg.TablePrefix)); err != nil {
		log.Fatalf("Failed to drop tables: %v", err)
	}
	log.Printf("All tables dropped (prefix: %s)", cfg.TablePrefix)
}
