package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"linkhive/internal/auth"
	"linkhive/internal/config"
	"linkhive/internal/repository/postgres"
	authsvc "linkhive/internal/service/auth"
	"linkhive/internal/service/hierarchy"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only apply the schema, don't seed data")
	clearData := flag.Bool("clear-data", false, "Empty all tables (keep schema) and exit")
	fixturePath := flag.String("fixture", "", "YAML fixture to load (default: built-in seed.yaml)")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("BLOCKED: --drop-tables and --clear-data are disabled in production")
	}

	logger := config.NewLogger(os.Stdout, "prod")

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)
	log.Printf("Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	if *dropTables {
		if err := postgres.DropAll(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("Tables dropped")
	}

	if err := postgres.Migrate(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}
	log.Println("Schema ready")
	if *schemaOnly {
		return
	}

	if err := postgres.TruncateAll(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to clear data: %v", err)
	}
	if *clearData {
		log.Println("Data cleared")
		return
	}

	fixture, err := LoadFixture(*fixturePath)
	if err != nil {
		log.Fatalf("Failed to load fixture: %v", err)
	}

	repoConfig := &postgres.RepositoryConfig{Pool: pool, Tables: tables, Logger: logger}
	folderRepo := postgres.NewFolderRepository(repoConfig)
	collectionRepo := postgres.NewCollectionRepository(repoConfig)
	folderCollaborators := postgres.NewFolderCollaboratorRepository(repoConfig)
	collectionCollaborators := postgres.NewCollectionCollaboratorRepository(repoConfig)
	bookmarkRepo := postgres.NewBookmarkRepository(repoConfig)

	deps := hierarchy.Deps{
		Folders:                 folderRepo,
		Bookmarks:               bookmarkRepo,
		FolderBookmarks:         postgres.NewFolderBookmarkRepository(repoConfig),
		FolderCollaborators:     folderCollaborators,
		Collections:             collectionRepo,
		CollectionCollaborators: collectionCollaborators,
		Authorizer: authsvc.NewPermissionEvaluator(
			folderRepo,
			postgres.NewTagRepository(repoConfig),
			collectionRepo,
			folderCollaborators,
			collectionCollaborators,
		),
		TxManager: postgres.NewTransactionManager(pool, logger),
		Logger:    logger,
	}

	s := &seeder{
		bookmarks:     bookmarkRepo,
		folders:       hierarchy.NewFolderService(deps),
		collaborators: hierarchy.NewCollaboratorService(deps),
		collections:   hierarchy.NewCollectionService(deps),
	}
	if cfg.SupabaseURL != "" && cfg.SupabaseKey != "" {
		s.admin = auth.NewAdminClient(cfg.SupabaseURL, cfg.SupabaseKey)
		log.Println("Provisioning users through the auth admin API")
	}

	stats, err := s.Run(ctx, fixture)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeding complete: %d users, %d folders, %d bookmarks, %d shares, %d collections",
		stats.Users, stats.Folders, stats.Bookmarks, stats.Shares, stats.Collections)
}
