package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"linkhive/internal/auth"
	"linkhive/internal/cache"
	"linkhive/internal/config"
	"linkhive/internal/domain/models"
	"linkhive/internal/domain/services"
	"linkhive/internal/handler"
	"linkhive/internal/handler/sse"
	"linkhive/internal/middleware"
	"linkhive/internal/notify"
	"linkhive/internal/repository/postgres"
	authsvc "linkhive/internal/service/auth"
	"linkhive/internal/service/hierarchy"
)

func main() {
	// .env is optional outside local development
	_ = godotenv.Load()

	cfg := config.Load()

	var logOutput io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOutput = io.MultiWriter(os.Stdout, logFile)
	}
	logger := config.NewLogger(logOutput, cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	jwtVerifier, err := auth.NewJWTVerifier(cfg.SupabaseJWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()
	logger.Info("database connected")

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if cfg.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to apply schema: %v", err)
		}
		logger.Info("schema applied")
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	folderRepo := postgres.NewFolderRepository(repoConfig)
	bookmarkRepo := postgres.NewBookmarkRepository(repoConfig)
	folderBookmarkRepo := postgres.NewFolderBookmarkRepository(repoConfig)
	folderCollaboratorRepo := postgres.NewFolderCollaboratorRepository(repoConfig)
	collectionRepo := postgres.NewCollectionRepository(repoConfig)
	collectionCollaboratorRepo := postgres.NewCollectionCollaboratorRepository(repoConfig)
	tagRepo := postgres.NewTagRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	evaluator := authsvc.NewPermissionEvaluator(
		folderRepo,
		tagRepo,
		collectionRepo,
		folderCollaboratorRepo,
		collectionCollaboratorRepo,
	)

	healthChecks := map[string]handler.Pinger{"database": pool}

	var appCache services.Cache
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedis(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.TablePrefix,
		}, logger)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisCache.Close()
		appCache = redisCache
		healthChecks["cache"] = redisCache
	} else {
		logger.Info("REDIS_ADDR not set, using in-process cache")
		appCache = cache.NewMemory()
	}

	hub := notify.NewHub(logger)
	publishers := []notify.Publisher{hub}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := notify.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		defer kafkaPublisher.Close()
		publishers = append(publishers, kafkaPublisher)
	}
	dispatcher := notify.NewDispatcher(logger, publishers...)

	deps := hierarchy.Deps{
		Folders:                 folderRepo,
		Bookmarks:               bookmarkRepo,
		FolderBookmarks:         folderBookmarkRepo,
		FolderCollaborators:     folderCollaboratorRepo,
		Collections:             collectionRepo,
		CollectionCollaborators: collectionCollaboratorRepo,
		Authorizer:              evaluator,
		TxManager:               txManager,
		Cache:                   appCache,
		Notifier:                dispatcher,
		CacheTTL:                cfg.CacheTTL,
		Logger:                  logger,
	}
	folderService := hierarchy.NewFolderService(deps)
	collaboratorService := hierarchy.NewCollaboratorService(deps)
	collectionService := hierarchy.NewCollectionService(deps)

	folderHandler := handler.NewFolderHandler(folderService, cfg.DefaultPageSize, logger)
	folderCollaborators := handler.NewCollaboratorHandler(collaboratorService, models.ResourceFolder, logger)
	collectionHandler := handler.NewCollectionHandler(collectionService, cfg.DefaultPageSize, logger)
	collectionCollaborators := handler.NewCollaboratorHandler(collaboratorService, models.ResourceCollection, logger)
	eventsHandler := handler.NewEventsHandler(hub, sse.DefaultConfig(), logger)
	healthHandler := handler.NewHealthHandler(healthChecks, logger)

	logger.Info("services initialized")

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandler.HealthCheck)

	// Folder routes; literal segments win over {id}
	mux.HandleFunc("POST /api/folders", folderHandler.CreateFolder)
	mux.HandleFunc("GET /api/folders", folderHandler.ListFolders)
	mux.HandleFunc("GET /api/folders/tree", folderHandler.GetFolderTree)
	mux.HandleFunc("GET /api/folders/shared", folderHandler.ListSharedFolders)
	mux.HandleFunc("GET /api/folders/{id}", folderHandler.GetFolder)
	mux.HandleFunc("PATCH /api/folders/{id}", folderHandler.UpdateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", folderHandler.DeleteFolder)
	mux.HandleFunc("GET /api/folders/{id}/path", folderHandler.GetFolderPath)
	mux.HandleFunc("POST /api/folders/{id}/bookmarks/{bookmarkId}", folderHandler.AddBookmark)
	mux.HandleFunc("DELETE /api/folders/{id}/bookmarks/{bookmarkId}", folderHandler.RemoveBookmark)

	mux.HandleFunc("GET /api/folders/{id}/collaborators", folderCollaborators.ListCollaborators)
	mux.HandleFunc("POST /api/folders/{id}/collaborators", folderCollaborators.AddCollaborator)
	mux.HandleFunc("PATCH /api/folders/{id}/collaborators/{userId}", folderCollaborators.UpdateCollaborator)
	mux.HandleFunc("DELETE /api/folders/{id}/collaborators/{userId}", folderCollaborators.RemoveCollaborator)

	// Collection routes
	mux.HandleFunc("POST /api/collections", collectionHandler.CreateCollection)
	mux.HandleFunc("GET /api/collections", collectionHandler.ListCollections)
	mux.HandleFunc("GET /api/collections/{id}", collectionHandler.GetCollection)
	mux.HandleFunc("PATCH /api/collections/{id}", collectionHandler.UpdateCollection)
	mux.HandleFunc("DELETE /api/collections/{id}", collectionHandler.DeleteCollection)

	mux.HandleFunc("GET /api/collections/{id}/collaborators", collectionCollaborators.ListCollaborators)
	mux.HandleFunc("POST /api/collections/{id}/collaborators", collectionCollaborators.AddCollaborator)
	mux.HandleFunc("PATCH /api/collections/{id}/collaborators/{userId}", collectionCollaborators.UpdateCollaborator)
	mux.HandleFunc("DELETE /api/collections/{id}/collaborators/{userId}", collectionCollaborators.RemoveCollaborator)

	// Public share links (no auth)
	mux.HandleFunc("GET /api/shared/collections/{token}", collectionHandler.GetSharedCollection)

	// Notification stream
	mux.HandleFunc("GET /api/events", eventsHandler.Stream)

	// Order: CORS → Recovery → Auth → Routes
	var h http.Handler = mux
	h = middleware.AuthMiddleware(jwtVerifier, logger)(h)
	h = middleware.Recovery(logger)(h)

	// CORS must run before auth so pre-flight requests pass
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "Last-Event-ID"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // event streams are long-lived
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
}
