package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"linkhive/internal/domain/repositories"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Folders                 string
	Bookmarks               string
	FolderBookmarks         string
	FolderCollaborators     string
	Tags                    string
	Collections             string
	CollectionCollaborators string
}

// NewTableNames creates table names with the given prefix (dev_, test_, prod_)
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Folders:                 prefix + "folders",
		Bookmarks:               prefix + "bookmarks",
		FolderBookmarks:         prefix + "folder_bookmarks",
		FolderCollaborators:     prefix + "folder_collaborators",
		Tags:                    prefix + "tags",
		Collections:             prefix + "collections",
		CollectionCollaborators: prefix + "collection_collaborators",
	}
}

// All lists every table, children before parents (drop order)
func (t *TableNames) All() []string {
	return []string{
		t.CollectionCollaborators,
		t.Collections,
		t.FolderCollaborators,
		t.FolderBookmarks,
		t.Tags,
		t.Bookmarks,
		t.Folders,
	}
}

// CreateConnectionPool opens and pings a pgx pool.
//
// Port 6543 is the Supabase transaction pooler (PgBouncer), which rejects
// named prepared statements. Unless the URL already picks a
// default_query_exec_mode, the pool switches to cache_describe there.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 2

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction carried by ctx, or the pool when there is none.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
