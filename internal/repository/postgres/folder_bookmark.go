package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"linkhive/internal/domain"
	"linkhive/internal/domain/repositories"
)

// PostgresFolderBookmarkRepository manages folder_bookmarks rows.
// Association rows are physically deleted; they carry no soft-delete column.
type PostgresFolderBookmarkRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFolderBookmarkRepository creates a new association repository
func NewFolderBookmarkRepository(config *RepositoryConfig) repositories.FolderBookmarkRepository {
	return &PostgresFolderBookmarkRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

func (r *PostgresFolderBookmarkRepository) Add(ctx context.Context, folderID, bookmarkID string, at time.Time) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (folder_id, bookmark_id, added_at)
		VALUES ($1, $2, $3)
	`, r.tables.FolderBookmarks)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, folderID, bookmarkID, at); err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      "bookmark is already in this folder",
				ResourceType: "folder_bookmark",
				ResourceID:   bookmarkID,
			}
		}
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("folder or bookmark: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("add bookmark to folder: %w", err)
	}
	return nil
}

func (r *PostgresFolderBookmarkRepository) Remove(ctx context.Context, folderID, bookmarkID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE folder_id = $1 AND bookmark_id = $2`, r.tables.FolderBookmarks)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, folderID, bookmarkID)
	if err != nil {
		return fmt.Errorf("remove bookmark from folder: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("bookmark %s is not in folder %s", bookmarkID, folderID)}
	}
	return nil
}

func (r *PostgresFolderBookmarkRepository) ListBookmarkIDs(ctx context.Context, folderIDs []string) ([]string, error) {
	if len(folderIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT DISTINCT bookmark_id FROM %s WHERE folder_id = ANY($1::text[]::uuid[])
	`, r.tables.FolderBookmarks)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, folderIDs)
	if err != nil {
		return nil, fmt.Errorf("list folder bookmark ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan folder bookmark ids: %w", err)
	}
	return ids, nil
}

// CopyToFolder is a single INSERT ... SELECT; existing target links are kept as they are
func (r *PostgresFolderBookmarkRepository) CopyToFolder(ctx context.Context, sourceFolderIDs []string, targetFolderID string, at time.Time) (int64, error) {
	if len(sourceFolderIDs) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %[1]s (folder_id, bookmark_id, added_at)
		SELECT DISTINCT $1::uuid, src.bookmark_id, $2::timestamptz
		FROM %[1]s src
		WHERE src.folder_id = ANY($3::text[]::uuid[])
		ON CONFLICT (folder_id, bookmark_id) DO NOTHING
	`, r.tables.FolderBookmarks)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, targetFolderID, at, sourceFolderIDs)
	if err != nil {
		return 0, fmt.Errorf("copy folder bookmarks: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *PostgresFolderBookmarkRepository) DeleteByFolders(ctx context.Context, folderIDs []string) (int64, error) {
	if len(folderIDs) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE folder_id = ANY($1::text[]::uuid[])`, r.tables.FolderBookmarks)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, folderIDs)
	if err != nil {
		return 0, fmt.Errorf("delete folder bookmarks: %w", err)
	}
	return result.RowsAffected(), nil
}

// CountByFolder counts live bookmarks in each of the owner's live folders.
// Folders without bookmarks are absent from the map.
func (r *PostgresFolderBookmarkRepository) CountByFolder(ctx context.Context, userID string) (map[string]int, error) {
	sql, args := selectLive("fb.folder_id, COUNT(*)", r.tables.Bookmarks, "b").
		Join(r.tables.FolderBookmarks, "fb", "fb.bookmark_id = b.id").
		JoinLive(r.tables.Folders, "f", "f.id = fb.folder_id").
		Where("f.user_id = ?", userID).
		GroupBy("fb.folder_id").
		SQL()

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("count folder bookmarks: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var folderID string
		var n int
		if err := rows.Scan(&folderID, &n); err != nil {
			return nil, fmt.Errorf("scan folder bookmark count: %w", err)
		}
		counts[folderID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folder bookmark counts: %w", err)
	}
	return counts, nil
}
