package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"linkhive/internal/domain"
	"linkhive/internal/domain/models"
	"linkhive/internal/domain/repositories"
)

const bookmarkColumns = `b.id, b.user_id, b.url, b.title, b.description, b.notes, b.visit_count,
	b.last_visited_at, b.is_deleted, b.deleted_at, b.created_at, b.updated_at`

// PostgresBookmarkRepository implements the BookmarkRepository interface
type PostgresBookmarkRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewBookmarkRepository creates a new bookmark repository
func NewBookmarkRepository(config *RepositoryConfig) repositories.BookmarkRepository {
	return &PostgresBookmarkRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

func scanBookmark(row pgx.Row) (models.Bookmark, error) {
	var b models.Bookmark
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.URL,
		&b.Title,
		&b.Description,
		&b.Notes,
		&b.VisitCount,
		&b.LastVisitedAt,
		&b.IsDeleted,
		&b.DeletedAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	return b, err
}

func (r *PostgresBookmarkRepository) Create(ctx context.Context, bookmark *models.Bookmark) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, url, title, description, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, r.tables.Bookmarks)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		bookmark.UserID,
		bookmark.URL,
		bookmark.Title,
		bookmark.Description,
		bookmark.Notes,
		bookmark.CreatedAt,
		bookmark.UpdatedAt,
	).Scan(&bookmark.ID, &bookmark.CreatedAt, &bookmark.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create bookmark: %w", err)
	}
	return nil
}

// GetByID retrieves a live bookmark owned by userID
func (r *PostgresBookmarkRepository) GetByID(ctx context.Context, id, userID string) (*models.Bookmark, error) {
	sql, args := selectLive(bookmarkColumns, r.tables.Bookmarks, "b").
		Where("b.id = ?", id).
		Where("b.user_id = ?", userID).
		SQL()

	bookmark, err := scanBookmark(GetExecutor(ctx, r.pool).QueryRow(ctx, sql, args...))
	if err != nil {
		if IsPgNoRowsError(err) || IsPgInvalidInputError(err) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("bookmark %s not found", id)}
		}
		return nil, fmt.Errorf("get bookmark: %w", err)
	}
	return &bookmark, nil
}

// ListByFolder returns one page of live bookmarks linked into folderID
func (r *PostgresBookmarkRepository) ListByFolder(ctx context.Context, folderID string, page models.Page) ([]models.Bookmark, int, error) {
	q := selectLive(bookmarkColumns, r.tables.Bookmarks, "b").
		Join(r.tables.FolderBookmarks, "fb", "fb.bookmark_id = b.id").
		Where("fb.folder_id = ?", folderID)

	executor := GetExecutor(ctx, r.pool)

	countSQL, countArgs := q.CountSQL()
	var total int
	if err := executor.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count folder bookmarks: %w", err)
	}

	sql, args := q.OrderBy("fb.added_at DESC, b.id ASC").Page(page).SQL()
	rows, err := executor.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list folder bookmarks: %w", err)
	}
	bookmarks, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Bookmark, error) {
		return scanBookmark(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("scan bookmarks: %w", err)
	}
	return bookmarks, total, nil
}
