package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"linkhive/internal/domain"
	"linkhive/internal/domain/models"
	"linkhive/internal/domain/repositories"
)

const folderColumns = `f.id, f.user_id, f.parent_id, f.name, f.description, f.icon, f.color,
	f.is_deleted, f.deleted_at, f.created_at, f.updated_at`

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

func scanFolder(row pgx.Row) (models.Folder, error) {
	var f models.Folder
	err := row.Scan(
		&f.ID,
		&f.UserID,
		&f.ParentID,
		&f.Name,
		&f.Description,
		&f.Icon,
		&f.Color,
		&f.IsDeleted,
		&f.DeletedAt,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	return f, err
}

func collectFolders(rows pgx.Rows) ([]models.Folder, error) {
	folders, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Folder, error) {
		return scanFolder(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan folders: %w", err)
	}
	if folders == nil {
		folders = []models.Folder{}
	}
	return folders, nil
}

func (r *PostgresFolderRepository) live() *liveQuery {
	return selectLive(folderColumns, r.tables.Folders, "f")
}

// Create inserts a folder. The partial unique index on live siblings turns
// a concurrent duplicate into a ConflictError.
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, parent_id, name, description, icon, color, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		folder.UserID,
		folder.ParentID,
		folder.Name,
		folder.Description,
		folder.Icon,
		folder.Color,
		folder.CreatedAt,
		folder.UpdatedAt,
	).Scan(&folder.ID, &folder.CreatedAt, &folder.UpdatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return r.siblingConflict(ctx, folder)
		}
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("parent folder: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

func (r *PostgresFolderRepository) getOne(ctx context.Context, id string, q *liveQuery) (*models.Folder, error) {
	sql, args := q.SQL()
	folder, err := scanFolder(GetExecutor(ctx, r.pool).QueryRow(ctx, sql, args...))
	if err != nil {
		if IsPgNoRowsError(err) || IsPgInvalidInputError(err) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("folder %s not found", id)}
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}
	return &folder, nil
}

// GetByID retrieves a live folder owned by userID
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id, userID string) (*models.Folder, error) {
	return r.getOne(ctx, id, r.live().Where("f.id = ?", id).Where("f.user_id = ?", userID))
}

// GetByIDOnly retrieves a live folder regardless of owner
func (r *PostgresFolderRepository) GetByIDOnly(ctx context.Context, id string) (*models.Folder, error) {
	return r.getOne(ctx, id, r.live().Where("f.id = ?", id))
}

// GetOwnerID selects only the owner column
func (r *PostgresFolderRepository) GetOwnerID(ctx context.Context, id string) (string, error) {
	sql, args := selectLive("f.user_id", r.tables.Folders, "f").Where("f.id = ?", id).SQL()

	var ownerID string
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, sql, args...).Scan(&ownerID)
	if err != nil {
		if IsPgNoRowsError(err) || IsPgInvalidInputError(err) {
			return "", &domain.NotFoundError{Message: fmt.Sprintf("folder %s not found", id)}
		}
		return "", fmt.Errorf("get folder owner: %w", err)
	}
	return ownerID, nil
}

// Update writes the mutable columns of a live folder
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = $1, name = $2, description = $3, icon = $4, color = $5, updated_at = $6
		WHERE id = $7 AND user_id = $8 AND is_deleted = FALSE
	`, r.tables.Folders)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		folder.ParentID,
		folder.Name,
		folder.Description,
		folder.Icon,
		folder.Color,
		folder.UpdatedAt,
		folder.ID,
		folder.UserID,
	)
	if err != nil {
		if IsPgDuplicateError(err) {
			return r.siblingConflict(ctx, folder)
		}
		return fmt.Errorf("update folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("folder %s not found", folder.ID)}
	}

	return nil
}

// ListChildren lists immediate live children ordered by name
func (r *PostgresFolderRepository) ListChildren(ctx context.Context, parentID *string, userID string) ([]models.Folder, error) {
	sql, args := r.live().
		Where("f.user_id = ?", userID).
		WhereParent("f.parent_id", parentID).
		OrderBy("f.name ASC").
		SQL()

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list folder children: %w", err)
	}
	return collectFolders(rows)
}

// ListChildIDs returns the IDs of live folders whose parent is in parentIDs.
// One call resolves a whole level of the tree.
func (r *PostgresFolderRepository) ListChildIDs(ctx context.Context, userID string, parentIDs []string) ([]string, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	sql, args := selectLive("f.id", r.tables.Folders, "f").
		Where("f.user_id = ?", userID).
		Where("f.parent_id = ANY(?::text[]::uuid[])", parentIDs).
		SQL()

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list child folder ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan child folder ids: %w", err)
	}
	return ids, nil
}

// FindSiblingByName returns the live folder named name at the given level, or nil
func (r *PostgresFolderRepository) FindSiblingByName(ctx context.Context, userID string, parentID *string, name string) (*models.Folder, error) {
	sql, args := r.live().
		Where("f.user_id = ?", userID).
		WhereParent("f.parent_id", parentID).
		Where("f.name = ?", name).
		SQL()

	folder, err := scanFolder(GetExecutor(ctx, r.pool).QueryRow(ctx, sql, args...))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find sibling folder: %w", err)
	}
	return &folder, nil
}

// List returns one page of folders and the total number of matches
func (r *PostgresFolderRepository) List(ctx context.Context, userID string, filter repositories.FolderListFilter) ([]models.Folder, int, error) {
	q := r.live().Where("f.user_id = ?", userID)
	if filter.ByParent {
		q.WhereParent("f.parent_id", filter.ParentID)
	}

	executor := GetExecutor(ctx, r.pool)

	countSQL, countArgs := q.CountSQL()
	var total int
	if err := executor.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count folders: %w", err)
	}

	sql, args := q.OrderBy("f.name ASC, f.id ASC").Page(filter.Page).SQL()
	rows, err := executor.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list folders: %w", err)
	}
	folders, err := collectFolders(rows)
	if err != nil {
		return nil, 0, err
	}
	return folders, total, nil
}

// GetAllByUser retrieves every live folder of an owner (flat list)
func (r *PostgresFolderRepository) GetAllByUser(ctx context.Context, userID string) ([]models.Folder, error) {
	sql, args := r.live().
		Where("f.user_id = ?", userID).
		OrderBy("f.name ASC").
		SQL()

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("get all folders: %w", err)
	}
	return collectFolders(rows)
}

// ListSharedWith lists live folders on which userID is a collaborator
func (r *PostgresFolderRepository) ListSharedWith(ctx context.Context, userID string) ([]models.Folder, error) {
	sql, args := r.live().
		Join(r.tables.FolderCollaborators, "c", "c.folder_id = f.id").
		Where("c.user_id = ?", userID).
		OrderBy("f.name ASC").
		SQL()

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list shared folders: %w", err)
	}
	return collectFolders(rows)
}

// SoftDeleteMany marks the given live folders deleted
func (r *PostgresFolderRepository) SoftDeleteMany(ctx context.Context, userID string, ids []string, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET is_deleted = TRUE, deleted_at = $1, updated_at = $1
		WHERE user_id = $2 AND id = ANY($3::text[]::uuid[]) AND is_deleted = FALSE
	`, r.tables.Folders)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, at, userID, ids)
	if err != nil {
		return 0, fmt.Errorf("soft delete folders: %w", err)
	}
	return result.RowsAffected(), nil
}

// LockTree takes a transaction-scoped advisory lock keyed by the owner
func (r *PostgresFolderRepository) LockTree(ctx context.Context, userID string) error {
	tx := repositories.GetTx(ctx)
	if tx == nil {
		return errors.New("lock folder tree: no transaction in context")
	}
	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", userID); err != nil {
		return fmt.Errorf("lock folder tree: %w", err)
	}
	return nil
}

// siblingConflict builds the ConflictError for a unique violation on
// (user_id, parent_id, name). The lookup fails inside an aborted
// transaction, in which case the error carries no resource ID.
func (r *PostgresFolderRepository) siblingConflict(ctx context.Context, folder *models.Folder) error {
	conflict := &domain.ConflictError{
		Message:      fmt.Sprintf("folder '%s' already exists in this location", folder.Name),
		ResourceType: "folder",
	}
	if repositories.GetTx(ctx) == nil {
		if existing, err := r.FindSiblingByName(ctx, folder.UserID, folder.ParentID, folder.Name); err == nil && existing != nil {
			conflict.ResourceID = existing.ID
		}
	}
	return conflict
}
