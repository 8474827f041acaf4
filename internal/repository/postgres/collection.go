package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"linkhive/internal/domain"
	"linkhive/internal/domain/models"
	"linkhive/internal/domain/repositories"
)

const collectionColumns = `c.id, c.owner_id, c.name, c.description, c.is_public, c.share_token,
	c.is_deleted, c.deleted_at, c.created_at, c.updated_at`

// PostgresCollectionRepository implements the CollectionRepository interface
type PostgresCollectionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewCollectionRepository creates a new collection repository
func NewCollectionRepository(config *RepositoryConfig) repositories.CollectionRepository {
	return &PostgresCollectionRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

func scanCollection(row pgx.Row) (models.Collection, error) {
	var c models.Collection
	err := row.Scan(
		&c.ID,
		&c.OwnerID,
		&c.Name,
		&c.Description,
		&c.IsPublic,
		&c.ShareToken,
		&c.IsDeleted,
		&c.DeletedAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

func (r *PostgresCollectionRepository) live() *liveQuery {
	return selectLive(collectionColumns, r.tables.Collections, "c")
}

func (r *PostgresCollectionRepository) Create(ctx context.Context, collection *models.Collection) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (owner_id, name, description, is_public, share_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, r.tables.Collections)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		collection.OwnerID,
		collection.Name,
		collection.Description,
		collection.IsPublic,
		collection.ShareToken,
		collection.CreatedAt,
		collection.UpdatedAt,
	).Scan(&collection.ID, &collection.CreatedAt, &collection.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	return nil
}

func (r *PostgresCollectionRepository) getOne(ctx context.Context, ref string, q *liveQuery) (*models.Collection, error) {
	sql, args := q.SQL()
	collection, err := scanCollection(GetExecutor(ctx, r.pool).QueryRow(ctx, sql, args...))
	if err != nil {
		if IsPgNoRowsError(err) || IsPgInvalidInputError(err) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("collection %s not found", ref)}
		}
		return nil, fmt.Errorf("get collection: %w", err)
	}
	return &collection, nil
}

func (r *PostgresCollectionRepository) GetByIDOnly(ctx context.Context, id string) (*models.Collection, error) {
	return r.getOne(ctx, id, r.live().Where("c.id = ?", id))
}

func (r *PostgresCollectionRepository) GetByShareToken(ctx context.Context, token string) (*models.Collection, error) {
	return r.getOne(ctx, "for share link", r.live().Where("c.share_token = ?", token).Where("c.is_public = TRUE"))
}

func (r *PostgresCollectionRepository) GetOwnerID(ctx context.Context, id string) (string, error) {
	sql, args := selectLive("c.owner_id", r.tables.Collections, "c").Where("c.id = ?", id).SQL()

	var ownerID string
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, sql, args...).Scan(&ownerID); err != nil {
		if IsPgNoRowsError(err) || IsPgInvalidInputError(err) {
			return "", &domain.NotFoundError{Message: fmt.Sprintf("collection %s not found", id)}
		}
		return "", fmt.Errorf("get collection owner: %w", err)
	}
	return ownerID, nil
}

func (r *PostgresCollectionRepository) ListByOwner(ctx context.Context, ownerID string, page models.Page) ([]models.Collection, int, error) {
	q := r.live().Where("c.owner_id = ?", ownerID)
	executor := GetExecutor(ctx, r.pool)

	countSQL, countArgs := q.CountSQL()
	var total int
	if err := executor.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count collections: %w", err)
	}

	sql, args := q.OrderBy("c.updated_at DESC, c.id ASC").Page(page).SQL()
	rows, err := executor.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list collections: %w", err)
	}
	collections, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Collection, error) {
		return scanCollection(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("scan collections: %w", err)
	}
	return collections, total, nil
}

func (r *PostgresCollectionRepository) Update(ctx context.Context, collection *models.Collection) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, description = $2, is_public = $3, share_token = $4, updated_at = $5
		WHERE id = $6 AND is_deleted = FALSE
	`, r.tables.Collections)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		collection.Name,
		collection.Description,
		collection.IsPublic,
		collection.ShareToken,
		collection.UpdatedAt,
		collection.ID,
	)
	if err != nil {
		return fmt.Errorf("update collection: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("collection %s not found", collection.ID)}
	}
	return nil
}

// SoftDelete also clears the share token so the public link stops resolving
func (r *PostgresCollectionRepository) SoftDelete(ctx context.Context, id, ownerID string, at time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET is_deleted = TRUE, deleted_at = $1, updated_at = $1, share_token = NULL
		WHERE id = $2 AND owner_id = $3 AND is_deleted = FALSE
	`, r.tables.Collections)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, at, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("collection %s not found", id)}
	}
	return nil
}
