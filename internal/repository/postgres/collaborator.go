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

// PostgresCollaboratorRepository serves one collaborator table. The table
// keys rows by (resourceColumn, user_id).
type PostgresCollaboratorRepository struct {
	pool           *pgxpool.Pool
	table          string
	resourceColumn string
	resourceType   string
}

// NewFolderCollaboratorRepository serves folder_collaborators
func NewFolderCollaboratorRepository(config *RepositoryConfig) repositories.CollaboratorRepository {
	return &PostgresCollaboratorRepository{
		pool:           config.Pool,
		table:          config.Tables.FolderCollaborators,
		resourceColumn: "folder_id",
		resourceType:   "folder",
	}
}

// NewCollectionCollaboratorRepository serves collection_collaborators
func NewCollectionCollaboratorRepository(config *RepositoryConfig) repositories.CollaboratorRepository {
	return &PostgresCollaboratorRepository{
		pool:           config.Pool,
		table:          config.Tables.CollectionCollaborators,
		resourceColumn: "collection_id",
		resourceType:   "collection",
	}
}

func (r *PostgresCollaboratorRepository) notFound(resourceID, userID string) error {
	return &domain.NotFoundError{
		Message: fmt.Sprintf("user %s is not a collaborator on %s %s", userID, r.resourceType, resourceID),
	}
}

func (r *PostgresCollaboratorRepository) GetPermission(ctx context.Context, resourceID, userID string) (models.Permission, error) {
	query := fmt.Sprintf(`SELECT permission FROM %s WHERE %s = $1 AND user_id = $2`, r.table, r.resourceColumn)

	var permission models.Permission
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, resourceID, userID).Scan(&permission)
	if err != nil {
		if IsPgNoRowsError(err) || IsPgInvalidInputError(err) {
			return "", r.notFound(resourceID, userID)
		}
		return "", fmt.Errorf("get %s collaborator: %w", r.resourceType, err)
	}
	return permission, nil
}

func (r *PostgresCollaboratorRepository) Create(ctx context.Context, c *models.Collaborator) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, user_id, permission, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, r.table, r.resourceColumn)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query, c.ResourceID, c.UserID, c.Permission, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("user %s is already a collaborator", c.UserID),
				ResourceType: "collaborator",
				ResourceID:   c.UserID,
			}
		}
		if IsPgForeignKeyError(err) {
			return &domain.NotFoundError{Message: fmt.Sprintf("%s %s not found", r.resourceType, c.ResourceID)}
		}
		return fmt.Errorf("create %s collaborator: %w", r.resourceType, err)
	}
	return nil
}

func (r *PostgresCollaboratorRepository) UpdatePermission(ctx context.Context, resourceID, userID string, permission models.Permission, at time.Time) (*models.Collaborator, error) {
	query := fmt.Sprintf(`
		UPDATE %[1]s SET permission = $1, updated_at = $2
		WHERE %[2]s = $3 AND user_id = $4
		RETURNING %[2]s, user_id, permission, created_at, updated_at
	`, r.table, r.resourceColumn)

	var c models.Collaborator
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, permission, at, resourceID, userID).
		Scan(&c.ResourceID, &c.UserID, &c.Permission, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, r.notFound(resourceID, userID)
		}
		return nil, fmt.Errorf("update %s collaborator: %w", r.resourceType, err)
	}
	return &c, nil
}

func (r *PostgresCollaboratorRepository) Delete(ctx context.Context, resourceID, userID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND user_id = $2`, r.table, r.resourceColumn)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, resourceID, userID)
	if err != nil {
		return fmt.Errorf("delete %s collaborator: %w", r.resourceType, err)
	}
	if result.RowsAffected() == 0 {
		return r.notFound(resourceID, userID)
	}
	return nil
}

func (r *PostgresCollaboratorRepository) List(ctx context.Context, resourceID string) ([]models.Collaborator, error) {
	query := fmt.Sprintf(`
		SELECT %[2]s, user_id, permission, created_at, updated_at
		FROM %[1]s WHERE %[2]s = $1
		ORDER BY created_at ASC
	`, r.table, r.resourceColumn)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, resourceID)
	if err != nil {
		return nil, fmt.Errorf("list %s collaborators: %w", r.resourceType, err)
	}
	collaborators, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Collaborator, error) {
		var c models.Collaborator
		err := row.Scan(&c.ResourceID, &c.UserID, &c.Permission, &c.CreatedAt, &c.UpdatedAt)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s collaborators: %w", r.resourceType, err)
	}
	if collaborators == nil {
		collaborators = []models.Collaborator{}
	}
	return collaborators, nil
}

func (r *PostgresCollaboratorRepository) ListUserIDs(ctx context.Context, resourceIDs []string) ([]string, error) {
	if len(resourceIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT DISTINCT user_id FROM %s WHERE %s = ANY($1::text[]::uuid[])`, r.table, r.resourceColumn)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, resourceIDs)
	if err != nil {
		return nil, fmt.Errorf("list %s collaborator ids: %w", r.resourceType, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan %s collaborator ids: %w", r.resourceType, err)
	}
	return ids, nil
}

func (r *PostgresCollaboratorRepository) DeleteByResources(ctx context.Context, resourceIDs []string) (int64, error) {
	if len(resourceIDs) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = ANY($1::text[]::uuid[])`, r.table, r.resourceColumn)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, resourceIDs)
	if err != nil {
		return 0, fmt.Errorf("delete %s collaborators: %w", r.resourceType, err)
	}
	return result.RowsAffected(), nil
}
