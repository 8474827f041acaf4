package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"linkhive/internal/domain"
	"linkhive/internal/domain/repositories"
)

// PostgresTagRepository implements the TagRepository interface
type PostgresTagRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewTagRepository creates a new tag repository
func NewTagRepository(config *RepositoryConfig) repositories.TagRepository {
	return &PostgresTagRepository{pool: config.Pool, tables: config.Tables}
}

// GetOwnerID selects only the owner column of a live tag
func (r *PostgresTagRepository) GetOwnerID(ctx context.Context, id string) (string, error) {
	sql, args := selectLive("t.user_id", r.tables.Tags, "t").Where("t.id = ?", id).SQL()

	var ownerID string
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, sql, args...).Scan(&ownerID); err != nil {
		if IsPgNoRowsError(err) || IsPgInvalidInputError(err) {
			return "", &domain.NotFoundError{Message: fmt.Sprintf("tag %s not found", id)}
		}
		return "", fmt.Errorf("get tag owner: %w", err)
	}
	return ownerID, nil
}
