package repositories

import (
	"context"
	"time"

	"linkhive/internal/domain/models"
)

// CollaboratorRepository manages collaborator rows for one kind of shareable
// resource. Folders and collections each get their own instance.
type CollaboratorRepository interface {
	// GetPermission returns the stored permission of userID on resourceID.
	// Returns ErrNotFound when no row exists.
	GetPermission(ctx context.Context, resourceID, userID string) (models.Permission, error)

	// Create inserts a collaborator row. Returns ErrConflict on duplicates.
	Create(ctx context.Context, collaborator *models.Collaborator) error

	// UpdatePermission changes the level of an existing row
	UpdatePermission(ctx context.Context, resourceID, userID string, permission models.Permission, at time.Time) (*models.Collaborator, error)

	// Delete removes a collaborator row. Returns ErrNotFound if absent.
	Delete(ctx context.Context, resourceID, userID string) error

	// List returns every collaborator of a resource ordered by creation time
	List(ctx context.Context, resourceID string) ([]models.Collaborator, error)

	// ListUserIDs returns the collaborator user IDs across several resources
	ListUserIDs(ctx context.Context, resourceIDs []string) ([]string, error)

	// DeleteByResources removes every collaborator row of the given resources
	DeleteByResources(ctx context.Context, resourceIDs []string) (int64, error)
}
