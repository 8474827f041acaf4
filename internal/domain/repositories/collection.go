package repositories

import (
	"context"
	"time"

	"linkhive/internal/domain/models"
)

// CollectionRepository defines data access operations for collections
type CollectionRepository interface {
	// Create inserts a collection and fills in its generated ID and timestamps
	Create(ctx context.Context, collection *models.Collection) error

	// GetByIDOnly retrieves a live collection without owner scoping
	GetByIDOnly(ctx context.Context, id string) (*models.Collection, error)

	// GetByShareToken retrieves a live public collection by its share token
	GetByShareToken(ctx context.Context, token string) (*models.Collection, error)

	// GetOwnerID selects only the owner column of a collection
	GetOwnerID(ctx context.Context, id string) (string, error)

	// ListByOwner returns one page of the owner's collections and the total count
	ListByOwner(ctx context.Context, ownerID string, page models.Page) ([]models.Collection, int, error)

	// Update writes name, description and sharing fields
	Update(ctx context.Context, collection *models.Collection) error

	// SoftDelete marks a collection deleted
	SoftDelete(ctx context.Context, id, ownerID string, at time.Time) error
}

// TagRepository exposes the only tag query the folder core needs
type TagRepository interface {
	// GetOwnerID selects only the owner column of a live tag
	GetOwnerID(ctx context.Context, id string) (string, error)
}
