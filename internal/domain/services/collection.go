package services

import (
	"context"

	"linkhive/internal/domain/models"
	"linkhive/internal/httputil"
)

// CollectionService handles flat, shareable bookmark collections
type CollectionService interface {
	CreateCollection(ctx context.Context, userID string, req *CreateCollectionRequest) (*models.Collection, error)

	// GetCollection returns a public collection to anyone, otherwise requires view
	GetCollection(ctx context.Context, userID, collectionID string) (*models.Collection, error)
	ListCollections(ctx context.Context, userID string, page models.Page) (*models.PagedResult[models.Collection], error)

	// UpdateCollection requires edit; changing visibility requires admin
	UpdateCollection(ctx context.Context, userID, collectionID string, req *UpdateCollectionRequest) (*models.Collection, error)
	DeleteCollection(ctx context.Context, userID, collectionID string) error

	// GetCollectionByShareToken resolves a public link without authentication
	GetCollectionByShareToken(ctx context.Context, token string) (*models.Collection, error)
}

// CreateCollectionRequest represents a collection creation request
type CreateCollectionRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	IsPublic    bool    `json:"is_public"`
}

// UpdateCollectionRequest is a partial update
type UpdateCollectionRequest struct {
	Name        *string                 `json:"name,omitempty"`
	Description httputil.OptionalString `json:"description"`
	IsPublic    *bool                   `json:"is_public,omitempty"`
}
