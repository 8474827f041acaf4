package services

import (
	"context"

	"linkhive/internal/domain/models"
)

// CollaboratorService manages who else can access a folder or collection
type CollaboratorService interface {
	AddCollaborator(ctx context.Context, userID string, kind models.ResourceKind, resourceID string, req *CollaboratorRequest) (*models.Collaborator, error)
	UpdateCollaborator(ctx context.Context, userID string, kind models.ResourceKind, resourceID, targetUserID string, permission models.Permission) (*models.Collaborator, error)

	// RemoveCollaborator requires admin unless a collaborator removes themselves
	RemoveCollaborator(ctx context.Context, userID string, kind models.ResourceKind, resourceID, targetUserID string) error
	ListCollaborators(ctx context.Context, userID string, kind models.ResourceKind, resourceID string) ([]models.Collaborator, error)
}

// CollaboratorRequest grants a user access to a resource
type CollaboratorRequest struct {
	UserID     string            `json:"user_id"`
	Permission models.Permission `json:"permission"`
}
