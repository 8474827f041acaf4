package auth

import (
	"context"
	"errors"
	"fmt"

	"linkhive/internal/domain"
	"linkhive/internal/domain/models"
	"linkhive/internal/domain/repositories"
	"linkhive/internal/domain/services"
)

// ownerLookup selects only the owner of a live resource
type ownerLookup func(ctx context.Context, resourceID string) (string, error)

// PermissionEvaluator implements services.Authorizer.
//
// A user can act on a resource they own. Otherwise folders and collections
// consult their collaborator table; tags are never shared.
type PermissionEvaluator struct {
	owners        map[models.ResourceKind]ownerLookup
	collaborators map[models.ResourceKind]repositories.CollaboratorRepository
}

var _ services.Authorizer = (*PermissionEvaluator)(nil)

// NewPermissionEvaluator wires one owner lookup per resource kind
func NewPermissionEvaluator(
	folderRepo repositories.FolderRepository,
	tagRepo repositories.TagRepository,
	collectionRepo repositories.CollectionRepository,
	folderCollaborators repositories.CollaboratorRepository,
	collectionCollaborators repositories.CollaboratorRepository,
) *PermissionEvaluator {
	return &PermissionEvaluator{
		owners: map[models.ResourceKind]ownerLookup{
			models.ResourceFolder:     folderRepo.GetOwnerID,
			models.ResourceTag:        tagRepo.GetOwnerID,
			models.ResourceCollection: collectionRepo.GetOwnerID,
		},
		collaborators: map[models.ResourceKind]repositories.CollaboratorRepository{
			models.ResourceFolder:     folderCollaborators,
			models.ResourceCollection: collectionCollaborators,
		},
	}
}

// OwnerOf returns the owner of a live resource, or ErrNotFound
func (e *PermissionEvaluator) OwnerOf(ctx context.Context, kind models.ResourceKind, resourceID string) (string, error) {
	lookup, ok := e.owners[kind]
	if !ok {
		return "", fmt.Errorf("unsupported resource kind %s: %w", kind, domain.ErrValidation)
	}
	ownerID, err := lookup(ctx, resourceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", &domain.NotFoundError{Message: fmt.Sprintf("%s %s not found", kind, resourceID)}
		}
		return "", fmt.Errorf("get %s owner: %w", kind, err)
	}
	return ownerID, nil
}

// EffectivePermission resolves the level userID holds on a resource.
// Owners hold PermissionOwner; users with no collaborator row get ErrForbidden.
func (e *PermissionEvaluator) EffectivePermission(ctx context.Context, kind models.ResourceKind, resourceID, userID string) (models.Permission, error) {
	ownerID, err := e.OwnerOf(ctx, kind, resourceID)
	if err != nil {
		return "", err
	}
	if ownerID == userID {
		return models.PermissionOwner, nil
	}

	repo, ok := e.collaborators[kind]
	if !ok || repo == nil {
		return "", &domain.ForbiddenError{Message: fmt.Sprintf("access denied to %s %s", kind, resourceID)}
	}

	permission, err := repo.GetPermission(ctx, resourceID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", &domain.ForbiddenError{Message: fmt.Sprintf("access denied to %s %s", kind, resourceID)}
		}
		return "", fmt.Errorf("get %s permission: %w", kind, err)
	}
	return permission, nil
}

// Authorize returns nil when userID holds at least the required level
func (e *PermissionEvaluator) Authorize(ctx context.Context, kind models.ResourceKind, resourceID, userID string, required models.Permission) error {
	permission, err := e.EffectivePermission(ctx, kind, resourceID, userID)
	if err != nil {
		return err
	}
	if !permission.Satisfies(required) {
		return &domain.ForbiddenError{
			Message: fmt.Sprintf("%s permission required on %s %s", required, kind, resourceID),
		}
	}
	return nil
}
