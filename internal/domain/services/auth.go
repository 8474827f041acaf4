package services

import (
	"context"

	"linkhive/internal/domain/models"
)

// Authorizer decides whether a user may act on an owned resource.
//
// Owners are always allowed. Other users need a collaborator row whose level
// satisfies the requirement. Missing or soft-deleted resources yield
// domain.ErrNotFound, insufficient access yields domain.ErrForbidden.
type Authorizer interface {
	// Authorize returns nil when userID holds at least the required level
	Authorize(ctx context.Context, kind models.ResourceKind, resourceID, userID string, required models.Permission) error

	// EffectivePermission returns the level userID holds on the resource
	// (PermissionOwner for the owner)
	EffectivePermission(ctx context.Context, kind models.ResourceKind, resourceID, userID string) (models.Permission, error)

	// OwnerOf returns the owner of a live resource
	OwnerOf(ctx context.Context, kind models.ResourceKind, resourceID string) (string, error)
}
