package hierarchy

import (
	"context"
	"log/slog"
	"time"

	"linkhive/internal/domain/models"
	"linkhive/internal/domain/repositories"
	"linkhive/internal/domain/services"
)

// CollaboratorService manages sharing of folders and collections.
// Both kinds share the same rules; only the backing table differs.
type CollaboratorService struct {
	deps       Deps
	authorizer services.Authorizer
	txManager  repositories.TransactionManager
	effects    *sideEffects
	logger     *slog.Logger
	now        func() time.Time
}

var _ services.CollaboratorService = (*CollaboratorService)(nil)

func NewCollaboratorService(deps Deps) *CollaboratorService {
	deps.defaults()
	return &CollaboratorService{
		deps:       deps,
		authorizer: deps.Authorizer,
		txManager:  deps.TxManager,
		effects:    deps.sideEffects(),
		logger:     deps.Logger,
		now:        deps.Now,
	}
}

func (s *CollaboratorService) repo(kind models.ResourceKind) (repositories.CollaboratorRepository, error) {
	if !kind.Shareable() {
		return nil, invalid("%s cannot be shared", kind)
	}
	return s.deps.collaboratorRepo(kind), nil
}

func resourceKey(kind models.ResourceKind, id string) string {
	if kind == models.ResourceCollection {
		return collectionKey(id)
	}
	return folderKey(id)
}

type collaboratorPayload struct {
	ResourceType string            `json:"resource_type"`
	ResourceID   string            `json:"resource_id"`
	UserID       string            `json:"user_id"`
	Permission   models.Permission `json:"permission,omitempty"`
	ChangedBy    string            `json:"changed_by"`
}

// AddCollaborator grants targetUser access. Requires admin; the owner can
// never be added as a collaborator of their own resource.
func (s *CollaboratorService) AddCollaborator(ctx context.Context, userID string, kind models.ResourceKind, resourceID string, req *services.CollaboratorRequest) (collaborator *models.Collaborator, err error) {
	defer observe(s.logger, &err, "add_collaborator", resourceID, userID)

	repo, err := s.repo(kind)
	if err != nil {
		return nil, err
	}
	if err := validateIDs(map[string]*string{"resource_id": &resourceID}); err != nil {
		return nil, err
	}
	if err := validateCollaboratorRequest(req); err != nil {
		return nil, err
	}

	var ownerID string
	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.authorizer.Authorize(ctx, kind, resourceID, userID, models.PermissionAdmin); err != nil {
			return err
		}
		var err error
		if ownerID, err = s.authorizer.OwnerOf(ctx, kind, resourceID); err != nil {
			return err
		}
		if req.UserID == ownerID {
			return invalid("the owner cannot be added as a collaborator")
		}

		now := s.now()
		collaborator = &models.Collaborator{
			ResourceID: resourceID,
			UserID:     req.UserID,
			Permission: req.Permission,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		return repo.Create(ctx, collaborator)
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, kind, models.EventCollaboratorAdded, collaboratorPayload{
		ResourceType: kind.String(),
		ResourceID:   resourceID,
		UserID:       req.UserID,
		Permission:   req.Permission,
		ChangedBy:    userID,
	}, ownerID, req.UserID)

	s.logger.Info("collaborator added",
		"resource_type", kind.String(),
		"resource_id", resourceID,
		"collaborator_id", req.UserID,
		"permission", req.Permission,
		"user_id", userID,
	)
	return collaborator, nil
}

// UpdateCollaborator changes an existing grant. Requires admin.
func (s *CollaboratorService) UpdateCollaborator(ctx context.Context, userID string, kind models.ResourceKind, resourceID, targetUserID string, permission models.Permission) (collaborator *models.Collaborator, err error) {
	defer observe(s.logger, &err, "update_collaborator", resourceID, userID)

	repo, err := s.repo(kind)
	if err != nil {
		return nil, err
	}
	if err := validateIDs(map[string]*string{"resource_id": &resourceID}); err != nil {
		return nil, err
	}
	if err := validatePermission(permission); err != nil {
		return nil, invalid("permission: %v", err)
	}

	var ownerID string
	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.authorizer.Authorize(ctx, kind, resourceID, userID, models.PermissionAdmin); err != nil {
			return err
		}
		var err error
		if ownerID, err = s.authorizer.OwnerOf(ctx, kind, resourceID); err != nil {
			return err
		}
		collaborator, err = repo.UpdatePermission(ctx, resourceID, targetUserID, permission, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, kind, models.EventCollaboratorUpdated, collaboratorPayload{
		ResourceType: kind.String(),
		ResourceID:   resourceID,
		UserID:       targetUserID,
		Permission:   permission,
		ChangedBy:    userID,
	}, ownerID, targetUserID)

	s.logger.Info("collaborator updated",
		"resource_type", kind.String(),
		"resource_id", resourceID,
		"collaborator_id", targetUserID,
		"permission", permission,
		"user_id", userID,
	)
	return collaborator, nil
}

// RemoveCollaborator revokes a grant. Admins may remove anyone; any
// collaborator may remove themselves.
func (s *CollaboratorService) RemoveCollaborator(ctx context.Context, userID string, kind models.ResourceKind, resourceID, targetUserID string) (err error) {
	defer observe(s.logger, &err, "remove_collaborator", resourceID, userID)

	repo, err := s.repo(kind)
	if err != nil {
		return err
	}
	if err := validateIDs(map[string]*string{"resource_id": &resourceID}); err != nil {
		return err
	}

	required := models.PermissionAdmin
	if targetUserID == userID {
		required = models.PermissionView
	}

	var ownerID string
	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.authorizer.Authorize(ctx, kind, resourceID, userID, required); err != nil {
			return err
		}
		var err error
		if ownerID, err = s.authorizer.OwnerOf(ctx, kind, resourceID); err != nil {
			return err
		}
		return repo.Delete(ctx, resourceID, targetUserID)
	})
	if err != nil {
		return err
	}

	s.emit(ctx, kind, models.EventCollaboratorRemoved, collaboratorPayload{
		ResourceType: kind.String(),
		ResourceID:   resourceID,
		UserID:       targetUserID,
		ChangedBy:    userID,
	}, ownerID, targetUserID)

	s.logger.Info("collaborator removed",
		"resource_type", kind.String(),
		"resource_id", resourceID,
		"collaborator_id", targetUserID,
		"user_id", userID,
	)
	return nil
}

// ListCollaborators requires view on the resource
func (s *CollaboratorService) ListCollaborators(ctx context.Context, userID string, kind models.ResourceKind, resourceID string) (collaborators []models.Collaborator, err error) {
	defer observe(s.logger, &err, "list_collaborators", resourceID, userID)

	repo, err := s.repo(kind)
	if err != nil {
		return nil, err
	}
	if err := validateIDs(map[string]*string{"resource_id": &resourceID}); err != nil {
		return nil, err
	}
	if err := s.authorizer.Authorize(ctx, kind, resourceID, userID, models.PermissionView); err != nil {
		return nil, err
	}
	return repo.List(ctx, resourceID)
}

func (s *CollaboratorService) emit(ctx context.Context, kind models.ResourceKind, event string, payload collaboratorPayload, recipients ...string) {
	var fx effects
	fx.invalidate(resourceKey(kind, payload.ResourceID))
	fx.notify(event, payload, recipients...)
	s.effects.apply(ctx, &fx)
}
