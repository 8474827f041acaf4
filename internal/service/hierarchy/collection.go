package hierarchy

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"linkhive/internal/domain"
	"linkhive/internal/domain/models"
	"linkhive/internal/domain/repositories"
	"linkhive/internal/domain/services"
)

// CollectionService manages flat, shareable collections. Collections use
// the same permission evaluator as folders and may additionally be public,
// in which case anyone holding the share token can read them.
type CollectionService struct {
	collections   repositories.CollectionRepository
	collaborators repositories.CollaboratorRepository
	authorizer    services.Authorizer
	txManager     repositories.TransactionManager
	cache         services.Cache
	cacheTTL      time.Duration
	effects       *sideEffects
	logger        *slog.Logger
	now           func() time.Time
	newToken      func() string
}

var _ services.CollectionService = (*CollectionService)(nil)

func NewCollectionService(deps Deps) *CollectionService {
	deps.defaults()
	return &CollectionService{
		collections:   deps.Collections,
		collaborators: deps.CollectionCollaborators,
		authorizer:    deps.Authorizer,
		txManager:     deps.TxManager,
		cache:         deps.Cache,
		cacheTTL:      deps.CacheTTL,
		effects:       deps.sideEffects(),
		logger:        deps.Logger,
		now:           deps.Now,
		newToken:      newShareToken,
	}
}

// newShareToken returns 32 hex chars of randomness
func newShareToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (s *CollectionService) CreateCollection(ctx context.Context, userID string, req *services.CreateCollectionRequest) (collection *models.Collection, err error) {
	defer observe(s.logger, &err, "create_collection", "", userID)

	if err := normalizeCreateCollection(req); err != nil {
		return nil, err
	}

	now := s.now()
	collection = &models.Collection{
		OwnerID:     userID,
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.IsPublic {
		token := s.newToken()
		collection.ShareToken = &token
	}
	if err := s.collections.Create(ctx, collection); err != nil {
		return nil, err
	}

	var fx effects
	fx.invalidatePattern(ownerCollectionsPattern(userID))
	fx.notify(models.EventCollectionCreated, collection, userID)
	s.effects.apply(ctx, &fx)

	s.logger.Info("collection created", "id", collection.ID, "name", collection.Name, "public", collection.IsPublic, "user_id", userID)
	return collection, nil
}

// GetCollection returns public collections to anyone; private ones need view
func (s *CollectionService) GetCollection(ctx context.Context, userID, collectionID string) (collection *models.Collection, err error) {
	defer observe(s.logger, &err, "get_collection", collectionID, userID)

	if err := validateIDs(map[string]*string{"collection_id": &collectionID}); err != nil {
		return nil, err
	}

	collection, err = cached(ctx, s.cache, s.cacheTTL, s.logger, collectionKey(collectionID), func() (*models.Collection, error) {
		return s.collections.GetByIDOnly(ctx, collectionID)
	})
	if err != nil {
		return nil, err
	}
	if collection.IsPublic {
		return collection, nil
	}
	if err := s.authorizer.Authorize(ctx, models.ResourceCollection, collectionID, userID, models.PermissionView); err != nil {
		return nil, err
	}
	return collection, nil
}

// ListCollections returns one page of the caller's own collections
func (s *CollectionService) ListCollections(ctx context.Context, userID string, page models.Page) (result *models.PagedResult[models.Collection], err error) {
	defer observe(s.logger, &err, "list_collections", "", userID)

	page = page.Normalize()
	key := fmt.Sprintf("collections:%s:list:%d:%d", userID, page.Limit, page.Offset)
	return cached(ctx, s.cache, aggregateTTL(s.cacheTTL), s.logger, key, func() (*models.PagedResult[models.Collection], error) {
		items, total, err := s.collections.ListByOwner(ctx, userID, page)
		if err != nil {
			return nil, err
		}
		return models.NewPagedResult(items, total, page), nil
	})
}

// UpdateCollection requires edit. Publishing or unpublishing requires admin:
// publishing mints a fresh share token, unpublishing revokes it.
func (s *CollectionService) UpdateCollection(ctx context.Context, userID, collectionID string, req *services.UpdateCollectionRequest) (collection *models.Collection, err error) {
	defer observe(s.logger, &err, "update_collection", collectionID, userID)

	if err := validateIDs(map[string]*string{"collection_id": &collectionID}); err != nil {
		return nil, err
	}
	if err := normalizeUpdateCollection(req); err != nil {
		return nil, err
	}

	var recipients []string
	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.authorizer.Authorize(ctx, models.ResourceCollection, collectionID, userID, models.PermissionEdit); err != nil {
			return err
		}
		var err error
		if collection, err = s.collections.GetByIDOnly(ctx, collectionID); err != nil {
			return err
		}

		if req.IsPublic != nil && *req.IsPublic != collection.IsPublic {
			if err := s.authorizer.Authorize(ctx, models.ResourceCollection, collectionID, userID, models.PermissionAdmin); err != nil {
				return err
			}
			collection.IsPublic = *req.IsPublic
			collection.ShareToken = nil
			if collection.IsPublic {
				token := s.newToken()
				collection.ShareToken = &token
			}
		}
		if req.Name != nil {
			collection.Name = *req.Name
		}
		if req.Description.Present {
			collection.Description = req.Description.Value
		}
		collection.UpdatedAt = s.now()

		if err := s.collections.Update(ctx, collection); err != nil {
			return err
		}

		collaborators, err := s.collaborators.ListUserIDs(ctx, []string{collectionID})
		if err != nil {
			return err
		}
		recipients = append([]string{collection.OwnerID}, collaborators...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var fx effects
	fx.invalidate(collectionKey(collectionID))
	fx.invalidatePattern(ownerCollectionsPattern(collection.OwnerID))
	fx.notify(models.EventCollectionUpdated, collection, recipients...)
	s.effects.apply(ctx, &fx)

	s.logger.Info("collection updated", "id", collectionID, "public", collection.IsPublic, "user_id", userID)
	return collection, nil
}

// DeleteCollection soft-deletes a collection and drops its collaborators.
// Owner only.
func (s *CollectionService) DeleteCollection(ctx context.Context, userID, collectionID string) (err error) {
	defer observe(s.logger, &err, "delete_collection", collectionID, userID)

	if err := validateIDs(map[string]*string{"collection_id": &collectionID}); err != nil {
		return err
	}

	var recipients []string
	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.authorizer.Authorize(ctx, models.ResourceCollection, collectionID, userID, models.PermissionOwner); err != nil {
			return err
		}
		collaborators, err := s.collaborators.ListUserIDs(ctx, []string{collectionID})
		if err != nil {
			return err
		}
		recipients = append([]string{userID}, collaborators...)

		if _, err := s.collaborators.DeleteByResources(ctx, []string{collectionID}); err != nil {
			return err
		}
		return s.collections.SoftDelete(ctx, collectionID, userID, s.now())
	})
	if err != nil {
		return err
	}

	var fx effects
	fx.invalidate(collectionKey(collectionID))
	fx.invalidatePattern(ownerCollectionsPattern(userID))
	fx.notify(models.EventCollectionDeleted, map[string]string{"collection_id": collectionID}, recipients...)
	s.effects.apply(ctx, &fx)

	s.logger.Info("collection deleted", "id", collectionID, "user_id", userID)
	return nil
}

// GetCollectionByShareToken resolves a public link. Unknown, revoked and
// private tokens are indistinguishable.
func (s *CollectionService) GetCollectionByShareToken(ctx context.Context, token string) (collection *models.Collection, err error) {
	defer observe(s.logger, &err, "get_shared_collection", "", "")

	token = strings.TrimSpace(token)
	if token == "" {
		return nil, &domain.NotFoundError{Message: "shared collection not found"}
	}
	return s.collections.GetByShareToken(ctx, token)
}
