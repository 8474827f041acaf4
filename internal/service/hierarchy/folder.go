package hierarchy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"linkhive/internal/domain"
	"linkhive/internal/domain/models"
	"linkhive/internal/domain/repositories"
	"linkhive/internal/domain/services"
)

// FolderService manages each user's folder forest
type FolderService struct {
	folders       repositories.FolderRepository
	bookmarks     repositories.BookmarkRepository
	links         repositories.FolderBookmarkRepository
	collaborators repositories.CollaboratorRepository
	authorizer    services.Authorizer
	txManager     repositories.TransactionManager
	resolver      *DescendantResolver
	guard         *CycleGuard
	cache         services.Cache
	cacheTTL      time.Duration
	effects       *sideEffects
	logger        *slog.Logger
	now           func() time.Time
}

var _ services.FolderService = (*FolderService)(nil)

// NewFolderService creates a new folder service
func NewFolderService(deps Deps) *FolderService {
	deps.defaults()
	resolver := NewDescendantResolver(deps.Folders)
	return &FolderService{
		folders:       deps.Folders,
		bookmarks:     deps.Bookmarks,
		links:         deps.FolderBookmarks,
		collaborators: deps.FolderCollaborators,
		authorizer:    deps.Authorizer,
		txManager:     deps.TxManager,
		resolver:      resolver,
		guard:         NewCycleGuard(resolver),
		cache:         deps.Cache,
		cacheTTL:      deps.CacheTTL,
		effects:       deps.sideEffects(),
		logger:        deps.Logger,
		now:           deps.Now,
	}
}

// CreateFolder creates a folder at root level or under a parent the caller owns
func (s *FolderService) CreateFolder(ctx context.Context, userID string, req *services.CreateFolderRequest) (folder *models.Folder, err error) {
	defer observe(s.logger, &err, "create_folder", "", userID)

	if err := normalizeCreateFolder(req); err != nil {
		return nil, err
	}

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.folders.LockTree(ctx, userID); err != nil {
			return err
		}

		if req.ParentID != nil {
			if _, err := s.folders.GetByID(ctx, *req.ParentID, userID); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return notFound("parent folder %s not found", *req.ParentID)
				}
				return err
			}
		}

		if err := s.checkSiblingName(ctx, userID, req.ParentID, req.Name, ""); err != nil {
			return err
		}

		now := s.now()
		folder = &models.Folder{
			UserID:      userID,
			ParentID:    req.ParentID,
			Name:        req.Name,
			Description: req.Description,
			Icon:        req.Icon,
			Color:       req.Color,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		return s.folders.Create(ctx, folder)
	})
	if err != nil {
		return nil, err
	}

	var fx effects
	fx.invalidatePattern(ownerFoldersPattern(userID))
	fx.notify(models.EventFolderCreated, folder, userID)
	s.effects.apply(ctx, &fx)

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"user_id", userID,
		"parent_id", folder.ParentID,
	)
	return folder, nil
}

// UpdateFolder renames, moves or edits metadata of a folder.
// Edit permission covers renames and metadata; moving requires admin.
// The read-check-write runs under the owner's tree lock.
func (s *FolderService) UpdateFolder(ctx context.Context, userID, folderID string, req *services.UpdateFolderRequest) (folder *models.Folder, err error) {
	defer observe(s.logger, &err, "update_folder", folderID, userID)

	if err := validateIDs(map[string]*string{"folder_id": &folderID}); err != nil {
		return nil, err
	}
	if err := normalizeUpdateFolder(req); err != nil {
		return nil, err
	}

	var recipients []string
	var moved bool
	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		ownerID, err := s.authorizer.OwnerOf(ctx, models.ResourceFolder, folderID)
		if err != nil {
			return err
		}
		if err := s.folders.LockTree(ctx, ownerID); err != nil {
			return err
		}
		if err := s.authorizer.Authorize(ctx, models.ResourceFolder, folderID, userID, models.PermissionEdit); err != nil {
			return err
		}

		folder, err = s.folders.GetByID(ctx, folderID, ownerID)
		if err != nil {
			return err
		}

		moved = req.ParentID.Present && !sameParent(req.ParentID.Value, folder.ParentID)
		if moved {
			if err := s.authorizer.Authorize(ctx, models.ResourceFolder, folderID, userID, models.PermissionAdmin); err != nil {
				return err
			}
			if err := s.checkMove(ctx, folder, req.ParentID.Value); err != nil {
				return err
			}
			folder.ParentID = req.ParentID.Value
		}

		renamed := req.Name != nil && *req.Name != folder.Name
		if renamed {
			folder.Name = *req.Name
		}
		if renamed || moved {
			if err := s.checkSiblingName(ctx, ownerID, folder.ParentID, folder.Name, folder.ID); err != nil {
				return err
			}
		}

		if req.Description.Present {
			folder.Description = req.Description.Value
		}
		if req.Icon.Present {
			folder.Icon = req.Icon.Value
		}
		if req.Color.Present {
			folder.Color = req.Color.Value
		}
		folder.UpdatedAt = s.now()

		if err := s.folders.Update(ctx, folder); err != nil {
			return err
		}

		collaborators, err := s.collaborators.ListUserIDs(ctx, []string{folderID})
		if err != nil {
			return err
		}
		recipients = append([]string{ownerID}, collaborators...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var fx effects
	fx.invalidate(folderKey(folder.ID))
	fx.invalidatePattern(ownerFoldersPattern(folder.UserID))
	fx.notify(models.EventFolderUpdated, folder, recipients...)
	s.effects.apply(ctx, &fx)

	s.logger.Info("folder updated",
		"id", folder.ID,
		"name", folder.Name,
		"parent_id", folder.ParentID,
		"moved", moved,
		"user_id", userID,
	)
	return folder, nil
}

// checkMove validates a new parent for folder: no cycles, and the parent
// must be a live folder of the same owner.
func (s *FolderService) checkMove(ctx context.Context, folder *models.Folder, newParentID *string) error {
	cycle, err := s.guard.WouldCreateCycle(ctx, folder.ID, newParentID, folder.UserID)
	if err != nil {
		return err
	}
	if cycle {
		return &domain.ConflictError{
			Message:      "would create a circular reference",
			ResourceType: "folder",
			ResourceID:   *newParentID,
		}
	}

	if newParentID != nil {
		if _, err := s.folders.GetByID(ctx, *newParentID, folder.UserID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return notFound("parent folder %s not found", *newParentID)
			}
			return err
		}
	}
	return nil
}

// checkSiblingName fails with a ConflictError carrying the existing folder's
// ID when another live folder already uses name at that level.
func (s *FolderService) checkSiblingName(ctx context.Context, ownerID string, parentID *string, name, selfID string) error {
	existing, err := s.folders.FindSiblingByName(ctx, ownerID, parentID, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("a folder named %q already exists in this location", name),
			ResourceType: "folder",
			ResourceID:   existing.ID,
		}
	}
	return nil
}

// DeleteFolder soft-deletes a folder with its whole subtree. Only the owner
// may delete. When moveBookmarksTo is set, every bookmark link of the subtree
// is copied to that folder first; the target is validated before anything
// is written, so a bad target leaves the tree untouched.
func (s *FolderService) DeleteFolder(ctx context.Context, userID, folderID string, moveBookmarksTo *string) (err error) {
	defer observe(s.logger, &err, "delete_folder", folderID, userID)

	moveBookmarksTo = trimOptional(moveBookmarksTo)
	if err := validateIDs(map[string]*string{"folder_id": &folderID, "move_bookmarks_to": moveBookmarksTo}); err != nil {
		return err
	}

	var (
		ownerID    string
		deleted    []string
		bookmarks  []string
		recipients []string
		migrated   int64
	)
	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.authorizer.Authorize(ctx, models.ResourceFolder, folderID, userID, models.PermissionOwner); err != nil {
			return err
		}
		ownerID = userID
		if err := s.folders.LockTree(ctx, ownerID); err != nil {
			return err
		}

		// Re-read under the lock; a concurrent delete may have won
		if _, err := s.folders.GetByID(ctx, folderID, ownerID); err != nil {
			return err
		}

		descendants, err := s.resolver.Descendants(ctx, folderID, ownerID)
		if err != nil {
			return err
		}
		deleted = make([]string, 0, len(descendants)+1)
		deleted = append(deleted, folderID)
		for id := range descendants {
			deleted = append(deleted, id)
		}
		slices.Sort(deleted[1:])

		if moveBookmarksTo != nil {
			if *moveBookmarksTo == folderID {
				return invalid("cannot move bookmarks into the folder being deleted")
			}
			if _, inside := descendants[*moveBookmarksTo]; inside {
				return invalid("cannot move bookmarks into a subfolder of the folder being deleted")
			}
			if _, err := s.folders.GetByID(ctx, *moveBookmarksTo, ownerID); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return notFound("target folder %s not found", *moveBookmarksTo)
				}
				return err
			}
		}

		if bookmarks, err = s.links.ListBookmarkIDs(ctx, deleted); err != nil {
			return err
		}
		collaborators, err := s.collaborators.ListUserIDs(ctx, deleted)
		if err != nil {
			return err
		}
		recipients = append([]string{ownerID}, collaborators...)

		now := s.now()
		if moveBookmarksTo != nil {
			if migrated, err = s.links.CopyToFolder(ctx, deleted, *moveBookmarksTo, now); err != nil {
				return err
			}
		}
		if _, err := s.links.DeleteByFolders(ctx, deleted); err != nil {
			return err
		}
		if _, err := s.collaborators.DeleteByResources(ctx, deleted); err != nil {
			return err
		}
		_, err = s.folders.SoftDeleteMany(ctx, ownerID, deleted, now)
		return err
	})
	if err != nil {
		return err
	}

	var fx effects
	for _, id := range deleted {
		fx.invalidate(folderKey(id))
	}
	for _, id := range bookmarks {
		fx.invalidate(bookmarkKey(id))
	}
	if moveBookmarksTo != nil {
		fx.invalidate(folderKey(*moveBookmarksTo))
	}
	fx.invalidatePattern(ownerFoldersPattern(ownerID))
	fx.notify(models.EventFolderDeleted, map[string]any{
		"folder_id":         folderID,
		"deleted_ids":       deleted,
		"move_bookmarks_to": moveBookmarksTo,
	}, recipients...)
	s.effects.apply(ctx, &fx)

	s.logger.Info("folder deleted",
		"id", folderID,
		"user_id", userID,
		"deleted_count", len(deleted),
		"bookmark_links", len(bookmarks),
		"migrated_links", migrated,
		"move_bookmarks_to", moveBookmarksTo,
	)
	return nil
}

// GetFolder returns a folder with its path, immediate subfolders and one
// page of bookmarks. Requires view.
func (s *FolderService) GetFolder(ctx context.Context, userID, folderID string, page models.Page) (detail *models.FolderDetail, err error) {
	defer observe(s.logger, &err, "get_folder", folderID, userID)

	if err := validateIDs(map[string]*string{"folder_id": &folderID}); err != nil {
		return nil, err
	}

	permission, err := s.authorizer.EffectivePermission(ctx, models.ResourceFolder, folderID, userID)
	if err != nil {
		return nil, err
	}
	if !permission.Satisfies(models.PermissionView) {
		return nil, &domain.ForbiddenError{Message: fmt.Sprintf("view permission required on folder %s", folderID)}
	}

	folder, err := cached(ctx, s.cache, s.cacheTTL, s.logger, folderKey(folderID), func() (*models.Folder, error) {
		return s.folders.GetByIDOnly(ctx, folderID)
	})
	if err != nil {
		return nil, err
	}

	path, err := s.ancestors(ctx, folder, userID)
	if err != nil {
		return nil, err
	}

	subfolders, err := s.folders.ListChildren(ctx, &folder.ID, folder.UserID)
	if err != nil {
		return nil, err
	}

	page = page.Normalize()
	items, total, err := s.bookmarks.ListByFolder(ctx, folder.ID, page)
	if err != nil {
		return nil, err
	}

	return &models.FolderDetail{
		Folder:     folder,
		Path:       path,
		Subfolders: subfolders,
		Bookmarks:  models.NewPagedResult(items, total, page),
		Permission: permission,
	}, nil
}

// ListFolders returns a flat, paginated list of the caller's own folders
func (s *FolderService) ListFolders(ctx context.Context, userID string, req *services.ListFoldersRequest) (result *models.PagedResult[models.Folder], err error) {
	defer observe(s.logger, &err, "list_folders", "", userID)

	if req.ByParent {
		req.ParentID = trimOptional(req.ParentID)
		if err := validateIDs(map[string]*string{"parent_id": req.ParentID}); err != nil {
			return nil, err
		}
	}
	page := req.Page.Normalize()

	key := fmt.Sprintf("folders:%s:list:%s:%d:%d", userID, listScope(req), page.Limit, page.Offset)
	return cached(ctx, s.cache, aggregateTTL(s.cacheTTL), s.logger, key, func() (*models.PagedResult[models.Folder], error) {
		items, total, err := s.folders.List(ctx, userID, repositories.FolderListFilter{
			ByParent: req.ByParent,
			ParentID: req.ParentID,
			Page:     page,
		})
		if err != nil {
			return nil, err
		}
		return models.NewPagedResult(items, total, page), nil
	})
}

func listScope(req *services.ListFoldersRequest) string {
	switch {
	case !req.ByParent:
		return "all"
	case req.ParentID == nil:
		return "root"
	default:
		return *req.ParentID
	}
}

// ListSharedFolders returns folders other users shared with the caller
func (s *FolderService) ListSharedFolders(ctx context.Context, userID string) (folders []models.Folder, err error) {
	defer observe(s.logger, &err, "list_shared_folders", "", userID)
	return s.folders.ListSharedWith(ctx, userID)
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
