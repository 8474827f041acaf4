package hierarchy

import (
	"context"
	"errors"

	"linkhive/internal/domain"
	"linkhive/internal/domain/models"
)

// AddBookmark links one of the folder owner's bookmarks into the folder.
// Requires edit on the folder.
func (s *FolderService) AddBookmark(ctx context.Context, userID, folderID, bookmarkID string) (err error) {
	defer observe(s.logger, &err, "add_folder_bookmark", folderID, userID)
	return s.changeBookmark(ctx, userID, folderID, bookmarkID, true)
}

// RemoveBookmark unlinks a bookmark from the folder. Requires edit.
func (s *FolderService) RemoveBookmark(ctx context.Context, userID, folderID, bookmarkID string) (err error) {
	defer observe(s.logger, &err, "remove_folder_bookmark", folderID, userID)
	return s.changeBookmark(ctx, userID, folderID, bookmarkID, false)
}

func (s *FolderService) changeBookmark(ctx context.Context, userID, folderID, bookmarkID string, add bool) error {
	if err := validateIDs(map[string]*string{"folder_id": &folderID, "bookmark_id": &bookmarkID}); err != nil {
		return err
	}

	var ownerID string
	var recipients []string
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.authorizer.Authorize(ctx, models.ResourceFolder, folderID, userID, models.PermissionEdit); err != nil {
			return err
		}
		var err error
		if ownerID, err = s.authorizer.OwnerOf(ctx, models.ResourceFolder, folderID); err != nil {
			return err
		}

		if add {
			if _, err := s.bookmarks.GetByID(ctx, bookmarkID, ownerID); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return notFound("bookmark %s not found", bookmarkID)
				}
				return err
			}
			if err := s.links.Add(ctx, folderID, bookmarkID, s.now()); err != nil {
				return err
			}
		} else if err := s.links.Remove(ctx, folderID, bookmarkID); err != nil {
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
		return err
	}

	event := models.EventFolderBookmarkRemoved
	if add {
		event = models.EventFolderBookmarkAdded
	}

	var fx effects
	fx.invalidate(folderKey(folderID), bookmarkKey(bookmarkID))
	fx.invalidatePattern(ownerFoldersPattern(ownerID))
	fx.notify(event, map[string]string{"folder_id": folderID, "bookmark_id": bookmarkID}, recipients...)
	s.effects.apply(ctx, &fx)

	s.logger.Info("folder bookmarks changed",
		"event", event,
		"folder_id", folderID,
		"bookmark_id", bookmarkID,
		"user_id", userID,
	)
	return nil
}
