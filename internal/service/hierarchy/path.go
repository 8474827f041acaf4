package hierarchy

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"linkhive/internal/domain"
	"linkhive/internal/domain/models"
)

// ErrCorruptHierarchy reports a parent chain that loops. It is an internal
// failure, never a client error.
var ErrCorruptHierarchy = errors.New("corrupt folder hierarchy")

// GetFolderPath returns the folder's ancestors from the root down to the
// folder itself. Requires view.
func (s *FolderService) GetFolderPath(ctx context.Context, userID, folderID string) (path []models.PathSegment, err error) {
	defer observe(s.logger, &err, "get_folder_path", folderID, userID)

	if err := validateIDs(map[string]*string{"folder_id": &folderID}); err != nil {
		return nil, err
	}
	if err := s.authorizer.Authorize(ctx, models.ResourceFolder, folderID, userID, models.PermissionView); err != nil {
		return nil, err
	}

	folder, err := s.folders.GetByIDOnly(ctx, folderID)
	if err != nil {
		return nil, err
	}
	return s.ancestors(ctx, folder, userID)
}

// ancestors walks parent links upward from folder. Collaborators only see
// the part of the chain they can view; the walk stops at the first ancestor
// that is hidden from them or no longer live.
func (s *FolderService) ancestors(ctx context.Context, folder *models.Folder, userID string) ([]models.PathSegment, error) {
	path := []models.PathSegment{{ID: folder.ID, Name: folder.Name}}
	visited := map[string]struct{}{folder.ID: {}}
	owner := folder.UserID == userID

	current := folder
	for current.ParentID != nil {
		parentID := *current.ParentID
		if _, seen := visited[parentID]; seen {
			return nil, fmt.Errorf("folder %s: parent loop at %s: %w", folder.ID, parentID, ErrCorruptHierarchy)
		}
		visited[parentID] = struct{}{}

		if !owner {
			err := s.authorizer.Authorize(ctx, models.ResourceFolder, parentID, userID, models.PermissionView)
			if errors.Is(err, domain.ErrForbidden) || errors.Is(err, domain.ErrNotFound) {
				break
			}
			if err != nil {
				return nil, err
			}
		}

		parent, err := s.folders.GetByID(ctx, parentID, folder.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				break
			}
			return nil, err
		}
		path = append(path, models.PathSegment{ID: parent.ID, Name: parent.Name})
		current = parent
	}

	slices.Reverse(path)
	return path, nil
}
