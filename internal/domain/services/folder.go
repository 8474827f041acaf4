package services

import (
	"context"

	"linkhive/internal/domain/models"
	"linkhive/internal/httputil"
)

// FolderService handles the folder hierarchy of each user
type FolderService interface {
	// CreateFolder creates a folder at root level or under a parent the caller owns
	CreateFolder(ctx context.Context, userID string, req *CreateFolderRequest) (*models.Folder, error)

	// GetFolder returns a folder with its path, subfolders and a page of bookmarks
	GetFolder(ctx context.Context, userID, folderID string, bookmarks models.Page) (*models.FolderDetail, error)

	// UpdateFolder renames, moves or edits metadata of a folder
	UpdateFolder(ctx context.Context, userID, folderID string, req *UpdateFolderRequest) (*models.Folder, error)

	// DeleteFolder soft-deletes a folder and all of its descendants.
	// When moveBookmarksTo is set, bookmark links are copied there first.
	DeleteFolder(ctx context.Context, userID, folderID string, moveBookmarksTo *string) error

	// GetFolderPath returns ancestors from the root down to the folder itself
	GetFolderPath(ctx context.Context, userID, folderID string) ([]models.PathSegment, error)

	// GetFolderTree returns the caller's whole folder forest
	GetFolderTree(ctx context.Context, userID string) ([]*models.FolderTreeNode, error)

	// ListFolders returns a flat page of the caller's folders
	ListFolders(ctx context.Context, userID string, req *ListFoldersRequest) (*models.PagedResult[models.Folder], error)

	// ListSharedFolders returns folders other users shared with the caller
	ListSharedFolders(ctx context.Context, userID string) ([]models.Folder, error)

	// AddBookmark links a bookmark into a folder
	AddBookmark(ctx context.Context, userID, folderID, bookmarkID string) error

	// RemoveBookmark unlinks a bookmark from a folder
	RemoveBookmark(ctx context.Context, userID, folderID, bookmarkID string) error
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	Name        string  `json:"name"`
	ParentID    *string `json:"parent_id,omitempty"` // null for root folders
	Description *string `json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	Color       *string `json:"color,omitempty"`
}

// UpdateFolderRequest is a partial update.
// ParentID present with null moves the folder to root level.
type UpdateFolderRequest struct {
	Name        *string                 `json:"name,omitempty"`
	ParentID    httputil.OptionalString `json:"parent_id"`
	Description httputil.OptionalString `json:"description"`
	Icon        httputil.OptionalString `json:"icon"`
	Color       httputil.OptionalString `json:"color"`
}

// ListFoldersRequest filters a flat folder listing
type ListFoldersRequest struct {
	// ByParent limits results to direct children of ParentID (nil = root level)
	ByParent bool
	ParentID *string
	Page     models.Page
}
