package repositories

import (
	"context"
	"time"

	"linkhive/internal/domain/models"
)

// BookmarkRepository defines the bookmark operations the folder core needs
type BookmarkRepository interface {
	// Create inserts a bookmark and fills in its generated ID and timestamps
	Create(ctx context.Context, bookmark *models.Bookmark) error

	// GetByID retrieves a live bookmark scoped to its owner
	GetByID(ctx context.Context, id, userID string) (*models.Bookmark, error)

	// ListByFolder returns one page of live bookmarks linked into a folder, newest link first
	ListByFolder(ctx context.Context, folderID string, page models.Page) ([]models.Bookmark, int, error)
}

// FolderBookmarkRepository manages bookmark-to-folder association rows
type FolderBookmarkRepository interface {
	// Add links a bookmark into a folder. Returns ErrConflict if the link exists.
	Add(ctx context.Context, folderID, bookmarkID string, at time.Time) error

	// Remove unlinks a bookmark from a folder. Returns ErrNotFound if absent.
	Remove(ctx context.Context, folderID, bookmarkID string) error

	// ListBookmarkIDs returns the distinct bookmark IDs linked into any of the folders
	ListBookmarkIDs(ctx context.Context, folderIDs []string) ([]string, error)

	// CopyToFolder links every bookmark of the source folders into target,
	// skipping links that already exist. Returns the number of rows inserted.
	CopyToFolder(ctx context.Context, sourceFolderIDs []string, targetFolderID string, at time.Time) (int64, error)

	// DeleteByFolders removes every link whose folder is in folderIDs
	DeleteByFolders(ctx context.Context, folderIDs []string) (int64, error)

	// CountByFolder counts live bookmarks per folder for one owner
	CountByFolder(ctx context.Context, userID string) (map[string]int, error)
}
