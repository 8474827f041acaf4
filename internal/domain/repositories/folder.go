package repositories

import (
	"context"
	"time"

	"linkhive/internal/domain/models"
)

// FolderListFilter narrows a flat folder listing
type FolderListFilter struct {
	// ByParent restricts the listing to direct children of ParentID
	// (ParentID nil = root level). When false every live folder is listed.
	ByParent bool
	ParentID *string
	Page     models.Page
}

// FolderRepository defines data access operations for folders.
// Every read excludes soft-deleted rows.
type FolderRepository interface {
	// Create inserts a new folder and fills in its generated ID and timestamps
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder by ID scoped to its owner
	GetByID(ctx context.Context, id, userID string) (*models.Folder, error)

	// GetByIDOnly retrieves a folder by ID without owner scoping.
	// Use when authorization is handled separately.
	GetByIDOnly(ctx context.Context, id string) (*models.Folder, error)

	// GetOwnerID selects only the owner column of a folder
	GetOwnerID(ctx context.Context, id string) (string, error)

	// Update writes name, parent and display metadata of an existing folder
	Update(ctx context.Context, folder *models.Folder) error

	// ListChildren lists immediate child folders (parentID nil = root level)
	ListChildren(ctx context.Context, parentID *string, userID string) ([]models.Folder, error)

	// ListChildIDs returns the IDs of every folder whose parent is in parentIDs
	ListChildIDs(ctx context.Context, userID string, parentIDs []string) ([]string, error)

	// FindSiblingByName returns the folder named name under parentID, or nil if none
	FindSiblingByName(ctx context.Context, userID string, parentID *string, name string) (*models.Folder, error)

	// List returns one page of the owner's folders and the total match count
	List(ctx context.Context, userID string, filter FolderListFilter) ([]models.Folder, int, error)

	// GetAllByUser retrieves every live folder of an owner (flat list)
	GetAllByUser(ctx context.Context, userID string) ([]models.Folder, error)

	// ListSharedWith lists folders on which userID holds a collaborator row
	ListSharedWith(ctx context.Context, userID string) ([]models.Folder, error)

	// SoftDeleteMany marks the given folders deleted and returns how many rows changed
	SoftDeleteMany(ctx context.Context, userID string, ids []string, at time.Time) (int64, error)

	// LockTree serializes structural changes to one owner's tree for the
	// rest of the current transaction. Must be called inside ExecTx.
	LockTree(ctx context.Context, userID string) error
}
