package models

import "time"

// Bookmark represents a saved URL with metadata.
// A bookmark is owned by one user and can be linked into any number of folders.
type Bookmark struct {
	ID            string     `json:"id" db:"id"`
	UserID        string     `json:"user_id" db:"user_id"`
	URL           string     `json:"url" db:"url"`
	Title         *string    `json:"title,omitempty" db:"title"`
	Description   *string    `json:"description,omitempty" db:"description"`
	Notes         *string    `json:"notes,omitempty" db:"notes"`
	VisitCount    int        `json:"visit_count" db:"visit_count"`
	LastVisitedAt *time.Time `json:"last_visited_at,omitempty" db:"last_visited_at"`
	IsDeleted     bool       `json:"-" db:"is_deleted"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// FolderBookmark links a bookmark into a folder.
// Rows carry no identity of their own and are physically deleted.
type FolderBookmark struct {
	FolderID   string    `json:"folder_id" db:"folder_id"`
	BookmarkID string    `json:"bookmark_id" db:"bookmark_id"`
	AddedAt    time.Time `json:"added_at" db:"added_at"`
}
