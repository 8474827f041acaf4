package models

import (
	"time"
)

type Folder struct {
	ID          string     `json:"id" db:"id"`
	UserID      string     `json:"user_id" db:"user_id"`
	ParentID    *string    `json:"parent_id" db:"parent_id"` // NULL = root level
	Name        string     `json:"name" db:"name"`
	Description *string    `json:"description,omitempty" db:"description"`
	Icon        *string    `json:"icon,omitempty" db:"icon"`
	Color       *string    `json:"color,omitempty" db:"color"`
	IsDeleted   bool       `json:"-" db:"is_deleted"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// FolderTreeNode represents a folder in the owner's tree with nested children
type FolderTreeNode struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	ParentID      *string           `json:"parent_id"`
	Description   *string           `json:"description,omitempty"`
	Icon          *string           `json:"icon,omitempty"`
	Color         *string           `json:"color,omitempty"`
	BookmarkCount int               `json:"bookmark_count"`
	CreatedAt     time.Time         `json:"created_at"`
	Children      []*FolderTreeNode `json:"children"` // Pointers for proper nesting
}

// FolderDetail is a folder together with its immediate contents and ancestry
type FolderDetail struct {
	Folder     *Folder                `json:"folder"`
	Path       []PathSegment          `json:"path"`
	Subfolders []Folder               `json:"subfolders"`
	Bookmarks  *PagedResult[Bookmark] `json:"bookmarks"`
	Permission Permission             `json:"permission"` // caller's effective permission
}

// PathSegment is one entry of a root-to-folder ancestry list
type PathSegment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
