package models

import "time"

// Collection is a flat, shareable group of bookmarks.
// Unlike folders, collections never nest.
type Collection struct {
	ID          string     `json:"id" db:"id"`
	OwnerID     string     `json:"owner_id" db:"owner_id"`
	Name        string     `json:"name" db:"name"`
	Description *string    `json:"description,omitempty" db:"description"`
	IsPublic    bool       `json:"is_public" db:"is_public"`
	ShareToken  *string    `json:"share_token,omitempty" db:"share_token"` // set while public
	IsDeleted   bool       `json:"-" db:"is_deleted"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}
