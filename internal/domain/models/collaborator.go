package models

import (
	"fmt"
	"time"
)

// Permission is an access level on a shared folder or collection.
// Levels are ordered: view < edit < admin < owner.
type Permission string

const (
	PermissionView  Permission = "view"
	PermissionEdit  Permission = "edit"
	PermissionAdmin Permission = "admin"

	// PermissionOwner is never stored on a collaborator row. It is the level
	// owners implicitly hold and the requirement for owner-only operations.
	PermissionOwner Permission = "owner"
)

// rank returns the ordinal of a permission; unknown values rank 0
func (p Permission) rank() int {
	switch p {
	case PermissionView:
		return 1
	case PermissionEdit:
		return 2
	case PermissionAdmin:
		return 3
	case PermissionOwner:
		return 4
	default:
		return 0
	}
}

// Satisfies reports whether p is at least the required level
func (p Permission) Satisfies(required Permission) bool {
	return p.rank() > 0 && p.rank() >= required.rank()
}

// Grantable reports whether p can be stored on a collaborator row
func (p Permission) Grantable() bool {
	switch p {
	case PermissionView, PermissionEdit, PermissionAdmin:
		return true
	}
	return false
}

// ParsePermission converts a raw string into a grantable permission
func ParsePermission(s string) (Permission, error) {
	p := Permission(s)
	if !p.Grantable() {
		return "", fmt.Errorf("invalid permission %q (expected view, edit or admin)", s)
	}
	return p, nil
}

// Collaborator grants a non-owner user access to a folder or collection
type Collaborator struct {
	ResourceID string     `json:"resource_id" db:"resource_id"`
	UserID     string     `json:"user_id" db:"user_id"`
	Permission Permission `json:"permission" db:"permission"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}
