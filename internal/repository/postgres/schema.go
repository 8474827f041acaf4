package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaSQL is applied with Migrate. Every statement is idempotent.
// Sibling names are unique among live folders of the same owner and parent;
// the second index covers root level where parent_id is NULL.
const schemaSQL = `
CREATE EXTENSION IF NOT EXISTS pgcrypto;

CREATE TABLE IF NOT EXISTS {{folders}} (
	id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	user_id     TEXT NOT NULL,
	parent_id   UUID REFERENCES {{folders}}(id),
	name        VARCHAR(100) NOT NULL,
	description TEXT,
	icon        TEXT,
	color       TEXT,
	is_deleted  BOOLEAN NOT NULL DEFAULT FALSE,
	deleted_at  TIMESTAMPTZ,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CHECK (parent_id IS NULL OR parent_id <> id)
);
CREATE UNIQUE INDEX IF NOT EXISTS {{folders}}_sibling_name_idx
	ON {{folders}} (user_id, parent_id, name) WHERE is_deleted = FALSE AND parent_id IS NOT NULL;
CREATE UNIQUE INDEX IF NOT EXISTS {{folders}}_root_name_idx
	ON {{folders}} (user_id, name) WHERE is_deleted = FALSE AND parent_id IS NULL;
CREATE INDEX IF NOT EXISTS {{folders}}_parent_idx
	ON {{folders}} (user_id, parent_id) WHERE is_deleted = FALSE;

CREATE TABLE IF NOT EXISTS {{bookmarks}} (
	id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	user_id         TEXT NOT NULL,
	url             TEXT NOT NULL,
	title           TEXT,
	description     TEXT,
	notes           TEXT,
	visit_count     INTEGER NOT NULL DEFAULT 0,
	last_visited_at TIMESTAMPTZ,
	is_deleted      BOOLEAN NOT NULL DEFAULT FALSE,
	deleted_at      TIMESTAMPTZ,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS {{bookmarks}}_user_idx ON {{bookmarks}} (user_id) WHERE is_deleted = FALSE;

CREATE TABLE IF NOT EXISTS {{folder_bookmarks}} (
	folder_id   UUID NOT NULL REFERENCES {{folders}}(id),
	bookmark_id UUID NOT NULL REFERENCES {{bookmarks}}(id),
	added_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (folder_id, bookmark_id)
);
CREATE INDEX IF NOT EXISTS {{folder_bookmarks}}_bookmark_idx ON {{folder_bookmarks}} (bookmark_id);

CREATE TABLE IF NOT EXISTS {{folder_collaborators}} (
	folder_id  UUID NOT NULL REFERENCES {{folders}}(id),
	user_id    TEXT NOT NULL,
	permission TEXT NOT NULL CHECK (permission IN ('view', 'edit', 'admin')),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (folder_id, user_id)
);
CREATE INDEX IF NOT EXISTS {{folder_collaborators}}_user_idx ON {{folder_collaborators}} (user_id);

CREATE TABLE IF NOT EXISTS {{tags}} (
	id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	user_id    TEXT NOT NULL,
	name       VARCHAR(50) NOT NULL,
	is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
	deleted_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS {{collections}} (
	id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	owner_id    TEXT NOT NULL,
	name        VARCHAR(100) NOT NULL,
	description TEXT,
	is_public   BOOLEAN NOT NULL DEFAULT FALSE,
	share_token TEXT UNIQUE,
	is_deleted  BOOLEAN NOT NULL DEFAULT FALSE,
	deleted_at  TIMESTAMPTZ,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS {{collections}}_owner_idx ON {{collections}} (owner_id) WHERE is_deleted = FALSE;

CREATE TABLE IF NOT EXISTS {{collection_collaborators}} (
	collection_id UUID NOT NULL REFERENCES {{collections}}(id),
	user_id       TEXT NOT NULL,
	permission    TEXT NOT NULL CHECK (permission IN ('view', 'edit', 'admin')),
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (collection_id, user_id)
);
CREATE INDEX IF NOT EXISTS {{collection_collaborators}}_user_idx ON {{collection_collaborators}} (user_id);
`

// SchemaSQL renders the DDL for the given table names
func SchemaSQL(tables *TableNames) string {
	return strings.NewReplacer(
		"{{folders}}", tables.Folders,
		"{{bookmarks}}", tables.Bookmarks,
		"{{folder_bookmarks}}", tables.FolderBookmarks,
		"{{folder_collaborators}}", tables.FolderCollaborators,
		"{{tags}}", tables.Tags,
		"{{collections}}", tables.Collections,
		"{{collection_collaborators}}", tables.CollectionCollaborators,
	).Replace(schemaSQL)
}

// Migrate creates missing tables and indexes
func Migrate(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	if _, err := pool.Exec(ctx, SchemaSQL(tables)); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// DropAll removes every table managed by Migrate
func DropAll(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	for _, table := range tables.All() {
		if _, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
	}
	return nil
}

// TruncateAll empties every managed table, keeping the schema
func TruncateAll(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	if _, err := pool.Exec(ctx, "TRUNCATE "+strings.Join(tables.All(), ", ")+" CASCADE"); err != nil {
		return fmt.Errorf("truncate tables: %w", err)
	}
	return nil
}
