package hierarchy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkhive/internal/domain"
	"linkhive/internal/domain/models"
	"linkhive/internal/domain/services"
)

func TestAddCollaborator(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	folder := f.mkFolder(t, "alice", "Shared", nil)

	c, err := f.collaborators.AddCollaborator(ctx, "alice", models.ResourceFolder, folder.ID, &services.CollaboratorRequest{
		UserID:     " bob ",
		Permission: models.PermissionEdit,
	})
	require.NoError(t, err)
	assert.Equal(t, "bob", c.UserID)
	assert.Equal(t, f.now, c.CreatedAt)

	p, err := f.folders.authorizer.EffectivePermission(ctx, models.ResourceFolder, folder.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, models.PermissionEdit, p)

	assert.ElementsMatch(t, []string{"alice", "bob"}, f.sink.recipients(models.EventCollaboratorAdded))
	assert.Contains(t, f.cache.keys, folderKey(folder.ID))

	_, err = f.collaborators.AddCollaborator(ctx, "alice", models.ResourceFolder, folder.ID, &services.CollaboratorRequest{
		UserID: "bob", Permission: models.PermissionView,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAddCollaborator_Rules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	folder := f.mkFolder(t, "alice", "Shared", nil)
	f.share(folder.ID, "editor", models.PermissionEdit)
	f.share(folder.ID, "admin", models.PermissionAdmin)

	tests := []struct {
		name   string
		caller string
		kind   models.ResourceKind
		req    services.CollaboratorRequest
		want   error
	}{
		{"owner cannot be added", "alice", models.ResourceFolder, services.CollaboratorRequest{UserID: "alice", Permission: models.PermissionView}, domain.ErrValidation},
		{"owner is not grantable", "alice", models.ResourceFolder, services.CollaboratorRequest{UserID: "carol", Permission: models.PermissionOwner}, domain.ErrValidation},
		{"unknown permission", "alice", models.ResourceFolder, services.CollaboratorRequest{UserID: "carol", Permission: "write"}, domain.ErrValidation},
		{"missing user", "alice", models.ResourceFolder, services.CollaboratorRequest{Permission: models.PermissionView}, domain.ErrValidation},
		{"editor cannot share", "editor", models.ResourceFolder, services.CollaboratorRequest{UserID: "carol", Permission: models.PermissionView}, domain.ErrForbidden},
		{"tags cannot be shared", "alice", models.ResourceTag, services.CollaboratorRequest{UserID: "carol", Permission: models.PermissionView}, domain.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := f.collaborators.AddCollaborator(ctx, tt.caller, tt.kind, folder.ID, &req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	// Admins can share onward
	_, err := f.collaborators.AddCollaborator(ctx, "admin", models.ResourceFolder, folder.ID, &services.CollaboratorRequest{
		UserID: "carol", Permission: models.PermissionView,
	})
	assert.NoError(t, err)
}

func TestUpdateCollaborator(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	folder := f.mkFolder(t, "alice", "Shared", nil)
	f.share(folder.ID, "bob", models.PermissionView)

	c, err := f.collaborators.UpdateCollaborator(ctx, "alice", models.ResourceFolder, folder.ID, "bob", models.PermissionAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.PermissionAdmin, c.Permission)

	_, err = f.collaborators.UpdateCollaborator(ctx, "alice", models.ResourceFolder, folder.ID, "nobody", models.PermissionView)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.collaborators.UpdateCollaborator(ctx, "alice", models.ResourceFolder, folder.ID, "bob", "superuser")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRemoveCollaborator(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	folder := f.mkFolder(t, "alice", "Shared", nil)
	f.share(folder.ID, "bob", models.PermissionView)
	f.share(folder.ID, "carol", models.PermissionView)

	assert.ErrorIs(t, f.collaborators.RemoveCollaborator(ctx, "bob", models.ResourceFolder, folder.ID, "carol"), domain.ErrForbidden)

	// Anyone may leave
	require.NoError(t, f.collaborators.RemoveCollaborator(ctx, "bob", models.ResourceFolder, folder.ID, "bob"))
	_, err := f.folders.GetFolder(ctx, "bob", folder.ID, models.Page{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, f.collaborators.RemoveCollaborator(ctx, "alice", models.ResourceFolder, folder.ID, "carol"))
	assert.ErrorIs(t, f.collaborators.RemoveCollaborator(ctx, "alice", models.ResourceFolder, folder.ID, "carol"), domain.ErrNotFound)
}

func TestListCollaborators(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	folder := f.mkFolder(t, "alice", "Shared", nil)
	f.share(folder.ID, "bob", models.PermissionView)
	f.share(folder.ID, "carol", models.PermissionEdit)

	list, err := f.collaborators.ListCollaborators(ctx, "bob", models.ResourceFolder, folder.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "bob", list[0].UserID)
	assert.Equal(t, "carol", list[1].UserID)

	_, err = f.collaborators.ListCollaborators(ctx, "mallory", models.ResourceFolder, folder.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCollaborators_OnCollections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	col, err := f.collections.CreateCollection(ctx, "alice", &services.CreateCollectionRequest{Name: "Reading list"})
	require.NoError(t, err)

	_, err = f.collaborators.AddCollaborator(ctx, "alice", models.ResourceCollection, col.ID, &services.CollaboratorRequest{
		UserID: "bob", Permission: models.PermissionEdit,
	})
	require.NoError(t, err)
	assert.Contains(t, f.cache.keys, collectionKey(col.ID))
	assert.Empty(t, f.store.folderCollabs, "collection grants live in their own table")

	got, err := f.collections.GetCollection(ctx, "bob", col.ID)
	require.NoError(t, err)
	assert.Equal(t, "Reading list", got.Name)
}
