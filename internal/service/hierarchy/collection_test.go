package hierarchy

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkhive/internal/domain"
	"linkhive/internal/domain/models"
	"linkhive/internal/domain/services"
	"linkhive/internal/httputil"
)

func boolPtr(b bool) *bool { return &b }

func TestCreateCollection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	private, err := f.collections.CreateCollection(ctx, "alice", &services.CreateCollectionRequest{Name: " Private "})
	require.NoError(t, err)
	assert.Equal(t, "Private", private.Name)
	assert.Nil(t, private.ShareToken)

	public, err := f.collections.CreateCollection(ctx, "alice", &services.CreateCollectionRequest{Name: "Public", IsPublic: true})
	require.NoError(t, err)
	require.NotNil(t, public.ShareToken)
	assert.Len(t, *public.ShareToken, 32)
	assert.NotContains(t, *public.ShareToken, "-")

	assert.Contains(t, f.cache.patterns, "collections:alice:*")

	_, err = f.collections.CreateCollection(ctx, "alice", &services.CreateCollectionRequest{Name: strings.Repeat("n", 101)})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGetCollection_Visibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	private, err := f.collections.CreateCollection(ctx, "alice", &services.CreateCollectionRequest{Name: "Private"})
	require.NoError(t, err)
	public, err := f.collections.CreateCollection(ctx, "alice", &services.CreateCollectionRequest{Name: "Public", IsPublic: true})
	require.NoError(t, err)

	_, err = f.collections.GetCollection(ctx, "alice", private.ID)
	assert.NoError(t, err)
	_, err = f.collections.GetCollection(ctx, "bob", private.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.collections.GetCollection(ctx, "bob", public.ID)
	assert.NoError(t, err)
}

func TestUpdateCollection_PublishToggle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tokens := []string{"tok-one", "tok-two"}
	f.collections.newToken = func() string {
		next := tokens[0]
		tokens = tokens[1:]
		return next
	}

	col, err := f.collections.CreateCollection(ctx, "alice", &services.CreateCollectionRequest{Name: "List"})
	require.NoError(t, err)

	col, err = f.collections.UpdateCollection(ctx, "alice", col.ID, &services.UpdateCollectionRequest{IsPublic: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, "tok-one", *col.ShareToken)

	shared, err := f.collections.GetCollectionByShareToken(ctx, "tok-one")
	require.NoError(t, err)
	assert.Equal(t, col.ID, shared.ID)

	col, err = f.collections.UpdateCollection(ctx, "alice", col.ID, &services.UpdateCollectionRequest{IsPublic: boolPtr(false)})
	require.NoError(t, err)
	assert.Nil(t, col.ShareToken)

	_, err = f.collections.GetCollectionByShareToken(ctx, "tok-one")
	assert.ErrorIs(t, err, domain.ErrNotFound, "unpublishing revokes the link")

	col, err = f.collections.UpdateCollection(ctx, "alice", col.ID, &services.UpdateCollectionRequest{IsPublic: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, "tok-two", *col.ShareToken, "republishing mints a new token")
}

func TestUpdateCollection_Permissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	col, err := f.collections.CreateCollection(ctx, "alice", &services.CreateCollectionRequest{Name: "List"})
	require.NoError(t, err)
	_, err = f.collaborators.AddCollaborator(ctx, "alice", models.ResourceCollection, col.ID, &services.CollaboratorRequest{
		UserID: "bob", Permission: models.PermissionEdit,
	})
	require.NoError(t, err)

	updated, err := f.collections.UpdateCollection(ctx, "bob", col.ID, &services.UpdateCollectionRequest{
		Name:        strPtr("Renamed"),
		Description: httputil.Some("desc"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.ElementsMatch(t, []string{"alice", "bob"}, f.sink.recipients(models.EventCollectionUpdated))

	_, err = f.collections.UpdateCollection(ctx, "bob", col.ID, &services.UpdateCollectionRequest{IsPublic: boolPtr(true)})
	assert.ErrorIs(t, err, domain.ErrForbidden, "publishing needs admin")

	_, err = f.collections.UpdateCollection(ctx, "alice", col.ID, &services.UpdateCollectionRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.ErrorIs(t, f.collections.DeleteCollection(ctx, "bob", col.ID), domain.ErrForbidden)
}

func TestDeleteCollection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	col, err := f.collections.CreateCollection(ctx, "alice", &services.CreateCollectionRequest{Name: "Bye", IsPublic: true})
	require.NoError(t, err)
	token := *col.ShareToken
	_, err = f.collaborators.AddCollaborator(ctx, "alice", models.ResourceCollection, col.ID, &services.CollaboratorRequest{
		UserID: "bob", Permission: models.PermissionView,
	})
	require.NoError(t, err)

	require.NoError(t, f.collections.DeleteCollection(ctx, "alice", col.ID))

	assert.Empty(t, f.store.collectionCollabs)
	assert.ElementsMatch(t, []string{"alice", "bob"}, f.sink.recipients(models.EventCollectionDeleted))

	_, err = f.collections.GetCollection(ctx, "alice", col.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.collections.GetCollectionByShareToken(ctx, token)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListCollections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, name := range []string{"c", "a", "b"} {
		_, err := f.collections.CreateCollection(ctx, "alice", &services.CreateCollectionRequest{Name: name})
		require.NoError(t, err)
	}
	_, err := f.collections.CreateCollection(ctx, "bob", &services.CreateCollectionRequest{Name: "other"})
	require.NoError(t, err)

	page, err := f.collections.ListCollections(ctx, "alice", models.Page{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalCount)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "a", page.Items[0].Name)
	assert.True(t, page.HasMore)
}

func TestGetCollectionByShareToken_Blank(t *testing.T) {
	f := newFixture(t)

	_, err := f.collections.GetCollectionByShareToken(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
