package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkhive/internal/domain"
	"linkhive/internal/domain/models"
	"linkhive/internal/domain/services"
	"linkhive/internal/httputil"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeFolders records the last call and returns canned results
type fakeFolders struct {
	services.FolderService

	err        error
	created    *services.CreateFolderRequest
	updated    *services.UpdateFolderRequest
	listReq    *services.ListFoldersRequest
	page       models.Page
	deletedID  string
	moveTarget *string
	linked     [2]string
}

func (f *fakeFolders) CreateFolder(_ context.Context, userID string, req *services.CreateFolderRequest) (*models.Folder, error) {
	f.created = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.Folder{ID: "f1", UserID: userID, Name: req.Name}, nil
}

func (f *fakeFolders) GetFolder(_ context.Context, _ string, folderID string, page models.Page) (*models.FolderDetail, error) {
	f.page = page
	if f.err != nil {
		return nil, f.err
	}
	return &models.FolderDetail{Folder: &models.Folder{ID: folderID}, Permission: models.PermissionOwner}, nil
}

func (f *fakeFolders) UpdateFolder(_ context.Context, _ string, folderID string, req *services.UpdateFolderRequest) (*models.Folder, error) {
	f.updated = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.Folder{ID: folderID}, nil
}

func (f *fakeFolders) DeleteFolder(_ context.Context, _ string, folderID string, moveTo *string) error {
	f.deletedID, f.moveTarget = folderID, moveTo
	return f.err
}

func (f *fakeFolders) ListFolders(_ context.Context, _ string, req *services.ListFoldersRequest) (*models.PagedResult[models.Folder], error) {
	f.listReq = req
	return models.NewPagedResult[models.Folder](nil, 0, req.Page), f.err
}

func (f *fakeFolders) GetFolderTree(context.Context, string) ([]*models.FolderTreeNode, error) {
	return []*models.FolderTreeNode{{ID: "r", Name: "Root", Children: []*models.FolderTreeNode{}}}, f.err
}

func (f *fakeFolders) AddBookmark(_ context.Context, _ string, folderID, bookmarkID string) error {
	f.linked = [2]string{folderID, bookmarkID}
	return f.err
}

func newFolderMux(f *fakeFolders) http.Handler {
	h := NewFolderHandler(f, 20, discard())
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/folders", h.CreateFolder)
	mux.HandleFunc("GET /api/folders", h.ListFolders)
	mux.HandleFunc("GET /api/folders/tree", h.GetFolderTree)
	mux.HandleFunc("GET /api/folders/{id}", h.GetFolder)
	mux.HandleFunc("PATCH /api/folders/{id}", h.UpdateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", h.DeleteFolder)
	mux.HandleFunc("POST /api/folders/{id}/bookmarks/{bookmarkId}", h.AddBookmark)
	return mux
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	r := httputil.WithUserID(httptest.NewRequest(method, target, reader), "alice")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func TestFolderHandler_Create(t *testing.T) {
	f := &fakeFolders{}
	w := do(t, newFolderMux(f), http.MethodPost, "/api/folders", `{"name":"Work","parent_id":"p1"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, f.created)
	assert.Equal(t, "Work", f.created.Name)
	assert.Equal(t, "p1", *f.created.ParentID)
	assert.Equal(t, "f1", decodeBody(t, w)["id"])
}

func TestFolderHandler_CreateConflict(t *testing.T) {
	f := &fakeFolders{err: &domain.ConflictError{Message: "folder 'Work' already exists", ResourceType: "folder", ResourceID: "existing"}}
	w := do(t, newFolderMux(f), http.MethodPost, "/api/folders", `{"name":"Work"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "existing", body["resource_id"])
	assert.Equal(t, "folder", body["resource_type"])
}

func TestFolderHandler_BadBodies(t *testing.T) {
	mux := newFolderMux(&fakeFolders{})

	assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodPost, "/api/folders", `{"name":`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodPost, "/api/folders", `{"title":"x"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodPost, "/api/folders", ``).Code)
}

func TestFolderHandler_UpdateMoveToRoot(t *testing.T) {
	f := &fakeFolders{}
	w := do(t, newFolderMux(f), http.MethodPatch, "/api/folders/f9", `{"parent_id":null,"color":"#112233"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, f.updated)
	assert.True(t, f.updated.ParentID.Present)
	assert.Nil(t, f.updated.ParentID.Value)
	assert.Equal(t, "#112233", *f.updated.Color.Value)
	assert.False(t, f.updated.Icon.Present)
}

func TestFolderHandler_DeleteWithMigration(t *testing.T) {
	f := &fakeFolders{}
	w := do(t, newFolderMux(f), http.MethodDelete, "/api/folders/f1?moveBookmarksTo=f2", "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "f1", f.deletedID)
	require.NotNil(t, f.moveTarget)
	assert.Equal(t, "f2", *f.moveTarget)

	f = &fakeFolders{}
	do(t, newFolderMux(f), http.MethodDelete, "/api/folders/f1", "")
	assert.Nil(t, f.moveTarget)
}

func TestFolderHandler_List(t *testing.T) {
	tests := []struct {
		query        string
		wantByParent bool
		wantParent   string
		wantCode     int
	}{
		{query: "", wantCode: 200},
		{query: "?root=true", wantByParent: true, wantCode: 200},
		{query: "?parent_id=p1&limit=5", wantByParent: true, wantParent: "p1", wantCode: 200},
		{query: "?root=maybe", wantCode: 400},
		{query: "?limit=-2", wantCode: 400},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			f := &fakeFolders{}
			w := do(t, newFolderMux(f), http.MethodGet, "/api/folders"+tt.query, "")
			require.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode != http.StatusOK {
				return
			}
			assert.Equal(t, tt.wantByParent, f.listReq.ByParent)
			if tt.wantParent != "" {
				assert.Equal(t, tt.wantParent, *f.listReq.ParentID)
			} else {
				assert.Nil(t, f.listReq.ParentID)
			}
		})
	}
}

func TestFolderHandler_TreeRouteBeatsID(t *testing.T) {
	w := do(t, newFolderMux(&fakeFolders{}), http.MethodGet, "/api/folders/tree", "")

	assert.Equal(t, http.StatusOK, w.Code)
	folders := decodeBody(t, w)["folders"].([]any)
	require.Len(t, folders, 1)
	assert.Equal(t, "Root", folders[0].(map[string]any)["name"])
}

func TestFolderHandler_GetPassesPage(t *testing.T) {
	f := &fakeFolders{}
	w := do(t, newFolderMux(f), http.MethodGet, "/api/folders/f1?limit=2&offset=4", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.Page{Limit: 2, Offset: 4}, f.page)
	assert.Equal(t, "owner", decodeBody(t, w)["permission"])
}

func TestFolderHandler_AddBookmark(t *testing.T) {
	f := &fakeFolders{}
	w := do(t, newFolderMux(f), http.MethodPost, "/api/folders/f1/bookmarks/b7", "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, [2]string{"f1", "b7"}, f.linked)
}

func TestHandleError_Mapping(t *testing.T) {
	tests := []struct {
		err      error
		wantCode int
	}{
		{&domain.ValidationError{Message: "name is required"}, 400},
		{domain.ErrNotFound, 404},
		{&domain.ForbiddenError{Message: "needs owner"}, 403},
		{domain.ErrUnauthorized, 401},
		{domain.ErrConflict, 409},
		{errors.New("pool exhausted"), 500},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			handleError(w, httptest.NewRequest(http.MethodGet, "/", nil), discard(), tt.err)
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
			if tt.wantCode == 500 {
				assert.NotContains(t, w.Body.String(), "pool exhausted", "internal causes stay in the logs")
			}
		})
	}
}

func TestRequireUser(t *testing.T) {
	h := NewFolderHandler(&fakeFolders{}, 20, discard())
	w := httptest.NewRecorder()
	h.GetFolderTree(w, httptest.NewRequest(http.MethodGet, "/api/folders/tree", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
