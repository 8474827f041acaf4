package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"linkhive/internal/domain/services"
	"linkhive/internal/httputil"
)

// FolderHandler serves the folder hierarchy routes
type FolderHandler struct {
	folders     services.FolderService
	defaultPage int
	logger      *slog.Logger
}

func NewFolderHandler(folders services.FolderService, defaultPage int, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{folders: folders, defaultPage: defaultPage, logger: logger}
}

// CreateFolder creates a folder
// POST /api/folders
// A sibling with the same name yields 409 carrying its resource_id.
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req services.CreateFolderRequest
	if !decode(w, r, &req) {
		return
	}

	folder, err := h.folders.CreateFolder(r.Context(), userID, &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// ListFolders returns a flat page of the caller's folders
// GET /api/folders?parent_id=<id> | ?root=true
func (h *FolderHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	page, err := httputil.ParsePage(r, h.defaultPage)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := &services.ListFoldersRequest{Page: page}
	if parentID := httputil.OptionalQuery(r, "parent_id"); parentID != nil {
		req.ByParent = true
		req.ParentID = parentID
	} else if raw := r.URL.Query().Get("root"); raw != "" {
		root, err := strconv.ParseBool(raw)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "root must be a boolean")
			return
		}
		req.ByParent = root
	}

	result, err := h.folders.ListFolders(r.Context(), userID, req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, result)
}

// GetFolderTree returns the caller's whole forest
// GET /api/folders/tree
func (h *FolderHandler) GetFolderTree(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	roots, err := h.folders.GetFolderTree(r.Context(), userID)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]any{"folders": roots})
}

// ListSharedFolders returns folders shared with the caller
// GET /api/folders/shared
func (h *FolderHandler) ListSharedFolders(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	folders, err := h.folders.ListSharedFolders(r.Context(), userID)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]any{"folders": folders})
}

// GetFolder returns the folder with its path, subfolders and a bookmark page
// GET /api/folders/{id}?limit=&offset=
func (h *FolderHandler) GetFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	page, err := httputil.ParsePage(r, h.defaultPage)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	detail, err := h.folders.GetFolder(r.Context(), userID, r.PathValue("id"), page)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, detail)
}

// GetFolderPath returns the ancestry of a folder
// GET /api/folders/{id}/path
func (h *FolderHandler) GetFolderPath(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	path, err := h.folders.GetFolderPath(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]any{"path": path})
}

// UpdateFolder renames, moves or edits metadata
// PATCH /api/folders/{id}
func (h *FolderHandler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req services.UpdateFolderRequest
	if !decode(w, r, &req) {
		return
	}

	folder, err := h.folders.UpdateFolder(r.Context(), userID, r.PathValue("id"), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, folder)
}

// DeleteFolder removes a folder and its subtree
// DELETE /api/folders/{id}?moveBookmarksTo=<folderId>
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	target := httputil.OptionalQuery(r, "moveBookmarksTo")
	if err := h.folders.DeleteFolder(r.Context(), userID, r.PathValue("id"), target); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondNoContent(w)
}

// AddBookmark links a bookmark into the folder
// POST /api/folders/{id}/bookmarks/{bookmarkId}
func (h *FolderHandler) AddBookmark(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.folders.AddBookmark(r.Context(), userID, r.PathValue("id"), r.PathValue("bookmarkId")); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondNoContent(w)
}

// RemoveBookmark unlinks a bookmark from the folder
// DELETE /api/folders/{id}/bookmarks/{bookmarkId}
func (h *FolderHandler) RemoveBookmark(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.folders.RemoveBookmark(r.Context(), userID, r.PathValue("id"), r.PathValue("bookmarkId")); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondNoContent(w)
}
