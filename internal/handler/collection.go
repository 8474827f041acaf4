package handler

import (
	"log/slog"
	"net/http"

	"linkhive/internal/domain/services"
	"linkhive/internal/httputil"
)

type CollectionHandler struct {
	collections services.CollectionService
	defaultPage int
	logger      *slog.Logger
}

func NewCollectionHandler(collections services.CollectionService, defaultPage int, logger *slog.Logger) *CollectionHandler {
	return &CollectionHandler{collections: collections, defaultPage: defaultPage, logger: logger}
}

// CreateCollection
// POST /api/collections
func (h *CollectionHandler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req services.CreateCollectionRequest
	if !decode(w, r, &req) {
		return
	}

	collection, err := h.collections.CreateCollection(r.Context(), userID, &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, collection)
}

// ListCollections
// GET /api/collections?limit=&offset=
func (h *CollectionHandler) ListCollections(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	page, err := httputil.ParsePage(r, h.defaultPage)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.collections.ListCollections(r.Context(), userID, page)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, result)
}

// GetCollection
// GET /api/collections/{id}
func (h *CollectionHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	collection, err := h.collections.GetCollection(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, collection)
}

// UpdateCollection
// PATCH /api/collections/{id}
func (h *CollectionHandler) UpdateCollection(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req services.UpdateCollectionRequest
	if !decode(w, r, &req) {
		return
	}

	collection, err := h.collections.UpdateCollection(r.Context(), userID, r.PathValue("id"), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, collection)
}

// DeleteCollection
// DELETE /api/collections/{id}
func (h *CollectionHandler) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.collections.DeleteCollection(r.Context(), userID, r.PathValue("id")); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondNoContent(w)
}

// GetSharedCollection resolves a public share link. No authentication.
// GET /api/shared/collections/{token}
func (h *CollectionHandler) GetSharedCollection(w http.ResponseWriter, r *http.Request) {
	collection, err := h.collections.GetCollectionByShareToken(r.Context(), r.PathValue("token"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, collection)
}
