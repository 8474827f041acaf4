package handler

import (
	"log/slog"
	"net/http"

	"linkhive/internal/domain/models"
	"linkhive/internal/domain/services"
	"linkhive/internal/httputil"
)

// CollaboratorHandler serves /collaborators routes for one resource kind.
// main mounts one instance under folders and another under collections.
type CollaboratorHandler struct {
	collaborators services.CollaboratorService
	kind          models.ResourceKind
	logger        *slog.Logger
}

func NewCollaboratorHandler(collaborators services.CollaboratorService, kind models.ResourceKind, logger *slog.Logger) *CollaboratorHandler {
	return &CollaboratorHandler{collaborators: collaborators, kind: kind, logger: logger}
}

type updateCollaboratorRequest struct {
	Permission models.Permission `json:"permission"`
}

// ListCollaborators
// GET /api/{folders|collections}/{id}/collaborators
func (h *CollaboratorHandler) ListCollaborators(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	collaborators, err := h.collaborators.ListCollaborators(r.Context(), userID, h.kind, r.PathValue("id"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	if collaborators == nil {
		collaborators = []models.Collaborator{}
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]any{"collaborators": collaborators})
}

// AddCollaborator grants access
// POST /api/{folders|collections}/{id}/collaborators
func (h *CollaboratorHandler) AddCollaborator(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req services.CollaboratorRequest
	if !decode(w, r, &req) {
		return
	}

	collaborator, err := h.collaborators.AddCollaborator(r.Context(), userID, h.kind, r.PathValue("id"), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, collaborator)
}

// UpdateCollaborator changes a grant's level
// PATCH /api/{folders|collections}/{id}/collaborators/{userId}
func (h *CollaboratorHandler) UpdateCollaborator(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req updateCollaboratorRequest
	if !decode(w, r, &req) {
		return
	}

	collaborator, err := h.collaborators.UpdateCollaborator(r.Context(), userID, h.kind, r.PathValue("id"), r.PathValue("userId"), req.Permission)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, collaborator)
}

// RemoveCollaborator revokes a grant; collaborators may remove themselves
// DELETE /api/{folders|collections}/{id}/collaborators/{userId}
func (h *CollaboratorHandler) RemoveCollaborator(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.collaborators.RemoveCollaborator(r.Context(), userID, h.kind, r.PathValue("id"), r.PathValue("userId")); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondNoContent(w)
}
