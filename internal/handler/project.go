package handler

import (
	"net/http"

	"github.com/relayhq/taskboard/api/internal/middleware"
	"github.com/relayhq/taskboard/api/internal/model"
	"github.com/relayhq/taskboard/api/internal/service"
)

// ProjectHandler handles project lifecycle and membership HTTP requests
type ProjectHandler struct {
	svc *service.ProjectService
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(svc *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// Create handles POST /v1/projects
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.CreateProjectRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	project, err := h.svc.Create(ctx, userID, req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteData(w, http.StatusCreated, project)
}

// ListOwned handles GET /v1/projects - projects the caller owns
func (h *ProjectHandler) ListOwned(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	projects, err := h.svc.ListOwned(ctx, userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteData(w, http.StatusOK, projects)
}

// ListInvited handles GET /v1/projects/invited - projects shared with the caller
func (h *ProjectHandler) ListInvited(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	projects, err := h.svc.ListInvited(ctx, userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteData(w, http.StatusOK, projects)
}

// Get handles GET /v1/projects/{projectId}
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	projectID := r.PathValue("projectId")
	if projectID == "" {
		WriteError(w, model.NewBadRequestError("project ID required"))
		return
	}

	project, err := h.svc.Get(ctx, userID, projectID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteData(w, http.StatusOK, project)
}

// Update handles PATCH /v1/projects/{projectId}
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	projectID := r.PathValue("projectId")
	if projectID == "" {
		WriteError(w, model.NewBadRequestError("project ID required"))
		return
	}

	var req model.UpdateProjectRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	project, err := h.svc.Update(ctx, userID, projectID, req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteData(w, http.StatusOK, project)
}

// Delete handles DELETE /v1/projects/{projectId}
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	projectID := r.PathValue("projectId")
	if projectID == "" {
		WriteError(w, model.NewBadRequestError("project ID required"))
		return
	}

	if err := h.svc.Delete(ctx, userID, projectID); err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteNoContent(w)
}

// AddMember handles POST /v1/projects/{projectId}/members
func (h *ProjectHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	projectID := r.PathValue("projectId")
	if projectID == "" {
		WriteError(w, model.NewBadRequestError("project ID required"))
		return
	}

	var req model.AddMemberRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	project, err := h.svc.AddMember(ctx, userID, projectID, req.UserEmail)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteData(w, http.StatusOK, project)
}

// RemoveMember handles DELETE /v1/projects/{projectId}/members
func (h *ProjectHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	projectID := r.PathValue("projectId")
	if projectID == "" {
		WriteError(w, model.NewBadRequestError("project ID required"))
		return
	}

	var req model.RemoveMemberRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	project, err := h.svc.RemoveMember(ctx, userID, projectID, req.UserEmail)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteData(w, http.StatusOK, project)
}

// ChangeMemberRole handles PATCH /v1/projects/{projectId}/members/{userId}/role
func (h *ProjectHandler) ChangeMemberRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	projectID := r.PathValue("projectId")
	targetUserID := r.PathValue("userId")
	if projectID == "" || targetUserID == "" {
		WriteError(w, model.NewBadRequestError("project ID and user ID required"))
		return
	}

	var req model.ChangeMemberRoleRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	project, err := h.svc.ChangeMemberRole(ctx, userID, projectID, targetUserID, req.NewRole)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteData(w, http.StatusOK, project)
}

// DeleteAll handles DELETE /v1/admin/projects - wipes every project.
// The admin middleware guards this route.
func (h *ProjectHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteAll(r.Context()); err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteNoContent(w)
}
