package handler

import (
	"net/http"

	"github.com/relayhq/taskboard/api/internal/middleware"
	"github.com/relayhq/taskboard/api/internal/model"
	"github.com/relayhq/taskboard/api/internal/service"
)

// ColumnHandler handles board column HTTP requests
type ColumnHandler struct {
	svc *service.BoardService
}

// NewColumnHandler creates a new column handler
func NewColumnHandler(svc *service.BoardService) *ColumnHandler {
	return &ColumnHandler{svc: svc}
}

// CreateColumnResponse surfaces the created column's id so clients do not
// have to infer it from the project's column array.
type CreateColumnResponse struct {
	ColumnID string         `json:"column_id"`
	Project  *model.Project `json:"project"`
}

// Create handles POST /v1/projects/{projectId}/columns
func (h *ColumnHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var req model.CreateColumnRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	project, column, err := h.svc.AddColumn(ctx, userID, projectID, req.ColName)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteData(w, http.StatusCreated, CreateColumnResponse{
		ColumnID: column.ID,
		Project:  project,
	})
}

// Rename handles PATCH /v1/projects/{projectId}/columns/{columnId}
func (h *ColumnHandler) Rename(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	projectID := r.PathValue("projectId")
	columnID := r.PathValue("columnId")
	if projectID == "" || columnID == "" {
		WriteError(w, model.NewBadRequestError("project ID and column ID required"))
		return
	}

	var req model.RenameColumnRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	project, err := h.svc.EditColumn(ctx, userID, projectID, columnID, req.ColName)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteData(w, http.StatusOK, project)
}

// Delete handles DELETE /v1/projects/{projectId}/columns/{columnId}
func (h *ColumnHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	projectID := r.PathValue("projectId")
	columnID := r.PathValue("columnId")
	if projectID == "" || columnID == "" {
		WriteError(w, model.NewBadRequestError("project ID and column ID required"))
		return
	}

	project, err := h.svc.DeleteColumn(ctx, userID, projectID, columnID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteData(w, http.StatusOK, project)
}

// Reorder handles POST /v1/projects/{projectId}/columns/{columnId}/reorder
func (h *ColumnHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	projectID := r.PathValue("projectId")
	columnID := r.PathValue("columnId")
	if projectID == "" || columnID == "" {
		WriteError(w, model.NewBadRequestError("project ID and column ID required"))
		return
	}

	var req model.ReorderColumnRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	project, err := h.svc.ReorderColumn(ctx, userID, projectID, columnID, req.Tasks)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteData(w, http.StatusOK, project)
}
