package handler

import (
	"net/http"

	"github.com/relayhq/taskboard/api/internal/middleware"
	"github.com/relayhq/taskboard/api/internal/model"
	"github.com/relayhq/taskboard/api/internal/service"
)

// TaskHandler handles board task HTTP requests
type TaskHandler struct {
	svc *service.BoardService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(svc *service.BoardService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// requireIdentity extracts the caller and the path ids common to task routes
func (h *TaskHandler) requireIdentity(w http.ResponseWriter, r *http.Request) (userID, projectID, taskID string, ok bool) {
	userID = middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return "", "", "", false
	}

	projectID = r.PathValue("projectId")
	taskID = r.PathValue("taskId")
	if projectID == "" || taskID == "" {
		WriteError(w, model.NewBadRequestError("project ID and task ID required"))
		return "", "", "", false
	}

	return userID, projectID, taskID, true
}

// CreateTaskResponse surfaces the created task's id so clients do not have
// to infer it from the column's task array.
type CreateTaskResponse struct {
	TaskID  string         `json:"task_id"`
	Project *model.Project `json:"project"`
}

// Create handles POST /v1/projects/{projectId}/columns/{columnId}/tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var req model.CreateTaskRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	project, task, err := h.svc.AddTask(ctx, userID, projectID, columnID, req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteData(w, http.StatusCreated, CreateTaskResponse{
		TaskID:  task.ID,
		Project: project,
	})
}

// Update handles PATCH /v1/projects/{projectId}/tasks/{taskId}
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, projectID, taskID, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	var req model.UpdateTaskRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	project, err := h.svc.UpdateTask(r.Context(), userID, projectID, taskID, req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteData(w, http.StatusOK, project)
}

// QuickEdit handles PATCH /v1/projects/{projectId}/tasks/{taskId}/quick
func (h *TaskHandler) QuickEdit(w http.ResponseWriter, r *http.Request) {
	userID, projectID, taskID, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	var req model.QuickEditTaskRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	project, err := h.svc.QuickEditTask(r.Context(), userID, projectID, taskID, req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteData(w, http.StatusOK, project)
}

// Delete handles DELETE /v1/projects/{projectId}/tasks/{taskId}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, projectID, taskID, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	project, err := h.svc.DeleteTask(r.Context(), userID, projectID, taskID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteData(w, http.StatusOK, project)
}

// Assign handles POST /v1/projects/{projectId}/tasks/{taskId}/assignees
func (h *TaskHandler) Assign(w http.ResponseWriter, r *http.Request) {
	userID, projectID, taskID, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	var req model.AssignTaskRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	project, err := h.svc.AssignUser(r.Context(), userID, projectID, taskID, req.UserEmail)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteData(w, http.StatusOK, project)
}

// Unassign handles DELETE /v1/projects/{projectId}/tasks/{taskId}/assignees
func (h *TaskHandler) Unassign(w http.ResponseWriter, r *http.Request) {
	userID, projectID, taskID, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	var req model.AssignTaskRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	project, err := h.svc.UnassignUser(r.Context(), userID, projectID, taskID, req.UserEmail)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteData(w, http.StatusOK, project)
}

// Move handles POST /v1/projects/{projectId}/tasks/{taskId}/move
func (h *TaskHandler) Move(w http.ResponseWriter, r *http.Request) {
	userID, projectID, taskID, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	var req model.MoveTaskRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if req.ColumnID == "" {
		WriteError(w, model.NewBadRequestError("destination column ID required"))
		return
	}

	project, err := h.svc.MoveTask(r.Context(), userID, projectID, taskID, req.ColumnID, req.Tasks)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteData(w, http.StatusOK, project)
}
