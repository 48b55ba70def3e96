package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/relayhq/taskboard/api/internal/handler"
	"github.com/relayhq/taskboard/api/internal/middleware"
	"github.com/relayhq/taskboard/api/internal/model"
	"github.com/relayhq/taskboard/api/internal/service"
)

// stubProjectRepo holds one project in memory. Only the methods the board
// create paths touch do real work; the rest satisfy the interface.
type stubProjectRepo struct {
	project *model.Project
}

func (s *stubProjectRepo) Create(ctx context.Context, project *model.Project) error { return nil }

func (s *stubProjectRepo) GetByID(ctx context.Context, id string) (*model.Project, error) {
	if s.project != nil && s.project.ID == id {
		return s.project, nil
	}
	return nil, nil
}

func (s *stubProjectRepo) GetOwnedBy(ctx context.Context, userID string) ([]model.Project, error) {
	return nil, nil
}

func (s *stubProjectRepo) GetInvitedTo(ctx context.Context, userID string) ([]model.Project, error) {
	return nil, nil
}

func (s *stubProjectRepo) UpdateFields(ctx context.Context, projectID string, req model.UpdateProjectRequest) (*model.Project, error) {
	return s.project, nil
}

func (s *stubProjectRepo) Delete(ctx context.Context, id string) error { return nil }
func (s *stubProjectRepo) DeleteAll(ctx context.Context) error         { return nil }

func (s *stubProjectRepo) AddMember(ctx context.Context, projectID, userID string) (*model.Project, error) {
	return s.project, nil
}

func (s *stubProjectRepo) RemoveMember(ctx context.Context, projectID, userID string) (*model.Project, error) {
	return s.project, nil
}

func (s *stubProjectRepo) SetMemberRole(ctx context.Context, projectID, userID string, role model.ProjectRole) (*model.Project, error) {
	return s.project, nil
}

func (s *stubProjectRepo) AddColumn(ctx context.Context, projectID string, column model.Column) (*model.Project, error) {
	s.project.Columns = append(s.project.Columns, column)
	return s.project, nil
}

func (s *stubProjectRepo) RenameColumn(ctx context.Context, projectID, columnID, name string) (*model.Project, error) {
	return s.project, nil
}

func (s *stubProjectRepo) RemoveColumn(ctx context.Context, projectID, columnID string) (*model.Project, error) {
	return s.project, nil
}

func (s *stubProjectRepo) AddTask(ctx context.Context, projectID, columnID string, task model.Task) (*model.Project, error) {
	for i := range s.project.Columns {
		if s.project.Columns[i].ID == columnID {
			s.project.Columns[i].Tasks = append(s.project.Columns[i].Tasks, task)
		}
	}
	return s.project, nil
}

func (s *stubProjectRepo) UpdateTask(ctx context.Context, projectID, taskID string, req model.UpdateTaskRequest) (*model.Project, error) {
	return s.project, nil
}

func (s *stubProjectRepo) QuickEditTask(ctx context.Context, projectID, taskID, name, description string) (*model.Project, error) {
	return s.project, nil
}

func (s *stubProjectRepo) RemoveTask(ctx context.Context, projectID, taskID string) (*model.Project, error) {
	return s.project, nil
}

func (s *stubProjectRepo) AssignUser(ctx context.Context, projectID, taskID, userID string) (*model.Project, error) {
	return s.project, nil
}

func (s *stubProjectRepo) UnassignUser(ctx context.Context, projectID, taskID, userID string) (*model.Project, error) {
	return s.project, nil
}

func (s *stubProjectRepo) MoveTask(ctx context.Context, projectID, taskID, columnID string, tasks []model.Task) error {
	return nil
}

func (s *stubProjectRepo) ReplaceColumnTasks(ctx context.Context, projectID, columnID string, tasks []model.Task) (*model.Project, error) {
	return s.project, nil
}

// boardHarness routes column and task creation through real handlers over
// the stub repo, with the caller identity injected as the auth middleware
// would.
type boardHarness struct {
	mux  *http.ServeMux
	repo *stubProjectRepo
}

func newBoardHarness(t *testing.T) *boardHarness {
	t.Helper()

	repo := &stubProjectRepo{
		project: &model.Project{
			ID:       "project:board",
			Title:    "Board",
			OwnerIDs: []string{"user:owner"},
			Columns: []model.Column{
				{ID: "col-todo", ColName: "To Do", Tasks: []model.Task{}},
			},
		},
	}

	boardService := service.NewBoardService(service.BoardServiceConfig{
		ProjectRepo: repo,
		UserRepo:    newMemUserRepo(),
	})
	columnHandler := handler.NewColumnHandler(boardService)
	taskHandler := handler.NewTaskHandler(boardService)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/projects/{projectId}/columns", columnHandler.Create)
	mux.HandleFunc("POST /v1/projects/{projectId}/columns/{columnId}/tasks", taskHandler.Create)

	return &boardHarness{mux: mux, repo: repo}
}

func (h *boardHarness) post(t *testing.T, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, "user:owner"))

	resp := httptest.NewRecorder()
	h.mux.ServeHTTP(resp, req)
	return resp
}

func TestCreateColumn_ResponseCarriesColumnID(t *testing.T) {
	t.Parallel()

	h := newBoardHarness(t)

	resp := h.post(t, "/v1/projects/project:board/columns", `{"col_name":"In Progress"}`)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data struct {
			ColumnID string        `json:"column_id"`
			Project  model.Project `json:"project"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if envelope.Data.ColumnID == "" {
		t.Fatal("expected column_id in the creation response")
	}

	created := envelope.Data.Project.FindColumn(envelope.Data.ColumnID)
	if created == nil {
		t.Fatalf("column_id %q not present in the returned project", envelope.Data.ColumnID)
	}
	if created.ColName != "In Progress" {
		t.Errorf("expected created column named 'In Progress', got %q", created.ColName)
	}
}

func TestCreateTask_ResponseCarriesTaskID(t *testing.T) {
	t.Parallel()

	h := newBoardHarness(t)

	resp := h.post(t, "/v1/projects/project:board/columns/col-todo/tasks", `{"task_name":"Write release notes"}`)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data struct {
			TaskID  string        `json:"task_id"`
			Project model.Project `json:"project"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if envelope.Data.TaskID == "" {
		t.Fatal("expected task_id in the creation response")
	}

	_, task := envelope.Data.Project.FindTask(envelope.Data.TaskID)
	if task == nil {
		t.Fatalf("task_id %q not present in the returned project", envelope.Data.TaskID)
	}
	if task.TaskName != "Write release notes" {
		t.Errorf("expected created task named 'Write release notes', got %q", task.TaskName)
	}
}
