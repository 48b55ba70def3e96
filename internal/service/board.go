package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/relayhq/taskboard/api/internal/model"
)

// BoardService handles column and task operations on a project's board.
// Every operation is scoped to one project and gated on the caller being
// a participant of that project.
type BoardService struct {
	projectRepo ProjectRepository
	userRepo    UserRepository
}

// BoardServiceConfig holds configuration for the board service
type BoardServiceConfig struct {
	ProjectRepo ProjectRepository
	UserRepo    UserRepository
}

// NewBoardService creates a new board service
func NewBoardService(cfg BoardServiceConfig) *BoardService {
	return &BoardService{
		projectRepo: cfg.ProjectRepo,
		userRepo:    cfg.UserRepo,
	}
}

// AddColumn appends a new empty column to the board and returns the
// created column alongside the updated project.
func (s *BoardService) AddColumn(ctx context.Context, requesterID, projectID, name string) (*model.Project, *model.Column, error) {
	if _, err := Authorize(ctx, s.projectRepo, requesterID, projectID, AnyParticipant); err != nil {
		return nil, nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil, ErrColumnNameEmpty
	}

	column := model.Column{
		ID:      uuid.NewString(),
		ColName: name,
		Tasks:   []model.Task{},
	}

	project, err := s.projectRepo.AddColumn(ctx, projectID, column)
	if err != nil {
		return nil, nil, err
	}
	return project, &column, nil
}

// EditColumn renames a column
func (s *BoardService) EditColumn(ctx context.Context, requesterID, projectID, columnID, name string) (*model.Project, error) {
	project, err := Authorize(ctx, s.projectRepo, requesterID, projectID, AnyParticipant)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrColumnNameEmpty
	}
	if project.FindColumn(columnID) == nil {
		return nil, ErrColumnNotFound
	}

	return s.projectRepo.RenameColumn(ctx, projectID, columnID, name)
}

// DeleteColumn removes a column and every task in it
func (s *BoardService) DeleteColumn(ctx context.Context, requesterID, projectID, columnID string) (*model.Project, error) {
	project, err := Authorize(ctx, s.projectRepo, requesterID, projectID, AnyParticipant)
	if err != nil {
		return nil, err
	}

	if project.FindColumn(columnID) == nil {
		return nil, ErrColumnNotFound
	}

	return s.projectRepo.RemoveColumn(ctx, projectID, columnID)
}

// AddTask appends a task to the given column and returns the created task
// alongside the updated project.
func (s *BoardService) AddTask(ctx context.Context, requesterID, projectID, columnID string, req model.CreateTaskRequest) (*model.Project, *model.Task, error) {
	project, err := Authorize(ctx, s.projectRepo, requesterID, projectID, AnyParticipant)
	if err != nil {
		return nil, nil, err
	}

	name := strings.TrimSpace(req.TaskName)
	if name == "" {
		return nil, nil, ErrTaskNameRequired
	}
	if project.FindColumn(columnID) == nil {
		return nil, nil, ErrColumnNotFound
	}

	task := model.Task{
		ID:              uuid.NewString(),
		TaskName:        name,
		TaskDescription: req.TaskDescription,
		Asignee:         []string{},
	}

	updated, err := s.projectRepo.AddTask(ctx, projectID, columnID, task)
	if err != nil {
		return nil, nil, err
	}
	return updated, &task, nil
}

// UpdateTask sets the full editable field set on a task
func (s *BoardService) UpdateTask(ctx context.Context, requesterID, projectID, taskID string, req model.UpdateTaskRequest) (*model.Project, error) {
	project, err := Authorize(ctx, s.projectRepo, requesterID, projectID, AnyParticipant)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.TaskName) == "" {
		return nil, ErrTaskNameRequired
	}
	if _, task := project.FindTask(taskID); task == nil {
		return nil, ErrTaskNotFound
	}

	return s.projectRepo.UpdateTask(ctx, projectID, taskID, req)
}

// QuickEditTask sets only the task name and description
func (s *BoardService) QuickEditTask(ctx context.Context, requesterID, projectID, taskID string, req model.QuickEditTaskRequest) (*model.Project, error) {
	project, err := Authorize(ctx, s.projectRepo, requesterID, projectID, AnyParticipant)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.TaskName) == "" {
		return nil, ErrTaskNameRequired
	}
	if _, task := project.FindTask(taskID); task == nil {
		return nil, ErrTaskNotFound
	}

	return s.projectRepo.QuickEditTask(ctx, projectID, taskID, req.TaskName, req.TaskDescription)
}

// DeleteTask removes a task from whichever column holds it
func (s *BoardService) DeleteTask(ctx context.Context, requesterID, projectID, taskID string) (*model.Project, error) {
	project, err := Authorize(ctx, s.projectRepo, requesterID, projectID, AnyParticipant)
	if err != nil {
		return nil, err
	}

	if _, task := project.FindTask(taskID); task == nil {
		return nil, ErrTaskNotFound
	}

	return s.projectRepo.RemoveTask(ctx, projectID, taskID)
}

// AssignUser assigns a user, looked up by email, to a task
func (s *BoardService) AssignUser(ctx context.Context, requesterID, projectID, taskID, email string) (*model.Project, error) {
	project, err := Authorize(ctx, s.projectRepo, requesterID, projectID, AnyParticipant)
	if err != nil {
		return nil, err
	}

	_, task := project.FindTask(taskID)
	if task == nil {
		return nil, ErrTaskNotFound
	}

	target, err := s.resolveByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	for _, id := range task.Asignee {
		if id == target.ID {
			return nil, ErrAlreadyAssigned
		}
	}

	return s.projectRepo.AssignUser(ctx, projectID, taskID, target.ID)
}

// UnassignUser removes a user, looked up by email, from a task's assignee
// list. Removing an absent assignee is a no-op.
func (s *BoardService) UnassignUser(ctx context.Context, requesterID, projectID, taskID, email string) (*model.Project, error) {
	project, err := Authorize(ctx, s.projectRepo, requesterID, projectID, AnyParticipant)
	if err != nil {
		return nil, err
	}

	if _, task := project.FindTask(taskID); task == nil {
		return nil, ErrTaskNotFound
	}

	target, err := s.resolveByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	return s.projectRepo.UnassignUser(ctx, projectID, taskID, target.ID)
}

// MoveTask moves a task into a destination column. tasks is the
// destination column's complete task list after the move, in board order;
// it must contain the moved task. The removal and the insert commit
// atomically.
func (s *BoardService) MoveTask(ctx context.Context, requesterID, projectID, taskID, columnID string, tasks []model.Task) (*model.Project, error) {
	project, err := Authorize(ctx, s.projectRepo, requesterID, projectID, AnyParticipant)
	if err != nil {
		return nil, err
	}

	if _, task := project.FindTask(taskID); task == nil {
		return nil, ErrTaskNotFound
	}
	if project.FindColumn(columnID) == nil {
		return nil, ErrColumnNotFound
	}

	found := false
	for i := range tasks {
		if tasks[i].ID == taskID {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrTaskListMismatch
	}

	if err := s.projectRepo.MoveTask(ctx, projectID, taskID, columnID, tasks); err != nil {
		return nil, err
	}

	return s.projectRepo.GetByID(ctx, projectID)
}

// ReorderColumn replaces a column's task order. The supplied list must be
// a permutation of the column's current tasks.
func (s *BoardService) ReorderColumn(ctx context.Context, requesterID, projectID, columnID string, tasks []model.Task) (*model.Project, error) {
	project, err := Authorize(ctx, s.projectRepo, requesterID, projectID, AnyParticipant)
	if err != nil {
		return nil, err
	}

	column := project.FindColumn(columnID)
	if column == nil {
		return nil, ErrColumnNotFound
	}

	if !samePermutation(column.Tasks, tasks) {
		return nil, ErrTaskListMismatch
	}

	return s.projectRepo.ReplaceColumnTasks(ctx, projectID, columnID, tasks)
}

func (s *BoardService) resolveByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, ErrUserNotFound
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// samePermutation reports whether both task lists carry exactly the same
// set of task ids.
func samePermutation(current, proposed []model.Task) bool {
	if len(current) != len(proposed) {
		return false
	}
	seen := make(map[string]int, len(current))
	for i := range current {
		seen[current[i].ID]++
	}
	for i := range proposed {
		seen[proposed[i].ID]--
		if seen[proposed[i].ID] < 0 {
			return false
		}
	}
	return true
}
