package service

import (
	"context"
	"time"

	"github.com/relayhq/taskboard/api/internal/database"
	"github.com/relayhq/taskboard/api/internal/model"
)

// Mock implementations shared across the service tests

type mockUserRepo struct {
	users      map[string]*model.User
	emailIndex map[string]*model.User
	createErr  error
	getErr     error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:      make(map[string]*model.User),
		emailIndex: make(map[string]*model.User),
	}
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = "user:" + user.Email
	user.CreatedOn = time.Now()
	user.UpdatedOn = time.Now()
	m.users[user.ID] = user
	m.emailIndex[user.Email] = user
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.users[id], nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.emailIndex[email], nil
}

func (m *mockUserRepo) ResolveMany(ctx context.Context, ids []string) ([]model.UserSummary, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	summaries := make([]model.UserSummary, 0, len(ids))
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			summaries = append(summaries, model.UserSummary{
				ID:       u.ID,
				Username: u.Username,
				Email:    u.Email,
			})
		}
	}
	return summaries, nil
}

// addUser seeds the directory with a user keyed by email and returns it
func (m *mockUserRepo) addUser(email, username string) *model.User {
	user := &model.User{
		ID:       "user:" + email,
		Email:    email,
		Username: username,
		Role:     model.UserRoleUser,
	}
	m.users[user.ID] = user
	m.emailIndex[email] = user
	return user
}

// mockProjectRepo keeps project aggregates in memory and mirrors the
// nested-document update semantics of the real repository.
type mockProjectRepo struct {
	projects  map[string]*model.Project
	createErr error
	getErr    error
	moveErr   error
}

func newMockProjectRepo() *mockProjectRepo {
	return &mockProjectRepo{
		projects: make(map[string]*model.Project),
	}
}

func (m *mockProjectRepo) Create(ctx context.Context, project *model.Project) error {
	if m.createErr != nil {
		return m.createErr
	}
	if project.ID == "" {
		project.ID = "project:" + project.Title
	}
	project.CreatedOn = time.Now()
	project.UpdatedOn = time.Now()
	m.projects[project.ID] = project
	return nil
}

func (m *mockProjectRepo) GetByID(ctx context.Context, id string) (*model.Project, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	project, ok := m.projects[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return project, nil
}

func (m *mockProjectRepo) GetOwnedBy(ctx context.Context, userID string) ([]model.Project, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	var out []model.Project
	for _, p := range m.projects {
		if p.IsOwner(userID) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockProjectRepo) GetInvitedTo(ctx context.Context, userID string) ([]model.Project, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	var out []model.Project
	for _, p := range m.projects {
		if p.IsMember(userID) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockProjectRepo) UpdateFields(ctx context.Context, projectID string, req model.UpdateProjectRequest) (*model.Project, error) {
	project, err := m.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		project.Title = *req.Title
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Published != nil {
		project.Published = *req.Published
	}
	return project, nil
}

func (m *mockProjectRepo) Delete(ctx context.Context, id string) error {
	delete(m.projects, id)
	return nil
}

func (m *mockProjectRepo) DeleteAll(ctx context.Context) error {
	m.projects = make(map[string]*model.Project)
	return nil
}

func (m *mockProjectRepo) AddMember(ctx context.Context, projectID, userID string) (*model.Project, error) {
	project, err := m.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	project.Users = append(project.Users, userID)
	project.UserRoles = append(project.UserRoles, model.MemberRole{
		UserID: userID,
		Role:   model.ProjectRoleUser,
	})
	return project, nil
}

func (m *mockProjectRepo) RemoveMember(ctx context.Context, projectID, userID string) (*model.Project, error) {
	project, err := m.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	users := project.Users[:0]
	for _, id := range project.Users {
		if id != userID {
			users = append(users, id)
		}
	}
	project.Users = users
	roles := project.UserRoles[:0]
	for _, mr := range project.UserRoles {
		if mr.UserID != userID {
			roles = append(roles, mr)
		}
	}
	project.UserRoles = roles
	return project, nil
}

func (m *mockProjectRepo) SetMemberRole(ctx context.Context, projectID, userID string, role model.ProjectRole) (*model.Project, error) {
	project, err := m.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for i := range project.UserRoles {
		if project.UserRoles[i].UserID == userID {
			project.UserRoles[i].Role = role
		}
	}
	return project, nil
}

func (m *mockProjectRepo) AddColumn(ctx context.Context, projectID string, column model.Column) (*model.Project, error) {
	project, err := m.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	project.Columns = append(project.Columns, column)
	return project, nil
}

func (m *mockProjectRepo) RenameColumn(ctx context.Context, projectID, columnID, name string) (*model.Project, error) {
	project, err := m.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if col := project.FindColumn(columnID); col != nil {
		col.ColName = name
	}
	return project, nil
}

func (m *mockProjectRepo) RemoveColumn(ctx context.Context, projectID, columnID string) (*model.Project, error) {
	project, err := m.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	cols := project.Columns[:0]
	for _, c := range project.Columns {
		if c.ID != columnID {
			cols = append(cols, c)
		}
	}
	project.Columns = cols
	return project, nil
}

func (m *mockProjectRepo) AddTask(ctx context.Context, projectID, columnID string, task model.Task) (*model.Project, error) {
	project, err := m.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if col := project.FindColumn(columnID); col != nil {
		col.Tasks = append(col.Tasks, task)
	}
	return project, nil
}

func (m *mockProjectRepo) UpdateTask(ctx context.Context, projectID, taskID string, req model.UpdateTaskRequest) (*model.Project, error) {
	project, err := m.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if _, task := project.FindTask(taskID); task != nil {
		task.TaskName = req.TaskName
		task.TaskDescription = req.TaskDescription
		task.TaskTime = req.TaskTime
		task.TaskState = req.TaskState
		task.TaskPriority = req.TaskPriority
	}
	return project, nil
}

func (m *mockProjectRepo) QuickEditTask(ctx context.Context, projectID, taskID, name, description string) (*model.Project, error) {
	project, err := m.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if _, task := project.FindTask(taskID); task != nil {
		task.TaskName = name
		task.TaskDescription = description
	}
	return project, nil
}

func (m *mockProjectRepo) RemoveTask(ctx context.Context, projectID, taskID string) (*model.Project, error) {
	project, err := m.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for i := range project.Columns {
		tasks := project.Columns[i].Tasks[:0]
		for _, t := range project.Columns[i].Tasks {
			if t.ID != taskID {
				tasks = append(tasks, t)
			}
		}
		project.Columns[i].Tasks = tasks
	}
	return project, nil
}

func (m *mockProjectRepo) AssignUser(ctx context.Context, projectID, taskID, userID string) (*model.Project, error) {
	project, err := m.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if _, task := project.FindTask(taskID); task != nil {
		task.Asignee = append(task.Asignee, userID)
	}
	return project, nil
}

func (m *mockProjectRepo) UnassignUser(ctx context.Context, projectID, taskID, userID string) (*model.Project, error) {
	project, err := m.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if _, task := project.FindTask(taskID); task != nil {
		asignee := task.Asignee[:0]
		for _, id := range task.Asignee {
			if id != userID {
				asignee = append(asignee, id)
			}
		}
		task.Asignee = asignee
	}
	return project, nil
}

func (m *mockProjectRepo) MoveTask(ctx context.Context, projectID, taskID, columnID string, tasks []model.Task) error {
	if m.moveErr != nil {
		return m.moveErr
	}
	project, err := m.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	// Remove from source, then replace the destination list wholesale,
	// matching the two-statement transaction of the real repository.
	for i := range project.Columns {
		filtered := project.Columns[i].Tasks[:0]
		for _, t := range project.Columns[i].Tasks {
			if t.ID != taskID {
				filtered = append(filtered, t)
			}
		}
		project.Columns[i].Tasks = filtered
	}
	if col := project.FindColumn(columnID); col != nil {
		col.Tasks = tasks
	}
	return nil
}

func (m *mockProjectRepo) ReplaceColumnTasks(ctx context.Context, projectID, columnID string, tasks []model.Task) (*model.Project, error) {
	project, err := m.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if col := project.FindColumn(columnID); col != nil {
		col.Tasks = tasks
	}
	return project, nil
}

// addProject seeds a project owned by ownerID and returns it
func (m *mockProjectRepo) addProject(id, title, ownerID string) *model.Project {
	project := &model.Project{
		ID:        id,
		Title:     title,
		OwnerIDs:  []string{ownerID},
		Users:     []string{},
		UserRoles: []model.MemberRole{},
		Columns:   []model.Column{},
		CreatedOn: time.Now(),
		UpdatedOn: time.Now(),
	}
	m.projects[id] = project
	return project
}
