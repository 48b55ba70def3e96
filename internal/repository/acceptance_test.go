// Acceptance tests for the repositories, run against a real SurrealDB
// instance to validate actual query behavior including the unique email
// index and nested-document updates.
//
// To run:
//  1. Start SurrealDB: surreal start memory -A --user root --pass root
//  2. TEST_DB_HOST=localhost go test ./internal/repository/...
//
// Without TEST_DB_HOST set these tests are skipped.
package repository_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relayhq/taskboard/api/internal/database"
	"github.com/relayhq/taskboard/api/internal/model"
	"github.com/relayhq/taskboard/api/internal/repository"
	"github.com/relayhq/taskboard/api/internal/testing/fixtures"
	"github.com/relayhq/taskboard/api/internal/testing/helpers"
	"github.com/relayhq/taskboard/api/internal/testing/testdb"
)

func TestUserRepository_CreateAndLookup(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	repo := repository.NewUserRepository(tdb.DB)

	hash := "$2a$04$notarealhashbutgoodenough"
	user := &model.User{
		Email:    "alice@test.local",
		Username: "alice",
		Hash:     &hash,
	}

	err := repo.Create(tdb.Ctx(), user)
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	assert.Equal(t, model.UserRoleUser, user.Role)
	assert.False(t, user.CreatedOn.IsZero())

	helpers.AssertRecordExists(t, tdb.DB, "user", user.ID)

	byEmail, err := repo.GetByEmail(tdb.Ctx(), "alice@test.local")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, user.ID, byEmail.ID)
	require.NotNil(t, byEmail.Hash)
	assert.Equal(t, hash, *byEmail.Hash)

	byID, err := repo.GetByID(tdb.Ctx(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "alice", byID.Username)

	missing, err := repo.GetByEmail(tdb.Ctx(), "nobody@test.local")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	repo := repository.NewUserRepository(tdb.DB)
	f := fixtures.New(tdb.DB)

	existing := f.CreateUser(t)

	err := repo.Create(tdb.Ctx(), &model.User{
		Email:    existing.Email,
		Username: "impostor",
	})
	require.ErrorIs(t, err, database.ErrDuplicate)
}

func TestUserRepository_ResolveMany(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	repo := repository.NewUserRepository(tdb.DB)
	f := fixtures.New(tdb.DB)

	a := f.CreateUser(t)
	b := f.CreateUser(t)

	summaries, err := repo.ResolveMany(tdb.Ctx(), []string{a.ID, b.ID, "user:does_not_exist"})
	require.NoError(t, err)

	// Unknown ids are skipped, known ids resolve to directory summaries
	require.Len(t, summaries, 2)
	emails := []string{summaries[0].Email, summaries[1].Email}
	assert.Contains(t, emails, a.Email)
	assert.Contains(t, emails, b.Email)
}

func TestProjectRepository_CreateShape(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	repo := repository.NewProjectRepository(tdb.DB)
	f := fixtures.New(tdb.DB)

	owner := f.CreateUser(t)

	project := &model.Project{
		Title:    "Roadmap",
		OwnerIDs: []string{owner.ID},
		Columns: []model.Column{
			{ID: "c1", ColName: "Todo", Tasks: []model.Task{}},
		},
	}
	err := repo.Create(tdb.Ctx(), project)
	require.NoError(t, err)
	require.NotEmpty(t, project.ID)

	got, err := repo.GetByID(tdb.Ctx(), project.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{owner.ID}, got.OwnerIDs)
	assert.Empty(t, got.Users)
	assert.Empty(t, got.UserRoles)
	require.Len(t, got.Columns, 1)
	assert.Equal(t, "Todo", got.Columns[0].ColName)
	assert.False(t, got.CreatedOn.IsZero())
}

func TestProjectRepository_OwnedAndInvitedListing(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	repo := repository.NewProjectRepository(tdb.DB)
	f := fixtures.New(tdb.DB)

	owner := f.CreateUser(t)
	member := f.CreateUser(t)

	p1 := f.CreateProject(t, owner)
	f.CreateProject(t, owner)
	f.AddMember(t, p1, member)

	owned, err := repo.GetOwnedBy(tdb.Ctx(), owner.ID)
	require.NoError(t, err)
	assert.Len(t, owned, 2)

	invited, err := repo.GetInvitedTo(tdb.Ctx(), member.ID)
	require.NoError(t, err)
	require.Len(t, invited, 1)
	assert.Equal(t, p1.ID, invited[0].ID)

	// Membership queries never leak other users' projects
	none, err := repo.GetInvitedTo(tdb.Ctx(), owner.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestProjectRepository_UpdateFields(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	repo := repository.NewProjectRepository(tdb.DB)
	f := fixtures.New(tdb.DB)

	owner := f.CreateUser(t)
	project := f.CreateProject(t, owner)

	got, err := repo.UpdateFields(tdb.Ctx(), project.ID, model.UpdateProjectRequest{
		Title:     helpers.StringPtr("Renamed"),
		Published: helpers.BoolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.True(t, got.Published)
	// Untouched fields survive a partial update
	assert.Equal(t, "Test project", got.Description)
}

func TestProjectRepository_MembershipMutations(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	repo := repository.NewProjectRepository(tdb.DB)
	f := fixtures.New(tdb.DB)

	owner := f.CreateUser(t)
	member := f.CreateUser(t)
	project := f.CreateProject(t, owner)

	got, err := repo.AddMember(tdb.Ctx(), project.ID, member.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{member.ID}, got.Users)
	require.Len(t, got.UserRoles, 1)
	assert.Equal(t, member.ID, got.UserRoles[0].UserID)
	assert.Equal(t, model.ProjectRoleUser, got.UserRoles[0].Role)

	got, err = repo.SetMemberRole(tdb.Ctx(), project.ID, member.ID, model.ProjectRoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, model.ProjectRoleAdmin, got.RoleOf(member.ID))

	// Removal drops the user from both arrays in one statement
	got, err = repo.RemoveMember(tdb.Ctx(), project.ID, member.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Users)
	assert.Empty(t, got.UserRoles)
}

func TestProjectRepository_ColumnMutations(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	repo := repository.NewProjectRepository(tdb.DB)
	f := fixtures.New(tdb.DB)

	owner := f.CreateUser(t)
	project := f.CreateProject(t, owner, func(o *fixtures.ProjectOpts) {
		o.ColumnNames = []string{"Todo"}
	})

	got, err := repo.AddColumn(tdb.Ctx(), project.ID, model.Column{
		ID:      "col-done",
		ColName: "Done",
		Tasks:   []model.Task{},
	})
	require.NoError(t, err)
	require.Len(t, got.Columns, 2)

	todoID := got.Columns[0].ID
	taskID := f.AddTask(t, project, todoID, "write tests")

	// Rename preserves the column's tasks
	got, err = repo.RenameColumn(tdb.Ctx(), project.ID, todoID, "Backlog")
	require.NoError(t, err)
	assert.Equal(t, "Backlog", got.Columns[0].ColName)
	require.Len(t, got.Columns[0].Tasks, 1)
	assert.Equal(t, taskID, got.Columns[0].Tasks[0].ID)

	// Removing the column removes its tasks with it
	got, err = repo.RemoveColumn(tdb.Ctx(), project.ID, todoID)
	require.NoError(t, err)
	require.Len(t, got.Columns, 1)
	_, task := got.FindTask(taskID)
	assert.Nil(t, task)
}

func TestProjectRepository_TaskMutations(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	repo := repository.NewProjectRepository(tdb.DB)
	f := fixtures.New(tdb.DB)

	owner := f.CreateUser(t)
	assignee := f.CreateUser(t)
	project := f.CreateProject(t, owner, func(o *fixtures.ProjectOpts) {
		o.ColumnNames = []string{"Todo"}
	})

	loaded, err := repo.GetByID(tdb.Ctx(), project.ID)
	require.NoError(t, err)
	columnID := loaded.Columns[0].ID

	got, err := repo.AddTask(tdb.Ctx(), project.ID, columnID, model.Task{
		ID:       "t1",
		TaskName: "ship it",
		Asignee:  []string{},
	})
	require.NoError(t, err)
	require.Len(t, got.Columns[0].Tasks, 1)

	got, err = repo.UpdateTask(tdb.Ctx(), project.ID, "t1", model.UpdateTaskRequest{
		TaskName:     "ship it soon",
		TaskState:    "in_progress",
		TaskPriority: "high",
	})
	require.NoError(t, err)
	_, task := got.FindTask("t1")
	require.NotNil(t, task)
	assert.Equal(t, "ship it soon", task.TaskName)
	assert.Equal(t, "in_progress", task.TaskState)

	got, err = repo.AssignUser(tdb.Ctx(), project.ID, "t1", assignee.ID)
	require.NoError(t, err)
	_, task = got.FindTask("t1")
	assert.Equal(t, []string{assignee.ID}, task.Asignee)

	got, err = repo.UnassignUser(tdb.Ctx(), project.ID, "t1", assignee.ID)
	require.NoError(t, err)
	_, task = got.FindTask("t1")
	assert.Empty(t, task.Asignee)

	got, err = repo.RemoveTask(tdb.Ctx(), project.ID, "t1")
	require.NoError(t, err)
	assert.Empty(t, got.Columns[0].Tasks)
}

func TestProjectRepository_MoveTask(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	repo := repository.NewProjectRepository(tdb.DB)
	f := fixtures.New(tdb.DB)

	owner := f.CreateUser(t)
	project := f.CreateProject(t, owner, func(o *fixtures.ProjectOpts) {
		o.ColumnNames = []string{"A", "B"}
	})

	loaded, err := repo.GetByID(tdb.Ctx(), project.ID)
	require.NoError(t, err)
	colA, colB := loaded.Columns[0].ID, loaded.Columns[1].ID

	t1 := f.AddTask(t, project, colA, "first")
	t2 := f.AddTask(t, project, colA, "second")

	// Move t1 from A into empty B
	err = repo.MoveTask(tdb.Ctx(), project.ID, t1, colB, []model.Task{
		{ID: t1, TaskName: "first", Asignee: []string{}},
	})
	require.NoError(t, err)

	got, err := repo.GetByID(tdb.Ctx(), project.ID)
	require.NoError(t, err)

	require.Len(t, got.Columns[0].Tasks, 1)
	assert.Equal(t, t2, got.Columns[0].Tasks[0].ID)
	require.Len(t, got.Columns[1].Tasks, 1)
	assert.Equal(t, t1, got.Columns[1].Tasks[0].ID)
}

func TestProjectRepository_ReplaceColumnTasks(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	repo := repository.NewProjectRepository(tdb.DB)
	f := fixtures.New(tdb.DB)

	owner := f.CreateUser(t)
	project := f.CreateProject(t, owner, func(o *fixtures.ProjectOpts) {
		o.ColumnNames = []string{"Todo"}
	})

	loaded, err := repo.GetByID(tdb.Ctx(), project.ID)
	require.NoError(t, err)
	columnID := loaded.Columns[0].ID

	t1 := f.AddTask(t, project, columnID, "first")
	t2 := f.AddTask(t, project, columnID, "second")

	got, err := repo.ReplaceColumnTasks(tdb.Ctx(), project.ID, columnID, []model.Task{
		{ID: t2, TaskName: "second", Asignee: []string{}},
		{ID: t1, TaskName: "first", Asignee: []string{}},
	})
	require.NoError(t, err)

	require.Len(t, got.Columns[0].Tasks, 2)
	assert.Equal(t, t2, got.Columns[0].Tasks[0].ID)
	assert.Equal(t, t1, got.Columns[0].Tasks[1].ID)
}

func TestProjectRepository_Delete(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	repo := repository.NewProjectRepository(tdb.DB)
	f := fixtures.New(tdb.DB)

	owner := f.CreateUser(t)
	project := f.CreateProject(t, owner)

	err := repo.Delete(tdb.Ctx(), project.ID)
	require.NoError(t, err)

	helpers.AssertRecordNotExists(t, tdb.DB, "project", project.ID)

	_, err = repo.GetByID(tdb.Ctx(), project.ID)
	require.ErrorIs(t, err, database.ErrNotFound)
}
