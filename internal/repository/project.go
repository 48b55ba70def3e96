package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/relayhq/taskboard/api/internal/database"
	"github.com/relayhq/taskboard/api/internal/model"
)

// ProjectRepository handles project aggregate data access. Columns and
// tasks are embedded in the project document, so every board mutation is a
// single UPDATE against type::record($id) and cannot touch other projects.
//
// Mutators return the project as it stands after the statement (SurrealDB
// UPDATE returns the record after the change by default).
type ProjectRepository struct {
	db database.Database
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db database.Database) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create creates a new project document. The caller seeds owner, columns
// and flags on the model; timestamps are set by the database.
func (r *ProjectRepository) Create(ctx context.Context, project *model.Project) error {
	columns, err := toPlain(project.Columns)
	if err != nil {
		return err
	}

	query := `
		CREATE project CONTENT {
			title: $title,
			description: $description,
			published: $published,
			owner: [type::record($owner)],
			users: [],
			user_roles: [],
			columns: $columns,
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"title":       project.Title,
		"description": project.Description,
		"published":   project.Published,
		"owner":       project.Owner(),
		"columns":     columns,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return err
	}

	created, err := parseProjectResult(result)
	if err != nil {
		return err
	}

	*project = *created
	return nil
}

// GetByID retrieves a project by record ID
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*model.Project, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseProjectResult(result)
}

// GetOwnedBy lists projects owned by the given user, newest first
func (r *ProjectRepository) GetOwnedBy(ctx context.Context, userID string) ([]model.Project, error) {
	query := `SELECT * FROM project WHERE type::record($user_id) IN owner ORDER BY created_on DESC`
	vars := map[string]interface{}{"user_id": userID}

	return r.queryProjects(ctx, query, vars)
}

// GetInvitedTo lists projects where the given user is a member, newest first
func (r *ProjectRepository) GetInvitedTo(ctx context.Context, userID string) ([]model.Project, error) {
	query := `SELECT * FROM project WHERE type::record($user_id) IN users ORDER BY created_on DESC`
	vars := map[string]interface{}{"user_id": userID}

	return r.queryProjects(ctx, query, vars)
}

// UpdateFields updates the provided top-level project fields
func (r *ProjectRepository) UpdateFields(ctx context.Context, projectID string, req model.UpdateProjectRequest) (*model.Project, error) {
	sets := make([]string, 0, 4)
	vars := map[string]interface{}{"id": projectID}

	if req.Title != nil {
		sets = append(sets, "title = $title")
		vars["title"] = *req.Title
	}
	if req.Description != nil {
		sets = append(sets, "description = $description")
		vars["description"] = *req.Description
	}
	if req.Published != nil {
		sets = append(sets, "published = $published")
		vars["published"] = *req.Published
	}
	sets = append(sets, "updated_on = time::now()")

	query := "UPDATE type::record($id) SET " + strings.Join(sets, ", ")
	return r.mutate(ctx, query, vars)
}

// Delete deletes a project
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE type::record($id)`
	vars := map[string]interface{}{"id": id}

	return r.db.Execute(ctx, query, vars)
}

// DeleteAll deletes every project document
func (r *ProjectRepository) DeleteAll(ctx context.Context) error {
	return r.db.Execute(ctx, `DELETE project`, nil)
}

// AddMember adds a user to the project's member list with the USER role
func (r *ProjectRepository) AddMember(ctx context.Context, projectID, userID string) (*model.Project, error) {
	query := `
		UPDATE type::record($id) SET
			users += type::record($user_id),
			user_roles += { user_id: type::record($user_id), role: 'USER' },
			updated_on = time::now()
	`
	vars := map[string]interface{}{
		"id":      projectID,
		"user_id": userID,
	}

	return r.mutate(ctx, query, vars)
}

// RemoveMember removes a user from the member list and drops their role entry
func (r *ProjectRepository) RemoveMember(ctx context.Context, projectID, userID string) (*model.Project, error) {
	query := `
		UPDATE type::record($id) SET
			users -= type::record($user_id),
			user_roles = array::filter(user_roles, |$r| $r.user_id != type::record($user_id)),
			updated_on = time::now()
	`
	vars := map[string]interface{}{
		"id":      projectID,
		"user_id": userID,
	}

	return r.mutate(ctx, query, vars)
}

// SetMemberRole changes the project role recorded for a member
func (r *ProjectRepository) SetMemberRole(ctx context.Context, projectID, userID string, role model.ProjectRole) (*model.Project, error) {
	query := `
		UPDATE type::record($id) SET
			user_roles = array::map(user_roles, |$r|
				IF $r.user_id = type::record($user_id)
				THEN { user_id: $r.user_id, role: $role }
				ELSE $r END),
			updated_on = time::now()
	`
	vars := map[string]interface{}{
		"id":      projectID,
		"user_id": userID,
		"role":    string(role),
	}

	return r.mutate(ctx, query, vars)
}

// AddColumn appends a column to the board
func (r *ProjectRepository) AddColumn(ctx context.Context, projectID string, column model.Column) (*model.Project, error) {
	col, err := toPlain(column)
	if err != nil {
		return nil, err
	}

	query := `UPDATE type::record($id) SET columns += $column, updated_on = time::now()`
	vars := map[string]interface{}{
		"id":     projectID,
		"column": col,
	}

	return r.mutate(ctx, query, vars)
}

// RenameColumn renames a column in place, preserving its tasks
func (r *ProjectRepository) RenameColumn(ctx context.Context, projectID, columnID, name string) (*model.Project, error) {
	query := `
		UPDATE type::record($id) SET
			columns = array::map(columns, |$c|
				IF $c.id = $column_id
				THEN { id: $c.id, col_name: $col_name, tasks: $c.tasks }
				ELSE $c END),
			updated_on = time::now()
	`
	vars := map[string]interface{}{
		"id":        projectID,
		"column_id": columnID,
		"col_name":  name,
	}

	return r.mutate(ctx, query, vars)
}

// RemoveColumn removes a column and the tasks embedded in it
func (r *ProjectRepository) RemoveColumn(ctx context.Context, projectID, columnID string) (*model.Project, error) {
	query := `
		UPDATE type::record($id) SET
			columns = array::filter(columns, |$c| $c.id != $column_id),
			updated_on = time::now()
	`
	vars := map[string]interface{}{
		"id":        projectID,
		"column_id": columnID,
	}

	return r.mutate(ctx, query, vars)
}

// AddTask appends a task to the given column
func (r *ProjectRepository) AddTask(ctx context.Context, projectID, columnID string, task model.Task) (*model.Project, error) {
	t, err := toPlain(task)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE type::record($id) SET
			columns = array::map(columns, |$c|
				IF $c.id = $column_id
				THEN { id: $c.id, col_name: $c.col_name, tasks: array::append($c.tasks, $task) }
				ELSE $c END),
			updated_on = time::now()
	`
	vars := map[string]interface{}{
		"id":        projectID,
		"column_id": columnID,
		"task":      t,
	}

	return r.mutate(ctx, query, vars)
}

// UpdateTask sets the full editable field set on a task, wherever it sits
func (r *ProjectRepository) UpdateTask(ctx context.Context, projectID, taskID string, req model.UpdateTaskRequest) (*model.Project, error) {
	query := `
		UPDATE type::record($id) SET
			columns = array::map(columns, |$c| {
				id: $c.id,
				col_name: $c.col_name,
				tasks: array::map($c.tasks, |$t|
					IF $t.id = $task_id
					THEN {
						id: $t.id,
						task_name: $task_name,
						task_description: $task_description,
						task_time: $task_time,
						task_state: $task_state,
						task_priority: $task_priority,
						asignee: $t.asignee
					}
					ELSE $t END)
			}),
			updated_on = time::now()
	`
	vars := map[string]interface{}{
		"id":               projectID,
		"task_id":          taskID,
		"task_name":        req.TaskName,
		"task_description": req.TaskDescription,
		"task_time":        req.TaskTime,
		"task_state":       req.TaskState,
		"task_priority":    req.TaskPriority,
	}

	return r.mutate(ctx, query, vars)
}

// QuickEditTask sets only the task name and description
func (r *ProjectRepository) QuickEditTask(ctx context.Context, projectID, taskID, name, description string) (*model.Project, error) {
	query := `
		UPDATE type::record($id) SET
			columns = array::map(columns, |$c| {
				id: $c.id,
				col_name: $c.col_name,
				tasks: array::map($c.tasks, |$t|
					IF $t.id = $task_id
					THEN {
						id: $t.id,
						task_name: $task_name,
						task_description: $task_description,
						task_time: $t.task_time,
						task_state: $t.task_state,
						task_priority: $t.task_priority,
						asignee: $t.asignee
					}
					ELSE $t END)
			}),
			updated_on = time::now()
	`
	vars := map[string]interface{}{
		"id":               projectID,
		"task_id":          taskID,
		"task_name":        name,
		"task_description": description,
	}

	return r.mutate(ctx, query, vars)
}

// RemoveTask deletes a task from whichever column holds it
func (r *ProjectRepository) RemoveTask(ctx context.Context, projectID, taskID string) (*model.Project, error) {
	query := `
		UPDATE type::record($id) SET
			columns = array::map(columns, |$c| {
				id: $c.id,
				col_name: $c.col_name,
				tasks: array::filter($c.tasks, |$t| $t.id != $task_id)
			}),
			updated_on = time::now()
	`
	vars := map[string]interface{}{
		"id":      projectID,
		"task_id": taskID,
	}

	return r.mutate(ctx, query, vars)
}

// AssignUser appends a user ID to a task's assignee list
func (r *ProjectRepository) AssignUser(ctx context.Context, projectID, taskID, userID string) (*model.Project, error) {
	query := `
		UPDATE type::record($id) SET
			columns = array::map(columns, |$c| {
				id: $c.id,
				col_name: $c.col_name,
				tasks: array::map($c.tasks, |$t|
					IF $t.id = $task_id
					THEN {
						id: $t.id,
						task_name: $t.task_name,
						task_description: $t.task_description,
						task_time: $t.task_time,
						task_state: $t.task_state,
						task_priority: $t.task_priority,
						asignee: array::append($t.asignee, $user_id)
					}
					ELSE $t END)
			}),
			updated_on = time::now()
	`
	vars := map[string]interface{}{
		"id":      projectID,
		"task_id": taskID,
		"user_id": userID,
	}

	return r.mutate(ctx, query, vars)
}

// UnassignUser removes a user ID from a task's assignee list
func (r *ProjectRepository) UnassignUser(ctx context.Context, projectID, taskID, userID string) (*model.Project, error) {
	query := `
		UPDATE type::record($id) SET
			columns = array::map(columns, |$c| {
				id: $c.id,
				col_name: $c.col_name,
				tasks: array::map($c.tasks, |$t|
					IF $t.id = $task_id
					THEN {
						id: $t.id,
						task_name: $t.task_name,
						task_description: $t.task_description,
						task_time: $t.task_time,
						task_state: $t.task_state,
						task_priority: $t.task_priority,
						asignee: array::filter($t.asignee, |$a| $a != $user_id)
					}
					ELSE $t END)
			}),
			updated_on = time::now()
	`
	vars := map[string]interface{}{
		"id":      projectID,
		"task_id": taskID,
		"user_id": userID,
	}

	return r.mutate(ctx, query, vars)
}

// MoveTask moves a task into a destination column. The removal from the
// source column and the rewrite of the destination's task list run in one
// transaction, so the task is never duplicated or dropped partway.
//
// tasks is the destination column's complete task list after the move, in
// board order; the caller validates it before handing it down.
func (r *ProjectRepository) MoveTask(ctx context.Context, projectID, taskID, columnID string, tasks []model.Task) error {
	plain, err := toPlain(tasks)
	if err != nil {
		return err
	}

	batch := database.NewAtomicBatch()
	batch.Add(`
		UPDATE type::record($id) SET
			columns = array::map(columns, |$c| {
				id: $c.id,
				col_name: $c.col_name,
				tasks: array::filter($c.tasks, |$t| $t.id != $task_id)
			})
	`, map[string]interface{}{
		"id":      projectID,
		"task_id": taskID,
	})
	batch.Add(`
		UPDATE type::record($id) SET
			columns = array::map(columns, |$c|
				IF $c.id = $column_id
				THEN { id: $c.id, col_name: $c.col_name, tasks: $tasks }
				ELSE $c END),
			updated_on = time::now()
	`, map[string]interface{}{
		"id":        projectID,
		"column_id": columnID,
		"tasks":     plain,
	})

	return batch.Execute(ctx, r.db)
}

// ReplaceColumnTasks overwrites a column's task list, used for reordering
func (r *ProjectRepository) ReplaceColumnTasks(ctx context.Context, projectID, columnID string, tasks []model.Task) (*model.Project, error) {
	plain, err := toPlain(tasks)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE type::record($id) SET
			columns = array::map(columns, |$c|
				IF $c.id = $column_id
				THEN { id: $c.id, col_name: $c.col_name, tasks: $tasks }
				ELSE $c END),
			updated_on = time::now()
	`
	vars := map[string]interface{}{
		"id":        projectID,
		"column_id": columnID,
		"tasks":     plain,
	}

	return r.mutate(ctx, query, vars)
}

// mutate runs an UPDATE and parses the returned record
func (r *ProjectRepository) mutate(ctx context.Context, query string, vars map[string]interface{}) (*model.Project, error) {
	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	return parseProjectResult(result)
}

func (r *ProjectRepository) queryProjects(ctx context.Context, query string, vars map[string]interface{}) ([]model.Project, error) {
	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	rows := unwrapQueryRows(results)
	projects := make([]model.Project, 0, len(rows))
	for _, row := range rows {
		project, err := parseProjectResult(row)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				continue
			}
			return nil, err
		}
		projects = append(projects, *project)
	}
	return projects, nil
}

func parseProjectResult(result interface{}) (*model.Project, error) {
	if result == nil {
		return nil, database.ErrNotFound
	}

	// Navigate through SurrealDB response structure
	if resp, ok := result.(map[string]interface{}); ok {
		if status, ok := resp["status"].(string); ok && status == "OK" {
			if resultData, ok := resp["result"].([]interface{}); ok {
				if len(resultData) == 0 {
					return nil, database.ErrNotFound
				}
				result = resultData[0]
			}
		}
	}

	if arr, ok := result.([]interface{}); ok {
		if len(arr) == 0 {
			return nil, database.ErrNotFound
		}
		result = arr[0]
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	// Record links and datetimes come back as driver types; flatten them
	// to strings so the JSON round-trip into the model parses cleanly.
	if id, ok := data["id"]; ok {
		data["id"] = convertSurrealID(id)
	}
	if owner, ok := data["owner"]; ok {
		data["owner"] = convertIDSlice(owner)
	}
	if users, ok := data["users"]; ok {
		data["users"] = convertIDSlice(users)
	}
	if roles, ok := data["user_roles"].([]interface{}); ok {
		for _, entry := range roles {
			if m, ok := entry.(map[string]interface{}); ok {
				m["user_id"] = convertSurrealID(m["user_id"])
			}
		}
	}
	data["created_on"] = normalizeTime(data["created_on"])
	data["updated_on"] = normalizeTime(data["updated_on"])

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var project model.Project
	if err := json.Unmarshal(jsonBytes, &project); err != nil {
		return nil, err
	}

	if project.OwnerIDs == nil {
		project.OwnerIDs = []string{}
	}
	if project.Users == nil {
		project.Users = []string{}
	}
	if project.UserRoles == nil {
		project.UserRoles = []model.MemberRole{}
	}
	if project.Columns == nil {
		project.Columns = []model.Column{}
	}

	return &project, nil
}
