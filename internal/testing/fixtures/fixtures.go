// Package fixtures provides test data factories for acceptance testing.
//
// Each factory method creates records with sensible defaults while allowing
// customization via option functions. Factories insert directly into the
// database and return the essential fields; tests read the full documents
// back through the repositories under test.
//
// Usage:
//
//	f := fixtures.New(tdb.DB)
//	owner := f.CreateUser(t)
//	project := f.CreateProject(t, owner)
package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/relayhq/taskboard/api/internal/database"
	"github.com/relayhq/taskboard/api/internal/model"
)

// Factory creates test entities in the database
type Factory struct {
	db database.Database
}

// New creates a new fixture factory
func New(db database.Database) *Factory {
	return &Factory{db: db}
}

// randomID generates a random hex ID
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// testCtx returns a context with a timeout, canceled when the test ends
func testCtx(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// UserOpts customizes user creation
type UserOpts struct {
	Email    string
	Username string
	Password string
	Role     model.UserRole
}

// CreateUser creates a user with optional customizations
func (f *Factory) CreateUser(t *testing.T, opts ...func(*UserOpts)) *model.User {
	t.Helper()

	o := &UserOpts{
		Email:    fmt.Sprintf("user_%s@test.local", randomID()),
		Username: fmt.Sprintf("user_%s", randomID()),
		Password: "testpass123",
		Role:     model.UserRoleUser,
	}
	for _, fn := range opts {
		fn(o)
	}

	// MinCost keeps fixture creation fast; these hashes never leave tests
	hash, err := bcrypt.GenerateFromPassword([]byte(o.Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("fixtures: failed to hash password: %v", err)
	}

	query := `
		CREATE user CONTENT {
			email: $email,
			username: $username,
			hash: $hash,
			role: $role,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"email":    o.Email,
		"username": o.Username,
		"hash":     string(hash),
		"role":     string(o.Role),
	}

	results, err := f.db.Query(testCtx(t), query, vars)
	if err != nil {
		t.Fatalf("fixtures: failed to create user: %v", err)
	}

	data := extractFirstResult(t, results)
	return &model.User{
		ID:       getString(data, "id"),
		Email:    getString(data, "email"),
		Username: getString(data, "username"),
		Role:     model.UserRole(getString(data, "role")),
	}
}

// CreateAdmin creates an admin user
func (f *Factory) CreateAdmin(t *testing.T) *model.User {
	return f.CreateUser(t, func(o *UserOpts) {
		o.Role = model.UserRoleAdmin
	})
}

// ProjectOpts customizes project creation
type ProjectOpts struct {
	Title       string
	Description string
	Published   bool
	ColumnNames []string
}

// CreateProject creates a project owned by the given user. Column names
// in opts become embedded columns with generated ids and no tasks.
func (f *Factory) CreateProject(t *testing.T, owner *model.User, opts ...func(*ProjectOpts)) *model.Project {
	t.Helper()

	o := &ProjectOpts{
		Title:       fmt.Sprintf("Project %s", randomID()),
		Description: "Test project",
	}
	for _, fn := range opts {
		fn(o)
	}

	columns := make([]map[string]interface{}, 0, len(o.ColumnNames))
	for _, name := range o.ColumnNames {
		columns = append(columns, map[string]interface{}{
			"id":       uuid.NewString(),
			"col_name": name,
			"tasks":    []interface{}{},
		})
	}

	query := `
		CREATE project CONTENT {
			title: $title,
			description: $description,
			published: $published,
			owner: [type::record($owner_id)],
			users: [],
			user_roles: [],
			columns: $columns,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	results, err := f.db.Query(testCtx(t), query, map[string]interface{}{
		"title":       o.Title,
		"description": o.Description,
		"published":   o.Published,
		"owner_id":    owner.ID,
		"columns":     columns,
	})
	if err != nil {
		t.Fatalf("fixtures: failed to create project: %v", err)
	}

	data := extractFirstResult(t, results)
	return &model.Project{
		ID:          getString(data, "id"),
		Title:       getString(data, "title"),
		Description: getString(data, "description"),
		OwnerIDs:    []string{owner.ID},
	}
}

// AddMember appends a user to the project's users and user_roles arrays
// with the default USER role.
func (f *Factory) AddMember(t *testing.T, project *model.Project, user *model.User) {
	t.Helper()

	query := `
		UPDATE type::record($project_id) SET
			users += type::record($user_id),
			user_roles += { user_id: type::record($user_id), role: 'USER' },
			updated_on = time::now()
	`
	if err := f.db.Execute(testCtx(t), query, map[string]interface{}{
		"project_id": project.ID,
		"user_id":    user.ID,
	}); err != nil {
		t.Fatalf("fixtures: failed to add member: %v", err)
	}
}

// AddTask appends a task to the given column and returns its generated id
func (f *Factory) AddTask(t *testing.T, project *model.Project, columnID, name string) string {
	t.Helper()

	taskID := uuid.NewString()
	query := `
		UPDATE type::record($project_id) SET
			columns = array::map(columns, |$c| IF $c.id = $column_id THEN {
				id: $c.id,
				col_name: $c.col_name,
				tasks: array::append($c.tasks, {
					id: $task_id,
					task_name: $task_name,
					asignee: []
				})
			} ELSE $c END),
			updated_on = time::now()
	`
	if err := f.db.Execute(testCtx(t), query, map[string]interface{}{
		"project_id": project.ID,
		"column_id":  columnID,
		"task_id":    taskID,
		"task_name":  name,
	}); err != nil {
		t.Fatalf("fixtures: failed to add task: %v", err)
	}
	return taskID
}

// Result parsing helpers

func extractFirstResult(t *testing.T, results []interface{}) map[string]interface{} {
	t.Helper()
	if len(results) == 0 {
		t.Fatal("fixtures: no results returned")
	}

	resp, ok := results[0].(map[string]interface{})
	if !ok {
		t.Fatalf("fixtures: unexpected result type: %T", results[0])
	}

	result, ok := resp["result"]
	if !ok {
		t.Fatal("fixtures: no result in response")
	}

	if arr, ok := result.([]interface{}); ok {
		if len(arr) == 0 {
			t.Fatal("fixtures: empty result array")
		}
		data, ok := arr[0].(map[string]interface{})
		if !ok {
			t.Fatalf("fixtures: unexpected array item type: %T", arr[0])
		}
		return data
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		t.Fatalf("fixtures: unexpected result type: %T", result)
	}
	return data
}

func getString(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	if v := data[key]; v != nil {
		// Record IDs may decode as a map with "tb" and "id" fields
		if m, ok := v.(map[string]interface{}); ok {
			if tb, ok := m["tb"].(string); ok {
				if id := m["id"]; id != nil {
					return fmt.Sprintf("%s:%v", tb, id)
				}
			}
		}
		// Fallback: "{table id}" stringification
		s := fmt.Sprintf("%v", v)
		if len(s) > 2 && s[0] == '{' && s[len(s)-1] == '}' {
			inner := s[1 : len(s)-1]
			for i, c := range inner {
				if c == ' ' {
					return inner[:i] + ":" + inner[i+1:]
				}
			}
		}
		return s
	}
	return ""
}
