package model

import "time"

// ProjectRole represents a member's role within a project
type ProjectRole string

const (
	ProjectRoleAdmin ProjectRole = "ADMIN" // Can manage membership
	ProjectRoleUser  ProjectRole = "USER"  // Default for invited members
)

// IsValid returns true if the role is a valid project role
func (r ProjectRole) IsValid() bool {
	return r == ProjectRoleAdmin || r == ProjectRoleUser
}

// MemberRole maps a member's user id to their project role.
// Every entry corresponds to exactly one id in Project.Users.
type MemberRole struct {
	UserID string      `json:"user_id"`
	Role   ProjectRole `json:"role"`
}

// Task is a card embedded in a column. The asignee spelling is the wire
// format inherited from existing clients.
type Task struct {
	ID              string   `json:"id"`
	TaskName        string   `json:"task_name"`
	TaskDescription string   `json:"task_description,omitempty"`
	TaskTime        string   `json:"task_time,omitempty"`
	TaskState       string   `json:"task_state,omitempty"`
	TaskPriority    string   `json:"task_priority,omitempty"`
	Asignee         []string `json:"asignee"`
}

// Column is a board column embedded in a project. Task order is board
// position within the column.
type Column struct {
	ID      string `json:"id"`
	ColName string `json:"col_name"`
	Tasks   []Task `json:"tasks"`
}

// Project is the root aggregate, persisted as a single document with its
// columns and tasks embedded. Owner is stored as a one-element array for
// compatibility with the existing document shape; use Owner() for the
// scalar view.
type Project struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Published   bool         `json:"published"`
	OwnerIDs    []string     `json:"owner"`
	Users       []string     `json:"users"`
	UserRoles   []MemberRole `json:"user_roles"`
	Columns     []Column     `json:"columns"`
	CreatedOn   time.Time    `json:"created_on"`
	UpdatedOn   time.Time    `json:"updated_on"`
}

// Owner returns the owning user id, or "" for a malformed document.
func (p *Project) Owner() string {
	if len(p.OwnerIDs) == 0 {
		return ""
	}
	return p.OwnerIDs[0]
}

// IsOwner returns true if the given user id owns the project
func (p *Project) IsOwner(userID string) bool {
	return userID != "" && p.Owner() == userID
}

// IsMember returns true if the given user id is a non-owner member
func (p *Project) IsMember(userID string) bool {
	for _, id := range p.Users {
		if id == userID {
			return true
		}
	}
	return false
}

// RoleOf returns the project role recorded for a member, or "" when the
// user has no user_roles entry. The owner has no entry; ownership is
// checked separately.
func (p *Project) RoleOf(userID string) ProjectRole {
	for _, mr := range p.UserRoles {
		if mr.UserID == userID {
			return mr.Role
		}
	}
	return ""
}

// FindColumn returns the column with the given id, or nil
func (p *Project) FindColumn(columnID string) *Column {
	for i := range p.Columns {
		if p.Columns[i].ID == columnID {
			return &p.Columns[i]
		}
	}
	return nil
}

// FindTask returns the task with the given id and its containing column,
// or (nil, nil) when absent.
func (p *Project) FindTask(taskID string) (*Column, *Task) {
	for i := range p.Columns {
		for j := range p.Columns[i].Tasks {
			if p.Columns[i].Tasks[j].ID == taskID {
				return &p.Columns[i], &p.Columns[i].Tasks[j]
			}
		}
	}
	return nil, nil
}

// ProjectData is a project with member links resolved through the user
// directory (the read-side join existing clients call "populate").
type ProjectData struct {
	Project
	Members []UserSummary `json:"members"`
}

// CreateProjectRequest represents a request to create a project
type CreateProjectRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Published   bool     `json:"published,omitempty"`
	Columns     []string `json:"columns,omitempty"` // seed column names
}

// UpdateProjectRequest represents a request to update project fields
type UpdateProjectRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Published   *bool   `json:"published,omitempty"`
}

// AddMemberRequest adds a user to a project by email
type AddMemberRequest struct {
	UserEmail string `json:"userEmail"`
}

// RemoveMemberRequest removes a user from a project by email
type RemoveMemberRequest struct {
	UserEmail string `json:"userEmail"`
}

// ChangeMemberRoleRequest changes a member's project role
type ChangeMemberRoleRequest struct {
	NewRole ProjectRole `json:"newRole"`
}

// CreateColumnRequest adds a column to a project
type CreateColumnRequest struct {
	ColName string `json:"col_name"`
}

// RenameColumnRequest renames a column
type RenameColumnRequest struct {
	ColName string `json:"col_name"`
}

// CreateTaskRequest adds a task to a column
type CreateTaskRequest struct {
	TaskName        string `json:"task_name"`
	TaskDescription string `json:"task_description,omitempty"`
}

// UpdateTaskRequest sets the full editable task field set
type UpdateTaskRequest struct {
	TaskName        string `json:"task_name"`
	TaskDescription string `json:"task_description"`
	TaskTime        string `json:"task_time"`
	TaskState       string `json:"task_state"`
	TaskPriority    string `json:"task_priority"`
}

// QuickEditTaskRequest sets only the name and description
type QuickEditTaskRequest struct {
	TaskName        string `json:"task_name"`
	TaskDescription string `json:"task_description"`
}

// AssignTaskRequest assigns or unassigns a user to a task by email
type AssignTaskRequest struct {
	UserEmail string `json:"userEmail"`
}

// MoveTaskRequest moves a task into a destination column. Tasks is the
// destination column's complete task list after the move, in board order.
type MoveTaskRequest struct {
	ColumnID string `json:"columnId"`
	Tasks    []Task `json:"tasks"`
}

// ReorderColumnRequest replaces a column's task order. Tasks must be a
// permutation of the column's current tasks.
type ReorderColumnRequest struct {
	Tasks []Task `json:"tasks"`
}
