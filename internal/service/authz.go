package service

import (
	"context"
	"errors"

	"github.com/relayhq/taskboard/api/internal/database"
	"github.com/relayhq/taskboard/api/internal/model"
)

// RequiredRole names the standing a caller must have on a project for an
// operation to proceed.
type RequiredRole int

const (
	// OwnerOnly admits the project owner alone.
	OwnerOnly RequiredRole = iota
	// MemberOnly admits invited members but not the owner.
	MemberOnly
	// AnyParticipant admits the owner and every invited member.
	AnyParticipant
)

// ProjectRepository defines the interface for project aggregate storage
type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	GetByID(ctx context.Context, id string) (*model.Project, error)
	GetOwnedBy(ctx context.Context, userID string) ([]model.Project, error)
	GetInvitedTo(ctx context.Context, userID string) ([]model.Project, error)
	UpdateFields(ctx context.Context, projectID string, req model.UpdateProjectRequest) (*model.Project, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error

	AddMember(ctx context.Context, projectID, userID string) (*model.Project, error)
	RemoveMember(ctx context.Context, projectID, userID string) (*model.Project, error)
	SetMemberRole(ctx context.Context, projectID, userID string, role model.ProjectRole) (*model.Project, error)

	AddColumn(ctx context.Context, projectID string, column model.Column) (*model.Project, error)
	RenameColumn(ctx context.Context, projectID, columnID, name string) (*model.Project, error)
	RemoveColumn(ctx context.Context, projectID, columnID string) (*model.Project, error)

	AddTask(ctx context.Context, projectID, columnID string, task model.Task) (*model.Project, error)
	UpdateTask(ctx context.Context, projectID, taskID string, req model.UpdateTaskRequest) (*model.Project, error)
	QuickEditTask(ctx context.Context, projectID, taskID, name, description string) (*model.Project, error)
	RemoveTask(ctx context.Context, projectID, taskID string) (*model.Project, error)
	AssignUser(ctx context.Context, projectID, taskID, userID string) (*model.Project, error)
	UnassignUser(ctx context.Context, projectID, taskID, userID string) (*model.Project, error)
	MoveTask(ctx context.Context, projectID, taskID, columnID string, tasks []model.Task) error
	ReplaceColumnTasks(ctx context.Context, projectID, columnID string, tasks []model.Task) (*model.Project, error)
}

// Authorize loads a project and checks the caller's standing against the
// required role. The caller's relationship to the project is derived from
// the stored document, never from request input.
//
// Returns the loaded project on success so callers can validate against it
// without a second fetch.
func Authorize(ctx context.Context, repo ProjectRepository, userID, projectID string, required RequiredRole) (*model.Project, error) {
	project, err := repo.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	switch required {
	case OwnerOnly:
		if !project.IsOwner(userID) {
			return nil, ErrNotOwner
		}
	case MemberOnly:
		if !project.IsMember(userID) {
			return nil, ErrNotMember
		}
	case AnyParticipant:
		if !project.IsOwner(userID) && !project.IsMember(userID) {
			return nil, ErrNotParticipant
		}
	}

	return project, nil
}

// canManageMembers reports whether the caller may change project
// membership: the owner always can, and so can members holding the
// project ADMIN role.
func canManageMembers(project *model.Project, userID string) bool {
	if project.IsOwner(userID) {
		return true
	}
	return project.RoleOf(userID) == model.ProjectRoleAdmin
}
