package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/relayhq/taskboard/api/internal/model"
)

// ProjectService handles project lifecycle and membership operations
type ProjectService struct {
	projectRepo ProjectRepository
	userRepo    UserRepository
}

// ProjectServiceConfig holds configuration for the project service
type ProjectServiceConfig struct {
	ProjectRepo ProjectRepository
	UserRepo    UserRepository
}

// NewProjectService creates a new project service
func NewProjectService(cfg ProjectServiceConfig) *ProjectService {
	return &ProjectService{
		projectRepo: cfg.ProjectRepo,
		userRepo:    cfg.UserRepo,
	}
}

// Create creates a project owned by the given user. Optional seed columns
// are created empty, in the order given.
func (s *ProjectService) Create(ctx context.Context, ownerID string, req model.CreateProjectRequest) (*model.Project, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	columns := make([]model.Column, 0, len(req.Columns))
	for _, name := range req.Columns {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		columns = append(columns, model.Column{
			ID:      uuid.NewString(),
			ColName: name,
			Tasks:   []model.Task{},
		})
	}

	project := &model.Project{
		Title:       title,
		Description: req.Description,
		Published:   req.Published,
		OwnerIDs:    []string{ownerID},
		Columns:     columns,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	slog.Info("project created",
		slog.String("project_id", project.ID),
		slog.String("owner_id", ownerID))

	return project, nil
}

// ListOwned lists projects owned by the user, members resolved
func (s *ProjectService) ListOwned(ctx context.Context, ownerID string) ([]model.ProjectData, error) {
	projects, err := s.projectRepo.GetOwnedBy(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.populateAll(ctx, projects)
}

// ListInvited lists projects the user has been invited to, members resolved
func (s *ProjectService) ListInvited(ctx context.Context, userID string) ([]model.ProjectData, error) {
	projects, err := s.projectRepo.GetInvitedTo(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.populateAll(ctx, projects)
}

// Get returns a single project with members resolved. Requires the caller
// to be the owner or an invited member.
func (s *ProjectService) Get(ctx context.Context, requesterID, projectID string) (*model.ProjectData, error) {
	project, err := Authorize(ctx, s.projectRepo, requesterID, projectID, AnyParticipant)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, project)
}

// Update merges the provided top-level fields into the project. Only
// title, description and published are writable here; membership and the
// board have their own operations.
func (s *ProjectService) Update(ctx context.Context, requesterID, projectID string, req model.UpdateProjectRequest) (*model.Project, error) {
	if _, err := Authorize(ctx, s.projectRepo, requesterID, projectID, AnyParticipant); err != nil {
		return nil, err
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, ErrTitleRequired
	}

	return s.projectRepo.UpdateFields(ctx, projectID, req)
}

// Delete deletes a project. Owner only.
func (s *ProjectService) Delete(ctx context.Context, requesterID, projectID string) error {
	if _, err := Authorize(ctx, s.projectRepo, requesterID, projectID, OwnerOnly); err != nil {
		return err
	}

	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		return err
	}

	slog.Info("project deleted",
		slog.String("project_id", projectID),
		slog.String("owner_id", requesterID))
	return nil
}

// DeleteAll deletes every project. Reachable only through the admin
// surface; the handler enforces the admin token.
func (s *ProjectService) DeleteAll(ctx context.Context) error {
	if err := s.projectRepo.DeleteAll(ctx); err != nil {
		return err
	}
	slog.Warn("all projects deleted")
	return nil
}

// AddMember invites a user, looked up by email, into the project. The
// requester must be the owner or hold the project ADMIN role.
func (s *ProjectService) AddMember(ctx context.Context, requesterID, projectID, email string) (*model.Project, error) {
	project, err := Authorize(ctx, s.projectRepo, requesterID, projectID, AnyParticipant)
	if err != nil {
		return nil, err
	}
	if !canManageMembers(project, requesterID) {
		return nil, ErrNotProjectAdmin
	}

	target, err := s.resolveByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if project.IsOwner(target.ID) {
		return nil, ErrOwnerAsMember
	}
	if project.IsMember(target.ID) {
		return nil, ErrAlreadyMember
	}

	return s.projectRepo.AddMember(ctx, projectID, target.ID)
}

// RemoveMember removes a user, looked up by email, from the project. Any
// participant may remove a member, which also lets members leave a project
// themselves.
func (s *ProjectService) RemoveMember(ctx context.Context, requesterID, projectID, email string) (*model.Project, error) {
	project, err := Authorize(ctx, s.projectRepo, requesterID, projectID, AnyParticipant)
	if err != nil {
		return nil, err
	}

	target, err := s.resolveByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if !project.IsMember(target.ID) {
		return nil, ErrMemberNotFound
	}

	return s.projectRepo.RemoveMember(ctx, projectID, target.ID)
}

// ChangeMemberRole changes the project role recorded for a member
func (s *ProjectService) ChangeMemberRole(ctx context.Context, requesterID, projectID, targetUserID string, newRole model.ProjectRole) (*model.Project, error) {
	if !newRole.IsValid() {
		return nil, ErrInvalidRole
	}

	project, err := Authorize(ctx, s.projectRepo, requesterID, projectID, AnyParticipant)
	if err != nil {
		return nil, err
	}
	if !canManageMembers(project, requesterID) {
		return nil, ErrNotProjectAdmin
	}

	if project.RoleOf(targetUserID) == "" {
		return nil, ErrMemberNotFound
	}

	return s.projectRepo.SetMemberRole(ctx, projectID, targetUserID, newRole)
}

// resolveByEmail looks up a user in the directory by email
func (s *ProjectService) resolveByEmail(ctx context.Context, email string) (*model.User, error) {
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

// populate resolves a project's participant links through the user
// directory (owner first, then invited members).
func (s *ProjectService) populate(ctx context.Context, project *model.Project) (*model.ProjectData, error) {
	ids := make([]string, 0, len(project.Users)+1)
	if owner := project.Owner(); owner != "" {
		ids = append(ids, owner)
	}
	ids = append(ids, project.Users...)

	members, err := s.userRepo.ResolveMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	return &model.ProjectData{Project: *project, Members: members}, nil
}

func (s *ProjectService) populateAll(ctx context.Context, projects []model.Project) ([]model.ProjectData, error) {
	out := make([]model.ProjectData, 0, len(projects))
	for i := range projects {
		data, err := s.populate(ctx, &projects[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *data)
	}
	return out, nil
}
