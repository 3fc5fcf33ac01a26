package logics

import (
	"context"
	"time"

	"schemahub-server/internal/models"
	"schemahub-server/internal/repositories"
	"schemahub-server/pkg/errors"

	"go.uber.org/zap"
)

// maxUpdateRetries bounds how often a mutation re-reads and retries after
// losing an optimistic-lock race before surfacing a conflict to the caller.
const maxUpdateRetries = 3

func nowUTC() time.Time {
	return time.Now().UTC()
}

// InviteMailer delivers workspace invitation mail. Delivery is best effort;
// the invite itself never depends on it.
type InviteMailer interface {
	SendWorkspaceInvite(toEmail, toUsername, workspaceName, inviterUsername string) error
}

// WorkspaceService implements the workspace operations: each one is an
// authorize-then-mutate-then-persist unit over a single aggregate.
type WorkspaceService struct {
	workspaces repositories.WorkspaceRepository
	directory  UserDirectory
	mailer     InviteMailer
	logger     *zap.Logger
}

// NewWorkspaceService creates a new WorkspaceService. mailer may be nil when
// invitation mail is not configured.
func NewWorkspaceService(
	workspaces repositories.WorkspaceRepository,
	directory UserDirectory,
	mailer InviteMailer,
	logger *zap.Logger,
) *WorkspaceService {
	return &WorkspaceService{
		workspaces: workspaces,
		directory:  directory,
		mailer:     mailer,
		logger:     logger,
	}
}

// Create stores a new workspace with the caller as its sole owner member.
func (s *WorkspaceService) Create(ctx context.Context, id, name string, caller Caller) (*models.Workspace, error) {
	if id == "" || name == "" {
		return nil, errors.NewAppError(errors.ErrInvalidArgument, "workspace id and name are required", nil)
	}
	if caller.UserID == "" || caller.Username == "" {
		return nil, errors.NewAppError(errors.ErrUnauthenticated, "caller identity is not resolved", nil)
	}

	workspace := models.NewWorkspace(id, name, caller.UserID, caller.Username)
	if err := workspace.Validate(); err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidArgument, err.Error(), nil)
	}

	if err := s.workspaces.Insert(ctx, workspace); err != nil {
		if errors.Is(err, repositories.ErrDuplicateWorkspace) {
			return nil, errors.NewAppError(errors.ErrConflict, "workspace with this id already exists", nil)
		}
		return nil, errors.NewAppError(errors.ErrInternal, "failed to create workspace", err)
	}

	s.logger.Info("Workspace created",
		zap.String("workspace_id", id),
		zap.String("owner", caller.Username))

	return workspace, nil
}

// Get returns the full workspace aggregate to any of its members.
func (s *WorkspaceService) Get(ctx context.Context, id string, caller Caller) (*models.Workspace, error) {
	workspace, err := s.findWorkspace(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := RequireMember(workspace, caller); err != nil {
		return nil, err
	}
	return workspace, nil
}

// ListMembers returns the workspace's member list in display order.
func (s *WorkspaceService) ListMembers(ctx context.Context, id string, caller Caller) ([]models.Member, error) {
	workspace, err := s.Get(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	return workspace.Members, nil
}

// Invite appends a new member with the given role. Only owners and editors
// may invite, a member may never be invited as owner, and the target must
// resolve in the user directory.
func (s *WorkspaceService) Invite(ctx context.Context, id, targetUsername, role string, caller Caller) ([]models.Member, error) {
	if targetUsername == "" || role == "" {
		return nil, errors.NewAppError(errors.ErrInvalidArgument, "username and role are required", nil)
	}
	memberRole, err := models.ParseRole(role)
	if err != nil || memberRole == models.RoleOwner {
		return nil, errors.NewAppError(errors.ErrInvalidArgument, "role must be either editor or viewer", nil)
	}

	var (
		workspace *models.Workspace
		target    *models.User
	)
	err = s.withRetry(ctx, id, func(ws *models.Workspace) error {
		if err := RequireAtLeast(ws, caller, models.RoleEditor); err != nil {
			return err
		}

		user, err := s.directory.Lookup(ctx, targetUsername)
		if err != nil {
			return err
		}
		if user == nil {
			return errors.NewAppError(errors.ErrNotFound, "user not found", nil)
		}

		if ws.FindMember(targetUsername) != nil {
			return errors.NewAppError(errors.ErrConflict, "user is already a member of this workspace", nil)
		}

		ws.Members = append(ws.Members, models.Member{
			Username: targetUsername,
			Role:     memberRole,
			JoinedAt: nowUTC(),
		})
		ws.Touch()
		workspace = ws
		target = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Mail goes out once, after the mutation has actually persisted.
	s.sendInviteMail(target, workspace.Name, caller.Username)

	s.logger.Info("Member invited",
		zap.String("workspace_id", id),
		zap.String("username", targetUsername),
		zap.String("role", string(memberRole)),
		zap.String("invited_by", caller.Username))

	return workspace.Members, nil
}

// UpsertSchema replaces the shared schema with the given id, or appends it
// when absent. Viewers may not write schemas.
func (s *WorkspaceService) UpsertSchema(ctx context.Context, id, schemaID, name, scripts string, caller Caller) ([]models.SharedSchema, error) {
	if schemaID == "" || name == "" || scripts == "" {
		return nil, errors.NewAppError(errors.ErrInvalidArgument, "schema id, name and scripts are required", nil)
	}

	var workspace *models.Workspace
	err := s.withRetry(ctx, id, func(ws *models.Workspace) error {
		if err := RequireAtLeast(ws, caller, models.RoleEditor); err != nil {
			return err
		}

		entry := models.SharedSchema{
			SchemaID:     schemaID,
			Name:         name,
			Scripts:      scripts,
			LastModified: nowUTC(),
		}
		if existing := ws.FindSchema(schemaID); existing != nil {
			*existing = entry
		} else {
			ws.SharedSchemas = append(ws.SharedSchemas, entry)
		}
		ws.Touch()
		workspace = ws
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Shared schema upserted",
		zap.String("workspace_id", id),
		zap.String("schema_id", schemaID),
		zap.String("updated_by", caller.Username))

	return workspace.SharedSchemas, nil
}

// RemoveMember removes a member from the workspace. Only the owner may
// remove members, and the owner can never be removed.
func (s *WorkspaceService) RemoveMember(ctx context.Context, id, targetUsername string, caller Caller) ([]models.Member, error) {
	var workspace *models.Workspace
	err := s.withRetry(ctx, id, func(ws *models.Workspace) error {
		if err := RequireOwner(ws, caller); err != nil {
			return err
		}

		target := ws.FindMember(targetUsername)
		if target == nil {
			return errors.NewAppError(errors.ErrNotFound, "member not found", nil)
		}
		if target.Role == models.RoleOwner {
			return errors.NewAppError(errors.ErrInvalidArgument, "cannot remove workspace owner", nil)
		}

		ws.RemoveMember(targetUsername)
		ws.Touch()
		workspace = ws
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Member removed",
		zap.String("workspace_id", id),
		zap.String("username", targetUsername),
		zap.String("removed_by", caller.Username))

	return workspace.Members, nil
}

// findWorkspace loads the aggregate, mapping store errors to the taxonomy.
func (s *WorkspaceService) findWorkspace(ctx context.Context, id string) (*models.Workspace, error) {
	workspace, err := s.workspaces.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrWorkspaceNotFound) {
			return nil, errors.NewAppError(errors.ErrNotFound, "workspace not found", nil)
		}
		return nil, errors.NewAppError(errors.ErrInternal, "failed to load workspace", err)
	}
	return workspace, nil
}

// withRetry runs a read-modify-write cycle against the aggregate, retrying
// the whole cycle when the persist loses an optimistic-lock race. After
// maxUpdateRetries losses the conflict surfaces to the caller, who observes
// a retryable CONFLICT rather than a silently dropped update.
func (s *WorkspaceService) withRetry(ctx context.Context, id string, mutate func(*models.Workspace) error) error {
	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		workspace, err := s.findWorkspace(ctx, id)
		if err != nil {
			return err
		}

		if err := mutate(workspace); err != nil {
			return err
		}

		err = s.workspaces.Update(ctx, workspace)
		if err == nil {
			return nil
		}
		if errors.Is(err, repositories.ErrVersionConflict) {
			s.logger.Debug("Workspace update lost a write race, retrying",
				zap.String("workspace_id", id),
				zap.Int("attempt", attempt+1))
			continue
		}
		if errors.Is(err, repositories.ErrWorkspaceNotFound) {
			return errors.NewAppError(errors.ErrNotFound, "workspace not found", nil)
		}
		return errors.NewAppError(errors.ErrInternal, "failed to persist workspace", err)
	}
	return errors.NewAppError(errors.ErrConflict, "workspace was modified concurrently, please retry", nil)
}

// sendInviteMail delivers the invitation email when a mailer is configured
// and the directory knows the target's address. Failures are logged and
// never fail the invite.
func (s *WorkspaceService) sendInviteMail(user *models.User, workspaceName, inviter string) {
	if s.mailer == nil || user.Email == "" {
		return
	}
	if err := s.mailer.SendWorkspaceInvite(user.Email, user.Username, workspaceName, inviter); err != nil {
		s.logger.Warn("Failed to send invitation email",
			zap.String("username", user.Username),
			zap.Error(err))
	}
}
