package logics

import (
	"schemahub-server/internal/models"
	"schemahub-server/pkg/errors"
)

// Caller is the resolved identity of the authenticated principal making a
// request. Both fields come from verified token claims; an empty Caller
// never passes any gate.
type Caller struct {
	UserID   string
	Username string
}

// RoleOf derives the caller's effective role in a workspace: the listed
// member's role when the username is a member, owner when the caller's user
// id is the recorded owner, and RoleNone otherwise. A caller with no
// resolved identity always gets RoleNone.
func RoleOf(workspace *models.Workspace, caller Caller) models.Role {
	if caller.Username != "" {
		if member := workspace.FindMember(caller.Username); member != nil {
			return member.Role
		}
	}
	if caller.UserID != "" && caller.UserID == workspace.OwnerID {
		return models.RoleOwner
	}
	return models.RoleNone
}

// RequireMember fails unless the caller holds any role in the workspace.
func RequireMember(workspace *models.Workspace, caller Caller) error {
	if RoleOf(workspace, caller) == models.RoleNone {
		return errors.NewAppError(errors.ErrUnauthorized, "access denied", nil)
	}
	return nil
}

// RequireAtLeast fails unless the caller's role grants everything min grants.
func RequireAtLeast(workspace *models.Workspace, caller Caller, min models.Role) error {
	role := RoleOf(workspace, caller)
	if role == models.RoleNone || !role.AtLeast(min) {
		return errors.NewAppError(errors.ErrUnauthorized, "insufficient permissions", nil)
	}
	return nil
}

// RequireOwner fails unless the caller is the workspace owner.
func RequireOwner(workspace *models.Workspace, caller Caller) error {
	if RoleOf(workspace, caller) != models.RoleOwner {
		return errors.NewAppError(errors.ErrUnauthorized, "only workspace owners can perform this action", nil)
	}
	return nil
}
