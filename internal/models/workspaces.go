package models

import (
	"fmt"
	"strings"
	"time"
)

// Role is a member's permission level within a workspace.
// Permission order: owner > editor > viewer.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
	// RoleNone marks a caller with no standing in the workspace.
	RoleNone Role = ""
)

// rank gives roles their total order for permission checks.
func (r Role) rank() int {
	switch r {
	case RoleOwner:
		return 3
	case RoleEditor:
		return 2
	case RoleViewer:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether r grants everything min grants.
func (r Role) AtLeast(min Role) bool {
	return r.rank() >= min.rank()
}

// Valid reports whether r is one of the three assignable roles.
func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleEditor || r == RoleViewer
}

// ParseRole validates a role supplied by a caller.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return RoleNone, fmt.Errorf("invalid role %q", s)
	}
	return r, nil
}

// Member binds a username to a role within a workspace. The username is a
// weak reference into the user directory.
type Member struct {
	Username string    `bson:"username" json:"username"`
	Role     Role      `bson:"role" json:"role"`
	JoinedAt time.Time `bson:"joinedAt" json:"joinedAt"`
}

// SharedSchema is a named database-design document collaboratively edited
// within a workspace. Scripts is an opaque serialized payload; this service
// never interprets it.
type SharedSchema struct {
	SchemaID     string    `bson:"schemaId" json:"schemaId"`
	Name         string    `bson:"name" json:"name"`
	Scripts      string    `bson:"scripts" json:"scripts"`
	LastModified time.Time `bson:"lastModified" json:"lastModified"`
}

// Workspace is the top-level shared aggregate: identity, owner, members and
// shared schemas. The id is assigned by the caller, not the database.
type Workspace struct {
	ID            string         `bson:"id" json:"id"`
	Name          string         `bson:"name" json:"name"`
	OwnerID       string         `bson:"ownerId" json:"ownerId"`
	Members       []Member       `bson:"members" json:"members"`
	SharedSchemas []SharedSchema `bson:"sharedSchemas" json:"sharedSchemas"`
	IsActive      bool           `bson:"isActive" json:"isActive"`
	CreatedAt     time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time      `bson:"updatedAt" json:"updatedAt"`

	// Version guards read-modify-write cycles against concurrent writers.
	// It is not part of the API surface.
	Version int64 `bson:"version" json:"-"`
}

// NewWorkspace constructs a workspace with the creator as its sole owner
// member, which is the only way an owner member ever comes into existence.
func NewWorkspace(id, name, ownerID, ownerUsername string) *Workspace {
	now := time.Now().UTC()
	return &Workspace{
		ID:      id,
		Name:    name,
		OwnerID: ownerID,
		Members: []Member{{
			Username: ownerUsername,
			Role:     RoleOwner,
			JoinedAt: now,
		}},
		SharedSchemas: []SharedSchema{},
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// FindMember returns the member with the given username, matched
// case-insensitively, or nil.
func (w *Workspace) FindMember(username string) *Member {
	for i := range w.Members {
		if strings.EqualFold(w.Members[i].Username, username) {
			return &w.Members[i]
		}
	}
	return nil
}

// FindSchema returns the shared schema with the given id, or nil.
func (w *Workspace) FindSchema(schemaID string) *SharedSchema {
	for i := range w.SharedSchemas {
		if w.SharedSchemas[i].SchemaID == schemaID {
			return &w.SharedSchemas[i]
		}
	}
	return nil
}

// RemoveMember drops the member with the given username, preserving the
// order of the remaining members. It reports whether a member was removed.
func (w *Workspace) RemoveMember(username string) bool {
	for i := range w.Members {
		if strings.EqualFold(w.Members[i].Username, username) {
			w.Members = append(w.Members[:i], w.Members[i+1:]...)
			return true
		}
	}
	return false
}

// Touch refreshes the aggregate's update timestamp.
func (w *Workspace) Touch() {
	w.UpdatedAt = time.Now().UTC()
}

// Validate checks the structural invariants of the aggregate: required
// identity fields, exactly one owner member, and case-insensitive username
// uniqueness.
func (w *Workspace) Validate() error {
	if w.ID == "" {
		return fmt.Errorf("workspace id is required")
	}
	if w.Name == "" {
		return fmt.Errorf("workspace name is required")
	}
	if w.OwnerID == "" {
		return fmt.Errorf("workspace owner is required")
	}

	owners := 0
	seen := make(map[string]struct{}, len(w.Members))
	for _, m := range w.Members {
		if m.Role == RoleOwner {
			owners++
		}
		key := strings.ToLower(m.Username)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate member username %q", m.Username)
		}
		seen[key] = struct{}{}
	}
	if owners != 1 {
		return fmt.Errorf("workspace must have exactly one owner member, has %d", owners)
	}
	return nil
}
