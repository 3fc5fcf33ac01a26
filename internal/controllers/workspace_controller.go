package controllers

import (
	"fmt"
	"net/http"

	"schemahub-server/internal/logics"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// WorkspaceController handles the workspace HTTP surface.
type WorkspaceController struct {
	BaseController
	workspaceService *logics.WorkspaceService
}

// NewWorkspaceController creates a new WorkspaceController.
func NewWorkspaceController(workspaceService *logics.WorkspaceService, logger *zap.Logger) *WorkspaceController {
	return &WorkspaceController{
		BaseController:   NewBaseController(logger),
		workspaceService: workspaceService,
	}
}

// CreateWorkspace creates a workspace owned by the caller.
// POST /workspaces
func (wc *WorkspaceController) CreateWorkspace(c echo.Context) error {
	var input struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	caller, err := wc.GetCallerFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	workspace, err := wc.workspaceService.Create(c.Request().Context(), input.ID, input.Name, caller)
	if err != nil {
		return wc.RespondError(c, err)
	}

	return c.JSON(http.StatusCreated, workspace)
}

// GetWorkspace returns the full workspace aggregate to a member.
// GET /workspaces/:id
func (wc *WorkspaceController) GetWorkspace(c echo.Context) error {
	workspaceID := c.Param("id")
	if workspaceID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "workspace id is required"})
	}

	caller, err := wc.GetCallerFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	workspace, err := wc.workspaceService.Get(c.Request().Context(), workspaceID, caller)
	if err != nil {
		return wc.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, workspace)
}

// InviteMember adds a user to the workspace with the requested role.
// POST /workspaces/:id/invite
func (wc *WorkspaceController) InviteMember(c echo.Context) error {
	workspaceID := c.Param("id")

	var input struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	caller, err := wc.GetCallerFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	members, err := wc.workspaceService.Invite(c.Request().Context(), workspaceID, input.Username, input.Role, caller)
	if err != nil {
		return wc.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("%s has been invited to the workspace", input.Username),
		"members": members,
	})
}

// ListMembers returns the workspace's member list.
// GET /workspaces/:id/members
func (wc *WorkspaceController) ListMembers(c echo.Context) error {
	workspaceID := c.Param("id")

	caller, err := wc.GetCallerFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	members, err := wc.workspaceService.ListMembers(c.Request().Context(), workspaceID, caller)
	if err != nil {
		return wc.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"members": members,
	})
}

// UpsertSchema updates a shared schema in place or appends it.
// PUT /workspaces/:id/schemas
func (wc *WorkspaceController) UpsertSchema(c echo.Context) error {
	workspaceID := c.Param("id")

	var input struct {
		SchemaID string `json:"schemaId"`
		Name     string `json:"name"`
		Scripts  string `json:"scripts"`
	}
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	caller, err := wc.GetCallerFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	schemas, err := wc.workspaceService.UpsertSchema(c.Request().Context(), workspaceID, input.SchemaID, input.Name, input.Scripts, caller)
	if err != nil {
		return wc.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":       true,
		"message":       "Schema updated successfully",
		"sharedSchemas": schemas,
	})
}

// RemoveMember removes a member from the workspace.
// DELETE /workspaces/:id/members/:username
func (wc *WorkspaceController) RemoveMember(c echo.Context) error {
	workspaceID := c.Param("id")
	username := c.Param("username")

	caller, err := wc.GetCallerFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	members, err := wc.workspaceService.RemoveMember(c.Request().Context(), workspaceID, username, caller)
	if err != nil {
		return wc.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("%s has been removed from the workspace", username),
		"members": members,
	})
}
