package orgs

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantkit/handler"
	"github.com/dmitrymomot/tenantkit/svc/organization"
)

type createRoleRequest struct {
	Key         string   `json:"key" validate:"required"`
	Name        string   `json:"name" validate:"required,max=100"`
	Permissions []string `json:"permissions"`
}

type rolePathRequest struct {
	RoleID uuid.UUID `json:"-" path:"roleID" validate:"required"`
}

type renameRoleRequest struct {
	RoleID uuid.UUID `json:"-" path:"roleID" validate:"required"`
	Name   string    `json:"name" validate:"required,max=100"`
}

type setRolePermissionsRequest struct {
	RoleID      uuid.UUID `json:"-" path:"roleID" validate:"required"`
	Permissions []string  `json:"permissions"`
}

type memberRoleRequest struct {
	UserID uuid.UUID `json:"-" path:"userID" validate:"required"`
	RoleID uuid.UUID `json:"-" path:"roleID" validate:"required"`
}

func (m *Module) listRoles(ctx *Context, _ struct{}) handler.Response {
	orgID, err := ctx.OrgID()
	if err != nil {
		return handler.Error(err)
	}
	roles, err := m.orgs.ListRoles(ctx, orgID, ctx.UserID())
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(mapSlice(roles, newRoleView))
}

func (m *Module) createRole(ctx *Context, req createRoleRequest) handler.Response {
	orgID, err := ctx.OrgID()
	if err != nil {
		return handler.Error(err)
	}
	role, err := m.orgs.CreateRole(ctx, organization.CreateRoleParams{
		OrgID:       orgID,
		ActorID:     ctx.UserID(),
		Key:         req.Key,
		Name:        req.Name,
		Permissions: req.Permissions,
	})
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(newRoleView(role), handler.WithJSONStatus(http.StatusCreated))
}

func (m *Module) renameRole(ctx *Context, req renameRoleRequest) handler.Response {
	orgID, err := ctx.OrgID()
	if err != nil {
		return handler.Error(err)
	}
	if err := m.orgs.RenameRole(ctx, orgID, ctx.UserID(), req.RoleID, req.Name); err != nil {
		return handler.Error(err)
	}
	return handler.Empty()
}

func (m *Module) setRolePermissions(ctx *Context, req setRolePermissionsRequest) handler.Response {
	orgID, err := ctx.OrgID()
	if err != nil {
		return handler.Error(err)
	}
	if err := m.orgs.SetRolePermissions(ctx, orgID, ctx.UserID(), req.RoleID, req.Permissions); err != nil {
		return handler.Error(err)
	}
	return handler.Empty()
}

func (m *Module) deleteRole(ctx *Context, req rolePathRequest) handler.Response {
	orgID, err := ctx.OrgID()
	if err != nil {
		return handler.Error(err)
	}
	if err := m.orgs.DeleteRole(ctx, orgID, ctx.UserID(), req.RoleID); err != nil {
		return handler.Error(err)
	}
	return handler.Empty()
}

func (m *Module) assignRole(ctx *Context, req memberRoleRequest) handler.Response {
	orgID, err := ctx.OrgID()
	if err != nil {
		return handler.Error(err)
	}
	if err := m.orgs.AssignRole(ctx, orgID, ctx.UserID(), req.UserID, req.RoleID); err != nil {
		return handler.Error(err)
	}
	return handler.Empty()
}

func (m *Module) unassignRole(ctx *Context, req memberRoleRequest) handler.Response {
	orgID, err := ctx.OrgID()
	if err != nil {
		return handler.Error(err)
	}
	if err := m.orgs.UnassignRole(ctx, orgID, ctx.UserID(), req.UserID, req.RoleID); err != nil {
		return handler.Error(err)
	}
	return handler.Empty()
}
