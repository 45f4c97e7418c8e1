package orgs

import (
	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantkit/handler"
	"github.com/dmitrymomot/tenantkit/internal/store"
	"github.com/dmitrymomot/tenantkit/pkg/rbac"
)

type overridePathRequest struct {
	UserID uuid.UUID `json:"-" path:"userID" validate:"required"`
	Key    string    `json:"-" path:"key" validate:"required"`
}

type setOverrideRequest struct {
	UserID uuid.UUID         `json:"-" path:"userID" validate:"required"`
	Key    string            `json:"-" path:"key" validate:"required"`
	Mode   rbac.OverrideMode `json:"mode" validate:"required"`
}

func (m *Module) listOverrides(ctx *Context, req memberPathRequest) handler.Response {
	orgID, err := ctx.OrgID()
	if err != nil {
		return handler.Error(err)
	}
	overrides, err := m.orgs.ListOverrides(ctx, orgID, ctx.UserID(), req.UserID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(mapSlice(overrides, func(o *store.Override) overrideView {
		return overrideView{Key: o.Key, Mode: o.Mode}
	}))
}

func (m *Module) setOverride(ctx *Context, req setOverrideRequest) handler.Response {
	orgID, err := ctx.OrgID()
	if err != nil {
		return handler.Error(err)
	}
	if err := m.orgs.SetOverride(ctx, orgID, ctx.UserID(), req.UserID, req.Key, req.Mode); err != nil {
		return handler.Error(err)
	}
	return handler.Empty()
}

func (m *Module) clearOverride(ctx *Context, req overridePathRequest) handler.Response {
	orgID, err := ctx.OrgID()
	if err != nil {
		return handler.Error(err)
	}
	if err := m.orgs.ClearOverride(ctx, orgID, ctx.UserID(), req.UserID, req.Key); err != nil {
		return handler.Error(err)
	}
	return handler.Empty()
}
