package orgs

import (
	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantkit/handler"
	"github.com/dmitrymomot/tenantkit/internal/store"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

type memberPathRequest struct {
	UserID uuid.UUID `json:"-" path:"userID" validate:"required"`
}

type transferRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

func (m *Module) listMembers(ctx *Context, _ struct{}) handler.Response {
	orgID, err := ctx.OrgID()
	if err != nil {
		return handler.Error(err)
	}
	members, err := m.orgs.ListMembers(ctx, orgID, ctx.UserID())
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(mapSlice(members, func(mu *store.MemberWithUser) memberView {
		return memberView{UserID: mu.UserID, Email: mu.Email, IsOwner: mu.IsOwner, JoinedAt: mu.CreatedAt}
	}))
}

func (m *Module) removeMember(ctx *Context, req memberPathRequest) handler.Response {
	orgID, err := ctx.OrgID()
	if err != nil {
		return handler.Error(err)
	}
	if err := m.orgs.RemoveMember(ctx, orgID, ctx.UserID(), req.UserID); err != nil {
		return handler.Error(err)
	}
	return handler.Empty()
}

func (m *Module) leave(ctx *Context, _ struct{}) handler.Response {
	orgID, err := ctx.OrgID()
	if err != nil {
		return handler.Error(err)
	}
	if err := m.orgs.Leave(ctx, orgID, ctx.UserID()); err != nil {
		return handler.Error(err)
	}
	tenant.ClearCookie(ctx.ResponseWriter(), m.cookie)
	return handler.Empty()
}

func (m *Module) transferOwnership(ctx *Context, req transferRequest) handler.Response {
	orgID, err := ctx.OrgID()
	if err != nil {
		return handler.Error(err)
	}
	if err := m.orgs.TransferOwnership(ctx, orgID, ctx.UserID(), req.UserID); err != nil {
		return handler.Error(err)
	}
	return handler.Empty()
}
