package orgs

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantkit/handler"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
	"github.com/dmitrymomot/tenantkit/svc/invitation"
)

type createInvitationRequest struct {
	Email         string        `json:"email" validate:"required,email"`
	RoleID        uuid.NullUUID `json:"role_id"`
	ExpiresInDays int           `json:"expires_in_days"`
}

type invitationPathRequest struct {
	InvitationID uuid.UUID `json:"-" path:"invitationID" validate:"required"`
}

type tokenRequest struct {
	Token string `json:"-" path:"token" validate:"required"`
}

func (m *Module) listInvitations(ctx *Context, _ struct{}) handler.Response {
	orgID, err := ctx.OrgID()
	if err != nil {
		return handler.Error(err)
	}
	list, err := m.invitations.List(ctx, orgID, ctx.UserID())
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(list)
}

func (m *Module) createInvitation(ctx *Context, req createInvitationRequest) handler.Response {
	orgID, err := ctx.OrgID()
	if err != nil {
		return handler.Error(err)
	}
	created, err := m.invitations.Create(ctx, invitation.CreateParams{
		OrgID:         orgID,
		ActorID:       ctx.UserID(),
		Email:         req.Email,
		RoleID:        req.RoleID,
		ExpiresInDays: req.ExpiresInDays,
	})
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(created, handler.WithJSONStatus(http.StatusCreated))
}

func (m *Module) revokeInvitation(ctx *Context, req invitationPathRequest) handler.Response {
	orgID, err := ctx.OrgID()
	if err != nil {
		return handler.Error(err)
	}
	if err := m.invitations.Revoke(ctx, orgID, ctx.UserID(), req.InvitationID); err != nil {
		return handler.Error(err)
	}
	return handler.Empty()
}

func (m *Module) getInvitation(ctx *Context, req tokenRequest) handler.Response {
	summary, err := m.invitations.GetByToken(ctx, req.Token)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(summary)
}

func (m *Module) acceptInvitation(ctx *Context, req tokenRequest) handler.Response {
	accepted, err := m.invitations.Accept(ctx, req.Token, ctx.UserID())
	if err != nil {
		return handler.Error(err)
	}
	tenant.SetCookie(ctx.ResponseWriter(), m.cookie, accepted.OrganizationID)
	return handler.JSON(accepted)
}

func (m *Module) rejectInvitation(ctx *Context, req tokenRequest) handler.Response {
	if err := m.invitations.Reject(ctx, req.Token); err != nil {
		return handler.Error(err)
	}
	return handler.Empty()
}
