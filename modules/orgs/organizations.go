package orgs

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantkit/handler"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
	"github.com/dmitrymomot/tenantkit/svc/organization"
)

type createOrganizationRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	Slug string `json:"slug" validate:"omitempty,max=63"`
}

type orgPathRequest struct {
	OrgID uuid.UUID `json:"-" path:"orgID" validate:"required"`
}

func (m *Module) listOrganizations(ctx *Context, _ struct{}) handler.Response {
	orgs, err := m.orgs.ListForUser(ctx, ctx.UserID())
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(mapSlice(orgs, newOrganizationView))
}

func (m *Module) createOrganization(ctx *Context, req createOrganizationRequest) handler.Response {
	org, err := m.orgs.Create(ctx, organization.CreateParams{
		UserID: ctx.UserID(),
		Name:   req.Name,
		Slug:   req.Slug,
	})
	if err != nil {
		return handler.Error(err)
	}
	tenant.SetCookie(ctx.ResponseWriter(), m.cookie, org.ID)
	return handler.JSON(newOrganizationView(org), handler.WithJSONStatus(http.StatusCreated))
}

func (m *Module) getOrganization(ctx *Context, req orgPathRequest) handler.Response {
	org, err := m.orgs.Get(ctx, req.OrgID, ctx.UserID())
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(newOrganizationView(org))
}

func (m *Module) currentOrganization(ctx *Context, _ struct{}) handler.Response {
	orgID, err := ctx.OrgID()
	if err != nil {
		return handler.Error(err)
	}
	return m.getOrganization(ctx, orgPathRequest{OrgID: orgID})
}

func (m *Module) switchOrganization(ctx *Context, req orgPathRequest) handler.Response {
	if err := m.orgs.SwitchActive(ctx, ctx.UserID(), req.OrgID); err != nil {
		return handler.Error(err)
	}
	tenant.SetCookie(ctx.ResponseWriter(), m.cookie, req.OrgID)
	return handler.Empty()
}

func (m *Module) abilities(ctx *Context, _ struct{}) handler.Response {
	orgID, err := ctx.OrgID()
	if err != nil {
		return handler.Error(err)
	}
	keys, err := m.orgs.Abilities(ctx, orgID, ctx.UserID())
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(abilitiesView{OrganizationID: orgID, Abilities: keys})
}
