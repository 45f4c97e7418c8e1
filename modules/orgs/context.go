package orgs

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantkit/handler"
	"github.com/dmitrymomot/tenantkit/pkg/authn"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
	"github.com/dmitrymomot/tenantkit/svc/access"
)

// Context exposes the caller and the resolved organization to handlers.
type Context struct {
	handler.Context
}

func newContext(w http.ResponseWriter, r *http.Request) *Context {
	return &Context{Context: handler.NewContext(w, r)}
}

// UserID returns the authenticated caller. It is uuid.Nil on public routes.
func (c *Context) UserID() uuid.UUID {
	id, _ := authn.UserIDFromContext(c)
	return id
}

// OrgID returns the organization the tenant middleware resolved.
func (c *Context) OrgID() (uuid.UUID, error) {
	id, ok := tenant.OrgIDFromContext(c)
	if !ok {
		return uuid.Nil, access.ErrOrgNotResolved
	}
	return id, nil
}
