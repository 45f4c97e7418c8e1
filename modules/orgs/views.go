package orgs

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantkit/internal/store"
	"github.com/dmitrymomot/tenantkit/pkg/permission"
	"github.com/dmitrymomot/tenantkit/pkg/rbac"
)

type organizationView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

func newOrganizationView(o *store.Organization) organizationView {
	return organizationView{ID: o.ID, Name: o.Name, Slug: o.Slug, CreatedAt: o.CreatedAt}
}

type memberView struct {
	UserID   uuid.UUID `json:"user_id"`
	Email    string    `json:"email"`
	IsOwner  bool      `json:"is_owner"`
	JoinedAt time.Time `json:"joined_at"`
}

type roleView struct {
	ID          uuid.UUID `json:"id"`
	Key         string    `json:"key"`
	Name        string    `json:"name"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
}

func newRoleView(r *store.Role) roleView {
	perms := make([]string, len(r.Permissions))
	for i, t := range r.Permissions {
		perms[i] = t.String()
	}
	return roleView{ID: r.ID, Key: r.Key, Name: r.Name, Permissions: perms, CreatedAt: r.CreatedAt}
}

type overrideView struct {
	Key  permission.Key    `json:"key"`
	Mode rbac.OverrideMode `json:"mode"`
}

type abilitiesView struct {
	OrganizationID uuid.UUID `json:"organization_id"`
	Abilities      []string  `json:"abilities"`
}

func mapSlice[T, V any](in []T, fn func(*T) V) []V {
	out := make([]V, len(in))
	for i := range in {
		out[i] = fn(&in[i])
	}
	return out
}
