package rbac

import (
	"errors"

	"github.com/dmitrymomot/tenantkit/pkg/permission"
)

// Resolver computes effective ability sets against a fixed catalog.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	catalog *permission.Catalog
}

// NewResolver returns a resolver bound to catalog.
func NewResolver(catalog *permission.Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Catalog returns the catalog the resolver expands against.
func (r *Resolver) Catalog() *permission.Catalog {
	return r.catalog
}

// Resolve returns the effective ability set for g.
func (r *Resolver) Resolve(g Grants) (permission.Set, error) {
	if g.Owner {
		return r.catalog.All(), nil
	}

	roles, err := r.catalog.Expand(g.Roles...)
	if err != nil {
		return nil, errors.Join(ErrResolveFailed, err)
	}
	allow, err := r.catalog.Expand(g.Allow...)
	if err != nil {
		return nil, errors.Join(ErrResolveFailed, err)
	}
	deny, err := r.catalog.Expand(g.Deny...)
	if err != nil {
		return nil, errors.Join(ErrResolveFailed, err)
	}

	return roles.Union(allow).Subtract(deny), nil
}

// ResolveEffective is a convenience wrapper around Resolver.Resolve.
func ResolveEffective(
	catalog *permission.Catalog,
	roles, allow, deny []permission.Token,
	ownerBypass bool,
) (permission.Set, error) {
	return NewResolver(catalog).Resolve(Grants{
		Roles: roles,
		Allow: allow,
		Deny:  deny,
		Owner: ownerBypass,
	})
}
