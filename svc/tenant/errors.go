package tenant

import "github.com/dmitrymomot/tenantkit/pkg/apperr"

var (
	// ErrNotResolved is returned for every failed hint and for a stored
	// active organization the user no longer belongs to.
	ErrNotResolved = apperr.New(apperr.CodeTenantNotSet, "tenant.not_resolved")
	// ErrNoTenant is returned when there is neither a hint nor a stored
	// active organization.
	ErrNoTenant = apperr.New(apperr.CodeTenantNotSet, "tenant.not_set")
)
