package access

import "github.com/dmitrymomot/tenantkit/pkg/apperr"

var (
	ErrOrgNotResolved = apperr.New(apperr.CodeTenantNotSet, "tenant.not_set")
	ErrNotMember      = apperr.New(apperr.CodeTenantForbidden, "tenant.forbidden")
	ErrNotOwner       = apperr.New(apperr.CodePermissionDenied, "tenant.owner_required")
)
