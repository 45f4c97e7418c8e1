package organization

import "github.com/dmitrymomot/tenantkit/pkg/apperr"

var (
	ErrInvalidName       = apperr.New(apperr.CodeBadRequest, "organization.invalid_name")
	ErrInvalidSlug       = apperr.New(apperr.CodeBadRequest, "organization.invalid_slug")
	ErrSlugTaken         = apperr.New(apperr.CodeConflict, "organization.slug_taken")
	ErrNotFound          = apperr.New(apperr.CodeNotFound, "organization.not_found")
	ErrMemberNotFound    = apperr.New(apperr.CodeNotFound, "organization.member_not_found")
	ErrLastOwner         = apperr.New(apperr.CodeBadRequest, "organization.last_owner")
	ErrOwnerRequired     = apperr.New(apperr.CodePermissionDenied, "organization.owner_required")
	ErrRoleNotFound      = apperr.New(apperr.CodeNotFound, "role.not_found")
	ErrRoleKeyTaken      = apperr.New(apperr.CodeConflict, "role.key_taken")
	ErrInvalidRoleKey    = apperr.New(apperr.CodeBadRequest, "role.invalid_key")
	ErrInvalidRoleName   = apperr.New(apperr.CodeBadRequest, "role.invalid_name")
	ErrReservedRole      = apperr.New(apperr.CodeBadRequest, "role.reserved")
	ErrInvalidPermission = apperr.New(apperr.CodeBadRequest, "permission.invalid")
	ErrOverrideNotFound  = apperr.New(apperr.CodeNotFound, "override.not_found")
	ErrInvalidMode       = apperr.New(apperr.CodeBadRequest, "override.invalid_mode")
)
