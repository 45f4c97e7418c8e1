package invitation

import "github.com/dmitrymomot/tenantkit/pkg/apperr"

var (
	ErrNotFound      = apperr.New(apperr.CodeNotFound, "invitation.not_found")
	ErrPendingExists = apperr.New(apperr.CodeConflict, "invitation.pending_exists")
	ErrInvalidRole   = apperr.New(apperr.CodeBadRequest, "invitation.invalid_role")
	ErrInvalidEmail  = apperr.New(apperr.CodeBadRequest, "invitation.invalid_email")
	ErrInvalidExpiry = apperr.New(apperr.CodeBadRequest, "invitation.invalid_expiry")
)
