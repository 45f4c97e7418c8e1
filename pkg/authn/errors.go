package authn

import (
	"errors"

	"github.com/dmitrymomot/tenantkit/pkg/apperr"
)

var (
	ErrMissingSigningKey = errors.New("authn: missing signing key")
	ErrMissingSubject    = errors.New("authn: missing subject")

	ErrMissingToken = apperr.New(apperr.CodeUnauthenticated, "auth.missing_token")
	ErrInvalidToken = apperr.New(apperr.CodeUnauthenticated, "auth.invalid_token")
)
