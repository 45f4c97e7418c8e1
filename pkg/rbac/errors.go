package rbac

import "errors"

var (
	// ErrInvalidOverrideMode is returned when parsing an unknown override mode.
	ErrInvalidOverrideMode = errors.New("rbac.invalid_override_mode")

	// ErrResolveFailed wraps expansion failures while resolving abilities.
	ErrResolveFailed = errors.New("rbac.resolve_failed")
)
