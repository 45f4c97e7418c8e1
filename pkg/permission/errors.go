package permission

import "errors"

var (
	ErrInvalidToken        = errors.New("permission.invalid_token")
	ErrUnknownPermission   = errors.New("permission.unknown")
	ErrUnknownResource     = errors.New("permission.unknown_resource")
	ErrDuplicatePermission = errors.New("permission.duplicate")
	ErrDependencyCycle     = errors.New("permission.dependency_cycle")
)
