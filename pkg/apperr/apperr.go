package apperr

import (
	"errors"
	"strings"
)

// Code is a stable discriminant for boundary errors.
type Code string

const (
	CodeUnauthenticated  Code = "UNAUTHENTICATED"
	CodeTenantNotSet     Code = "TENANT_NOT_SET"
	CodeTenantForbidden  Code = "TENANT_FORBIDDEN"
	CodePermissionDenied Code = "PERMISSION_DENIED"
	CodeNotFound         Code = "NOT_FOUND"
	CodeConflict         Code = "CONFLICT"
	CodeBadRequest       Code = "BAD_REQUEST"
	CodeRateLimited      Code = "RATE_LIMITED"
)

// Error is a classified error. Message is a machine-friendly key such as
// "invitation.expired"; class sentinels leave it empty.
type Error struct {
	Code    Code
	Message string
	// Missing lists the permission keys absent from the caller's effective set.
	// Only set for CodePermissionDenied.
	Missing []string
	Err     error

	parent *Error
}

// Class sentinels. Match with errors.Is.
var (
	ErrUnauthenticated  = &Error{Code: CodeUnauthenticated}
	ErrTenantNotSet     = &Error{Code: CodeTenantNotSet}
	ErrTenantForbidden  = &Error{Code: CodeTenantForbidden}
	ErrPermissionDenied = &Error{Code: CodePermissionDenied}
	ErrNotFound         = &Error{Code: CodeNotFound}
	ErrConflict         = &Error{Code: CodeConflict}
	ErrBadRequest       = &Error{Code: CodeBadRequest}
	ErrRateLimited      = &Error{Code: CodeRateLimited}
)

// New declares a domain error of the given class.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// PermissionDenied returns a PERMISSION_DENIED error listing the missing keys.
func PermissionDenied(missing ...string) *Error {
	return &Error{
		Code:    CodePermissionDenied,
		Message: "permission.denied",
		Missing: missing,
	}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if len(e.Missing) > 0 {
		b.WriteString(" [")
		b.WriteString(strings.Join(e.Missing, ", "))
		b.WriteString("]")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports a class match: a target without a message matches any error of
// the same code. Errors with a message only match themselves.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Message == "" && len(t.Missing) == 0 && t.Err == nil {
		return t.Code == e.Code
	}
	return t == e || (e.parent != nil && t == e.parent)
}

// Wrap attaches a cause to a copy of e so the original sentinel stays immutable.
// errors.Is(Wrap(ErrX, cause), ErrX) holds, as does errors.Is(..., cause).
func (e *Error) Wrap(cause error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Missing: e.Missing,
		Err:     cause,
		parent:  e,
	}
}

// CodeOf returns the code of the first *Error in the chain, or "" when none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
