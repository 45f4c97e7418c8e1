// Package apperr defines the error taxonomy surfaced by the authorization core.
//
// Every boundary error is an *Error carrying a stable Code. Callers match
// classes with errors.Is against the class sentinels:
//
//	if errors.Is(err, apperr.ErrPermissionDenied) {
//		var e *apperr.Error
//		errors.As(err, &e)
//		fmt.Println(e.Missing)
//	}
//
// Specific domain errors are declared with New and keep their identity,
// so errors.Is(err, invitation.ErrExpired) works alongside the class check.
package apperr
