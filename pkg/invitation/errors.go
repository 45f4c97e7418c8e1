package invitation

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/tenantkit/pkg/apperr"
)

var (
	ErrExpired         = apperr.New(apperr.CodeBadRequest, "invitation.expired")
	ErrAlreadyAccepted = apperr.New(apperr.CodeBadRequest, "invitation.already_accepted")
	ErrInvalidToken    = errors.New("invitation.invalid_token")
)

// NoTransitionError reports an event that has no transition from a state.
type NoTransitionError struct {
	State State
	Event Event
}

func (e *NoTransitionError) Error() string {
	return fmt.Sprintf("invitation: no transition from %q on %q", e.State, e.Event)
}

// IsNoTransition reports whether err is a NoTransitionError.
func IsNoTransition(err error) bool {
	var e *NoTransitionError
	return errors.As(err, &e)
}
