package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/apperr"
)

var (
	errExpired  = apperr.New(apperr.CodeBadRequest, "invitation.expired")
	errAccepted = apperr.New(apperr.CodeBadRequest, "invitation.already_accepted")
)

func TestError_Is(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"class matches domain error", errExpired, apperr.ErrBadRequest, true},
		{"class mismatch", errExpired, apperr.ErrConflict, false},
		{"domain identity", errExpired, errExpired, true},
		{"sibling domain errors differ", errExpired, errAccepted, false},
		{"wrapped with fmt", fmt.Errorf("accept: %w", errExpired), apperr.ErrBadRequest, true},
		{"wrapped with cause keeps identity", errExpired.Wrap(errors.New("boom")), errExpired, true},
		{"permission denied class", apperr.PermissionDenied("invoice:delete"), apperr.ErrPermissionDenied, true},
		{"plain error", errors.New("x"), apperr.ErrNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, errors.Is(tt.err, tt.target))
		})
	}
}

func TestError_WrapKeepsCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("db down")
	err := apperr.ErrConflict.Wrap(cause)

	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, apperr.ErrConflict))
	assert.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))
	assert.Contains(t, err.Error(), "db down")
}

func TestPermissionDenied_CarriesMissingKeys(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("guard: %w", apperr.PermissionDenied("invoice:delete", "invoice:edit"))

	var e *apperr.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, apperr.CodePermissionDenied, e.Code)
	assert.Equal(t, []string{"invoice:delete", "invoice:edit"}, e.Missing)
	assert.Contains(t, err.Error(), "invoice:delete")
}

func TestCodeOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, apperr.CodeTenantNotSet, apperr.CodeOf(apperr.ErrTenantNotSet))
	assert.Equal(t, apperr.Code(""), apperr.CodeOf(errors.New("plain")))
	assert.Equal(t, apperr.Code(""), apperr.CodeOf(nil))
}
