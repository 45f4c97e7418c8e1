package organization_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/apperr"
	"github.com/dmitrymomot/tenantkit/pkg/rbac"
	"github.com/dmitrymomot/tenantkit/svc/organization"
)

func TestSetOverride(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SetOverride(ctx, f.org.ID, f.admin.ID, f.plain.ID, "invoice:view", rbac.Allow))
	abilities, err := f.svc.Abilities(ctx, f.org.ID, f.plain.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"invoice:view"}, abilities)

	// Deny wins over the role grant.
	require.NoError(t, f.svc.SetOverride(ctx, f.org.ID, f.owner.ID, f.admin.ID, "member:invite", rbac.Deny))
	abilities, err = f.svc.Abilities(ctx, f.org.ID, f.admin.ID)
	require.NoError(t, err)
	assert.NotContains(t, abilities, "member:invite")
	assert.Contains(t, abilities, "member:edit")

	// Upsert flips the mode in place.
	require.NoError(t, f.svc.SetOverride(ctx, f.org.ID, f.admin.ID, f.plain.ID, "invoice:view", rbac.Deny))
	rows, err := f.svc.ListOverrides(ctx, f.org.ID, f.admin.ID, f.plain.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, rbac.Deny, rows[0].Mode)

	require.NoError(t, f.svc.ClearOverride(ctx, f.org.ID, f.admin.ID, f.plain.ID, "invoice:view"))
	abilities, err = f.svc.Abilities(ctx, f.org.ID, f.plain.ID)
	require.NoError(t, err)
	assert.Empty(t, abilities)

	assert.Subset(t, f.audits.Actions(), []string{organization.ActionOverrideSet, organization.ActionOverrideCleared})
}

func TestSetOverride_Validation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		key     string
		mode    rbac.OverrideMode
		target  func(*fixture) uuid.UUID
		wantErr error
	}{
		{"wildcard", "invoice:*", rbac.Allow, func(f *fixture) uuid.UUID { return f.plain.ID }, organization.ErrInvalidPermission},
		{"global wildcard", "*", rbac.Allow, func(f *fixture) uuid.UUID { return f.plain.ID }, organization.ErrInvalidPermission},
		{"unknown key", "rocket:launch", rbac.Deny, func(f *fixture) uuid.UUID { return f.plain.ID }, organization.ErrInvalidPermission},
		{"bad mode", "invoice:view", rbac.OverrideMode(9), func(f *fixture) uuid.UUID { return f.plain.ID }, organization.ErrInvalidMode},
		{"not a member", "invoice:view", rbac.Allow, func(f *fixture) uuid.UUID { return f.outsider.ID }, organization.ErrMemberNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.svc.SetOverride(ctx, f.org.ID, f.admin.ID, tt.target(f), tt.key, tt.mode)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	err := f.svc.SetOverride(ctx, f.org.ID, f.plain.ID, f.plain.ID, "invoice:view", rbac.Allow)
	require.ErrorIs(t, err, apperr.ErrPermissionDenied)

	err = f.svc.ClearOverride(ctx, f.org.ID, f.admin.ID, f.plain.ID, "invoice:view")
	require.ErrorIs(t, err, organization.ErrOverrideNotFound)
}
