package organization_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/internal/store"
	"github.com/dmitrymomot/tenantkit/pkg/apperr"
	"github.com/dmitrymomot/tenantkit/pkg/permission"
	"github.com/dmitrymomot/tenantkit/svc/organization"
)

func TestCreateRole(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	role, err := f.svc.CreateRole(ctx, organization.CreateRoleParams{
		OrgID:       f.org.ID,
		ActorID:     f.admin.ID,
		Key:         "sales",
		Name:        "Sales",
		Permissions: []string{"customer:*", "invoice:view"},
	})
	require.NoError(t, err)
	assert.Equal(t, "sales", role.Key)

	stored, err := f.mem.GetRole(ctx, role.ID)
	require.NoError(t, err)
	assert.Equal(t, []permission.Token{"customer:*", "invoice:view"}, stored.Permissions)

	roles, err := f.svc.ListRoles(ctx, f.org.ID, f.admin.ID)
	require.NoError(t, err)
	assert.Len(t, roles, 3)
	assert.Contains(t, f.audits.Actions(), organization.ActionRoleCreated)
}

func TestCreateRole_Validation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		key     string
		roleNm  string
		perms   []string
		wantErr error
	}{
		{"reserved key", store.OwnerRoleKey, "Owner", nil, organization.ErrReservedRole},
		{"bad key", "Sales Team", "Sales", nil, organization.ErrInvalidRoleKey},
		{"empty name", "sales", " ", nil, organization.ErrInvalidRoleName},
		{"unknown permission", "sales", "Sales", []string{"rocket:launch"}, organization.ErrInvalidPermission},
		{"unknown resource wildcard", "sales", "Sales", []string{"rocket:*"}, organization.ErrInvalidPermission},
		{"malformed token", "sales", "Sales", []string{"customer"}, organization.ErrInvalidPermission},
		{"taken key", "manager", "Manager 2", nil, organization.ErrRoleKeyTaken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateRole(ctx, organization.CreateRoleParams{
				OrgID:       f.org.ID,
				ActorID:     f.admin.ID,
				Key:         tt.key,
				Name:        tt.roleNm,
				Permissions: tt.perms,
			})
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, apperr.CodeOf(tt.wantErr), apperr.CodeOf(err))
		})
	}

	roles, err := f.mem.ListRoles(ctx, f.org.ID)
	require.NoError(t, err)
	assert.Len(t, roles, 2)
}

func TestCreateRole_Denied(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.svc.CreateRole(context.Background(), organization.CreateRoleParams{
		OrgID: f.org.ID, ActorID: f.plain.ID, Key: "sales", Name: "Sales",
	})
	require.ErrorIs(t, err, apperr.ErrPermissionDenied)
}

func TestRoleLifecycle(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	role, err := f.svc.CreateRole(ctx, organization.CreateRoleParams{
		OrgID: f.org.ID, ActorID: f.owner.ID, Key: "support", Name: "Support",
		Permissions: []string{"customer:view"},
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.AssignRole(ctx, f.org.ID, f.admin.ID, f.plain.ID, role.ID))
	abilities, err := f.svc.Abilities(ctx, f.org.ID, f.plain.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"customer:view"}, abilities)

	require.NoError(t, f.svc.SetRolePermissions(ctx, f.org.ID, f.admin.ID, role.ID, []string{"customer:edit"}))
	abilities, err = f.svc.Abilities(ctx, f.org.ID, f.plain.ID)
	require.NoError(t, err)
	assert.Contains(t, abilities, "customer:edit")

	require.NoError(t, f.svc.RenameRole(ctx, f.org.ID, f.admin.ID, role.ID, "Customer Support"))
	stored, err := f.mem.GetRole(ctx, role.ID)
	require.NoError(t, err)
	assert.Equal(t, "Customer Support", stored.Name)

	require.NoError(t, f.svc.UnassignRole(ctx, f.org.ID, f.admin.ID, f.plain.ID, role.ID))
	abilities, err = f.svc.Abilities(ctx, f.org.ID, f.plain.ID)
	require.NoError(t, err)
	assert.Empty(t, abilities)

	err = f.svc.UnassignRole(ctx, f.org.ID, f.admin.ID, f.plain.ID, role.ID)
	require.ErrorIs(t, err, organization.ErrRoleNotFound)

	require.NoError(t, f.svc.AssignRole(ctx, f.org.ID, f.admin.ID, f.plain.ID, role.ID))
	require.NoError(t, f.svc.DeleteRole(ctx, f.org.ID, f.admin.ID, role.ID))
	tokens, err := f.mem.ListRoleTokens(ctx, f.org.ID, f.plain.ID)
	require.NoError(t, err)
	assert.Empty(t, tokens)

	assert.Subset(t, f.audits.Actions(), []string{
		organization.ActionRoleAssigned,
		organization.ActionRolePermissionsSet,
		organization.ActionRoleRenamed,
		organization.ActionRoleUnassigned,
		organization.ActionRoleDeleted,
	})
}

func TestOwnerRoleReserved(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	owner, err := f.mem.GetRoleByKey(ctx, f.org.ID, store.OwnerRoleKey)
	require.NoError(t, err)

	err = f.svc.SetRolePermissions(ctx, f.org.ID, f.owner.ID, owner.ID, []string{"customer:view"})
	require.ErrorIs(t, err, organization.ErrReservedRole)
	err = f.svc.DeleteRole(ctx, f.org.ID, f.owner.ID, owner.ID)
	require.ErrorIs(t, err, organization.ErrReservedRole)
	err = f.svc.AssignRole(ctx, f.org.ID, f.owner.ID, f.plain.ID, owner.ID)
	require.ErrorIs(t, err, organization.ErrReservedRole)
	err = f.svc.UnassignRole(ctx, f.org.ID, f.owner.ID, f.owner.ID, owner.ID)
	require.ErrorIs(t, err, organization.ErrReservedRole)

	stored, err := f.mem.GetRole(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, []permission.Token{permission.Wildcard}, stored.Permissions)
}

func TestRole_OtherOrganization(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	other, err := f.svc.Create(ctx, organization.CreateParams{UserID: f.outsider.ID, Name: "Globex"})
	require.NoError(t, err)
	foreign, err := f.svc.CreateRole(ctx, organization.CreateRoleParams{
		OrgID: other.ID, ActorID: f.outsider.ID, Key: "viewer", Name: "Viewer",
	})
	require.NoError(t, err)

	err = f.svc.AssignRole(ctx, f.org.ID, f.admin.ID, f.plain.ID, foreign.ID)
	require.ErrorIs(t, err, organization.ErrRoleNotFound)
	err = f.svc.RenameRole(ctx, f.org.ID, f.admin.ID, foreign.ID, "Mine")
	require.ErrorIs(t, err, organization.ErrRoleNotFound)
	err = f.svc.DeleteRole(ctx, f.org.ID, f.admin.ID, uuid.New())
	require.ErrorIs(t, err, organization.ErrRoleNotFound)

	err = f.svc.AssignRole(ctx, f.org.ID, f.admin.ID, f.outsider.ID, f.manager.ID)
	require.ErrorIs(t, err, organization.ErrMemberNotFound)
}
