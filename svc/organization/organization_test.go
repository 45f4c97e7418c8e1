package organization_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/internal/store"
	"github.com/dmitrymomot/tenantkit/internal/store/memory"
	"github.com/dmitrymomot/tenantkit/pkg/apperr"
	"github.com/dmitrymomot/tenantkit/pkg/audit"
	"github.com/dmitrymomot/tenantkit/pkg/permission"
	"github.com/dmitrymomot/tenantkit/pkg/rbac"
	"github.com/dmitrymomot/tenantkit/svc/access"
	"github.com/dmitrymomot/tenantkit/svc/organization"
)

type fixture struct {
	mem    *memory.Store
	guard  *access.Guard
	svc    *organization.Service
	audits *audit.MemoryStorage

	owner    store.User
	admin    store.User
	plain    store.User
	outsider store.User
	org      *store.Organization
	manager  store.Role
}

// newFixture seeds one organization created through the service: owner
// owns it, admin holds a role with every member and role permission, and
// plain holds no role at all.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	f := &fixture{audits: audit.NewMemoryStorage()}
	f.mem = memory.New(memory.WithClock(func() time.Time { return now }))

	cat := permission.Default()
	require.NoError(t, f.mem.SyncPermissions(ctx, cat.Permissions()))

	for i, u := range []*store.User{&f.owner, &f.admin, &f.plain, &f.outsider} {
		u.Email = []string{"owner", "admin", "plain", "outsider"}[i] + "@example.com"
		require.NoError(t, f.mem.CreateUser(ctx, u))
	}

	f.guard = access.NewGuard(f.mem, rbac.NewResolver(cat))
	f.svc = organization.NewService(f.mem, f.guard, cat,
		organization.WithAuditor(audit.NewLogger(f.audits)),
		organization.WithClock(func() time.Time { return now }),
	)

	org, err := f.svc.Create(ctx, organization.CreateParams{UserID: f.owner.ID, Name: "Acme Corp"})
	require.NoError(t, err)
	f.org = org

	for _, u := range []store.User{f.admin, f.plain} {
		_, err := f.mem.AddMember(ctx, store.Member{OrgID: org.ID, UserID: u.ID})
		require.NoError(t, err)
	}

	f.manager = store.Role{OrgID: org.ID, Key: "manager", Name: "Manager"}
	require.NoError(t, f.mem.CreateRole(ctx, &f.manager))
	require.NoError(t, f.mem.SetRolePermissions(ctx, f.manager.ID, []permission.Token{
		permission.ResourceWildcard(permission.ResourceMember),
		permission.ResourceWildcard(permission.ResourceRole),
	}))
	require.NoError(t, f.mem.AssignRole(ctx, org.ID, f.admin.ID, f.manager.ID))
	return f
}

func (f *fixture) member(t *testing.T, userID uuid.UUID) *store.Member {
	t.Helper()
	m, err := f.mem.GetMember(context.Background(), f.org.ID, userID)
	require.NoError(t, err)
	return m
}

func TestCreate(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	assert.Equal(t, "acme-corp", f.org.Slug)
	assert.True(t, f.member(t, f.owner.ID).IsOwner)

	u, err := f.mem.GetUser(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.NullUUID{UUID: f.org.ID, Valid: true}, u.ActiveOrgID)

	role, err := f.mem.GetRoleByKey(ctx, f.org.ID, store.OwnerRoleKey)
	require.NoError(t, err)
	assert.Equal(t, []permission.Token{permission.Wildcard}, role.Permissions)

	abilities, err := f.svc.Abilities(ctx, f.org.ID, f.owner.ID)
	require.NoError(t, err)
	assert.Len(t, abilities, len(permission.Default().Keys()))

	assert.Contains(t, f.audits.Actions(), organization.ActionOrganizationCreated)
}

func TestCreate_Validation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		params  organization.CreateParams
		wantErr error
	}{
		{"empty name", organization.CreateParams{Name: "  "}, organization.ErrInvalidName},
		{"long name", organization.CreateParams{Name: string(make([]rune, 101))}, organization.ErrInvalidName},
		{"bad slug", organization.CreateParams{Name: "Globex", Slug: "-globex"}, organization.ErrInvalidSlug},
		{"slug from symbols only", organization.CreateParams{Name: "!!!"}, organization.ErrInvalidSlug},
		{"taken slug", organization.CreateParams{Name: "Acme", Slug: "acme-corp"}, organization.ErrSlugTaken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.params.UserID = f.outsider.ID
			_, err := f.svc.Create(ctx, tt.params)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	orgs, err := f.svc.ListForUser(ctx, f.outsider.ID)
	require.NoError(t, err)
	assert.Empty(t, orgs)
}

func TestGet(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	org, err := f.svc.Get(ctx, f.org.ID, f.plain.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", org.Name)

	_, err = f.svc.Get(ctx, f.org.ID, f.outsider.ID)
	assert.Equal(t, apperr.CodeTenantForbidden, apperr.CodeOf(err))
}

func TestSwitchActive(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	second, err := f.svc.Create(ctx, organization.CreateParams{UserID: f.owner.ID, Name: "Globex"})
	require.NoError(t, err)

	orgs, err := f.svc.ListForUser(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Len(t, orgs, 2)

	require.NoError(t, f.svc.SwitchActive(ctx, f.owner.ID, f.org.ID))
	u, err := f.mem.GetUser(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, f.org.ID, u.ActiveOrgID.UUID)

	err = f.svc.SwitchActive(ctx, f.plain.ID, second.ID)
	assert.Equal(t, apperr.CodeTenantForbidden, apperr.CodeOf(err))

	u, err = f.mem.GetUser(ctx, f.plain.ID)
	require.NoError(t, err)
	assert.False(t, u.ActiveOrgID.Valid)
}

func TestAbilities(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	abilities, err := f.svc.Abilities(ctx, f.org.ID, f.plain.ID)
	require.NoError(t, err)
	assert.Empty(t, abilities)

	abilities, err = f.svc.Abilities(ctx, f.org.ID, f.admin.ID)
	require.NoError(t, err)
	assert.Contains(t, abilities, "member:invite")
	assert.Contains(t, abilities, "role:delete")
	assert.NotContains(t, abilities, "customer:view")
	assert.IsNonDecreasing(t, abilities)

	_, err = f.svc.Abilities(ctx, f.org.ID, f.outsider.ID)
	assert.Equal(t, apperr.CodeTenantForbidden, apperr.CodeOf(err))
}
