package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/internal/store"
	"github.com/dmitrymomot/tenantkit/internal/store/memory"
	"github.com/dmitrymomot/tenantkit/pkg/permission"
	"github.com/dmitrymomot/tenantkit/pkg/rbac"
)

func seed(t *testing.T, s *memory.Store) (store.Organization, store.User) {
	t.Helper()
	ctx := context.Background()

	org := store.Organization{Name: "Acme", Slug: "acme"}
	require.NoError(t, s.CreateOrganization(ctx, &org))
	user := store.User{Email: "ann@example.com"}
	require.NoError(t, s.CreateUser(ctx, &user))
	_, err := s.AddMember(ctx, store.Member{OrgID: org.ID, UserID: user.ID, IsOwner: true})
	require.NoError(t, err)
	return org, user
}

func TestStore_InTxRollsBack(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := memory.New()
	org, _ := seed(t, s)

	boom := errors.New("boom")
	err := s.InTx(ctx, func(ctx context.Context, q store.Querier) error {
		u := store.User{Email: "bob@example.com"}
		require.NoError(t, q.CreateUser(ctx, &u))
		_, err := q.AddMember(ctx, store.Member{OrgID: org.ID, UserID: u.ID})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.GetUserByEmail(ctx, "bob@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
	members, err := s.ListMembers(ctx, org.ID)
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

func TestStore_InTxRollsBackOnPanic(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := memory.New()

	assert.Panics(t, func() {
		_ = s.InTx(ctx, func(ctx context.Context, q store.Querier) error {
			_ = q.CreateUser(ctx, &store.User{Email: "ghost@example.com"})
			panic("boom")
		})
	})

	_, err := s.GetUserByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_Uniqueness(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := memory.New()
	org, user := seed(t, s)

	assert.ErrorIs(t, s.CreateOrganization(ctx, &store.Organization{Name: "Other", Slug: "acme"}), store.ErrDuplicate)
	assert.ErrorIs(t, s.CreateUser(ctx, &store.User{Email: "ANN@example.com"}), store.ErrDuplicate)

	created, err := s.AddMember(ctx, store.Member{OrgID: org.ID, UserID: user.ID})
	require.NoError(t, err)
	assert.False(t, created)

	m, err := s.GetMember(ctx, org.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, m.IsOwner, "re-adding must not touch the owner flag")

	require.NoError(t, s.CreateRole(ctx, &store.Role{OrgID: org.ID, Key: "billing", Name: "Billing"}))
	assert.ErrorIs(t, s.CreateRole(ctx, &store.Role{OrgID: org.ID, Key: "billing"}), store.ErrDuplicate)
}

func TestStore_PendingInvitationUniqueness(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := memory.New()
	org, user := seed(t, s)

	inv := store.Invitation{
		OrgID: org.ID, Email: "new@example.com", InvitedBy: user.ID,
		TokenHash: []byte("h1"), ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, s.CreateInvitation(ctx, &inv))

	dup := inv
	dup.ID = uuid.Nil
	dup.TokenHash = []byte("h2")
	dup.Email = "NEW@example.com"
	assert.ErrorIs(t, s.CreateInvitation(ctx, &dup), store.ErrDuplicate)

	require.NoError(t, s.MarkInvitationAccepted(ctx, inv.ID, time.Now()))
	dup.ID = uuid.Nil
	assert.NoError(t, s.CreateInvitation(ctx, &dup), "accepted invitations do not block new ones")
}

func TestStore_RoleGrantsAndCascade(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := memory.New()
	org, user := seed(t, s)

	viewer := store.Role{OrgID: org.ID, Key: "viewer", Name: "Viewer"}
	require.NoError(t, s.CreateRole(ctx, &viewer))
	editor := store.Role{OrgID: org.ID, Key: "editor", Name: "Editor"}
	require.NoError(t, s.CreateRole(ctx, &editor))

	require.NoError(t, s.SetRolePermissions(ctx, viewer.ID, []permission.Token{"invoice:view", "customer:view"}))
	require.NoError(t, s.SetRolePermissions(ctx, editor.ID, []permission.Token{"invoice:*", "invoice:view"}))
	require.NoError(t, s.AssignRole(ctx, org.ID, user.ID, viewer.ID))
	require.NoError(t, s.AssignRole(ctx, org.ID, user.ID, viewer.ID))
	require.NoError(t, s.AssignRole(ctx, org.ID, user.ID, editor.ID))

	tokens, err := s.ListRoleTokens(ctx, org.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []permission.Token{"customer:view", "invoice:*", "invoice:view"}, tokens)

	other := store.Organization{Name: "Other", Slug: "other"}
	require.NoError(t, s.CreateOrganization(ctx, &other))
	assert.ErrorIs(t, s.AssignRole(ctx, other.ID, user.ID, viewer.ID), store.ErrReference)

	require.NoError(t, s.UpsertOverride(ctx, store.Override{OrgID: org.ID, UserID: user.ID, Key: "invoice:delete", Mode: rbac.Deny}))
	require.NoError(t, s.UpsertOverride(ctx, store.Override{OrgID: org.ID, UserID: user.ID, Key: "invoice:delete", Mode: rbac.Allow}))
	overrides, err := s.ListOverrides(ctx, org.ID, user.ID)
	require.NoError(t, err)
	require.Len(t, overrides, 1)
	assert.Equal(t, rbac.Allow, overrides[0].Mode)

	require.NoError(t, s.RemoveMember(ctx, org.ID, user.ID))
	tokens, err = s.ListRoleTokens(ctx, org.ID, user.ID)
	require.NoError(t, err)
	assert.Empty(t, tokens)
	overrides, err = s.ListOverrides(ctx, org.ID, user.ID)
	require.NoError(t, err)
	assert.Empty(t, overrides)
}

func TestStore_SyncPermissionsPrunesGrants(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := memory.New()
	org, user := seed(t, s)

	role := store.Role{OrgID: org.ID, Key: "legacy"}
	require.NoError(t, s.CreateRole(ctx, &role))
	require.NoError(t, s.SetRolePermissions(ctx, role.ID, []permission.Token{"*", "invoice:*", "invoice:view", "fax:*", "fax:send"}))
	require.NoError(t, s.UpsertOverride(ctx, store.Override{OrgID: org.ID, UserID: user.ID, Key: "fax:send", Mode: rbac.Allow}))

	cat, err := permission.NewCatalog(permission.WithResource("invoice"))
	require.NoError(t, err)
	require.NoError(t, s.SyncPermissions(ctx, cat.Permissions()))

	got, err := s.GetRole(ctx, role.ID)
	require.NoError(t, err)
	assert.Equal(t, []permission.Token{"*", "invoice:*", "invoice:view"}, got.Permissions)

	overrides, err := s.ListOverrides(ctx, org.ID, user.ID)
	require.NoError(t, err)
	assert.Empty(t, overrides)

	err = s.UpsertOverride(ctx, store.Override{OrgID: org.ID, UserID: user.ID, Key: "fax:send", Mode: rbac.Allow})
	assert.ErrorIs(t, err, store.ErrReference)
}

func TestStore_DeleteRoleClearsInvitationRole(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := memory.New()
	org, user := seed(t, s)

	role := store.Role{OrgID: org.ID, Key: "support"}
	require.NoError(t, s.CreateRole(ctx, &role))
	inv := store.Invitation{
		OrgID: org.ID, Email: "x@example.com", InvitedBy: user.ID, TokenHash: []byte("h"),
		RoleID: uuid.NullUUID{UUID: role.ID, Valid: true}, ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, s.CreateInvitation(ctx, &inv))

	require.NoError(t, s.DeleteRole(ctx, role.ID))

	got, err := s.GetInvitation(ctx, inv.ID)
	require.NoError(t, err)
	assert.False(t, got.RoleID.Valid)
}
