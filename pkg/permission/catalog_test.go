package permission_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/permission"
)

func TestDefault_CrossProduct(t *testing.T) {
	t.Parallel()

	cat := permission.Default()

	for _, res := range cat.Resources() {
		for _, action := range permission.DefaultActions {
			key := permission.NewKey(res, action)
			assert.True(t, cat.Has(key), "missing %s", key)

			deps := cat.DependenciesOf(key)
			if action == permission.ActionView {
				assert.Empty(t, deps, "%s should have no dependencies", key)
				continue
			}
			assert.Equal(t, permission.NewSet(permission.NewKey(res, permission.ActionView)), deps)
		}
	}

	assert.True(t, cat.Has(permission.MemberInvite))
	assert.Equal(t, permission.NewSet(permission.MemberView), cat.DependenciesOf(permission.MemberInvite))
}

func TestCatalog_KeysOrdered(t *testing.T) {
	t.Parallel()

	cat, err := permission.NewCatalog(
		permission.WithResource("invoice"),
		permission.WithResource("customer", "view", "edit"),
	)
	require.NoError(t, err)

	assert.Equal(t, []permission.Key{
		"invoice:view", "invoice:create", "invoice:edit", "invoice:delete",
		"customer:view", "customer:edit",
	}, cat.Keys())
	assert.Equal(t, []string{"invoice", "customer"}, cat.Resources())

	p, ok := cat.Lookup("invoice:delete")
	require.True(t, ok)
	assert.Equal(t, "Delete invoice", p.Name)
}

func TestCatalog_KeysReturnsCopy(t *testing.T) {
	t.Parallel()

	cat := permission.Default()
	keys := cat.Keys()
	keys[0] = "tampered:key"

	assert.NotEqual(t, permission.Key("tampered:key"), cat.Keys()[0])
}

func TestNewCatalog_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []permission.Option
		wantErr error
	}{
		{
			name: "duplicate key",
			opts: []permission.Option{
				permission.WithResource("invoice"),
				permission.WithPermission(permission.Permission{Key: "invoice:view"}),
			},
			wantErr: permission.ErrDuplicatePermission,
		},
		{
			name:    "malformed key",
			opts:    []permission.Option{permission.WithPermission(permission.Permission{Key: "Invoice"})},
			wantErr: permission.ErrInvalidToken,
		},
		{
			name:    "wildcard key",
			opts:    []permission.Option{permission.WithPermission(permission.Permission{Key: "invoice:*"})},
			wantErr: permission.ErrInvalidToken,
		},
		{
			name: "unknown dependency",
			opts: []permission.Option{permission.WithPermission(permission.Permission{
				Key: "invoice:send", DependsOn: []permission.Key{"invoice:view"},
			})},
			wantErr: permission.ErrUnknownPermission,
		},
		{
			name: "cycle",
			opts: []permission.Option{
				permission.WithPermission(permission.Permission{Key: "a:x", DependsOn: []permission.Key{"a:y"}}),
				permission.WithPermission(permission.Permission{Key: "a:y", DependsOn: []permission.Key{"a:z"}}),
				permission.WithPermission(permission.Permission{Key: "a:z", DependsOn: []permission.Key{"a:x"}}),
			},
			wantErr: permission.ErrDependencyCycle,
		},
		{
			name: "self loop",
			opts: []permission.Option{
				permission.WithPermission(permission.Permission{Key: "a:x", DependsOn: []permission.Key{"a:x"}}),
			},
			wantErr: permission.ErrDependencyCycle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := permission.NewCatalog(tt.opts...)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestCatalog_WildcardMembers(t *testing.T) {
	t.Parallel()

	cat := permission.Default()

	members, err := cat.WildcardMembers(permission.ResourceWildcard("member"))
	require.NoError(t, err)
	assert.Equal(t, []permission.Key{
		"member:create", "member:delete", "member:edit", "member:invite", "member:view",
	}, members.Keys())

	all, err := cat.WildcardMembers(permission.Wildcard)
	require.NoError(t, err)
	assert.Len(t, all, len(cat.Keys()))

	_, err = cat.WildcardMembers("ghost:*")
	assert.ErrorIs(t, err, permission.ErrUnknownResource)

	_, err = cat.WildcardMembers("invoice:view")
	assert.ErrorIs(t, err, permission.ErrInvalidToken)
}

func TestCatalog_Validate(t *testing.T) {
	t.Parallel()

	cat := permission.Default()

	assert.NoError(t, cat.Validate("*", "invoice:*", "member:invite"))
	assert.ErrorIs(t, cat.Validate("invoice:approve"), permission.ErrUnknownPermission)
	assert.ErrorIs(t, cat.Validate("ghost:*"), permission.ErrUnknownResource)
	assert.ErrorIs(t, cat.Validate("invoice"), permission.ErrInvalidToken)
}

func TestParseToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    permission.Token
		wantErr bool
	}{
		{in: "*", want: permission.Wildcard},
		{in: "invoice:*", want: "invoice:*"},
		{in: " invoice:view ", want: "invoice:view"},
		{in: "line_item:edit", want: "line_item:edit"},
		{in: "invoice", wantErr: true},
		{in: "Invoice:view", wantErr: true},
		{in: "invoice:", wantErr: true},
		{in: ":view", wantErr: true},
		{in: "*:view", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := permission.ParseToken(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, permission.ErrInvalidToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
