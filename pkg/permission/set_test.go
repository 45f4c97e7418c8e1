package permission_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/tenantkit/pkg/permission"
)

func TestSet_Operations(t *testing.T) {
	t.Parallel()

	s := permission.NewSet("invoice:view", "invoice:edit")

	assert.True(t, s.Has("invoice:view"))
	assert.True(t, s.HasAll("invoice:view", "invoice:edit"))
	assert.False(t, s.HasAll("invoice:view", "invoice:delete"))
	assert.Equal(t, []permission.Key{"invoice:delete"}, s.Missing("invoice:view", "invoice:delete", "invoice:delete"))

	u := s.Union(permission.NewSet("customer:view"))
	assert.Equal(t, []string{"customer:view", "invoice:edit", "invoice:view"}, u.Strings())
	assert.Len(t, s, 2, "union must not mutate receiver")

	d := u.Subtract(permission.NewSet("invoice:edit"))
	assert.Equal(t, []string{"customer:view", "invoice:view"}, d.Strings())

	var empty permission.Set
	assert.Equal(t, []permission.Key{"x:view"}, empty.Union(permission.NewSet("x:view")).Keys())
}
