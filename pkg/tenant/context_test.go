package tenant_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

func TestOrgIDContext(t *testing.T) {
	t.Parallel()

	_, ok := tenant.OrgIDFromContext(context.Background())
	assert.False(t, ok)
	assert.False(t, tenant.NullOrgIDFromContext(context.Background()).Valid)

	_, ok = tenant.OrgIDFromContext(tenant.WithOrgID(context.Background(), uuid.Nil))
	assert.False(t, ok)

	id := uuid.New()
	ctx := tenant.WithOrgID(context.Background(), id)
	got, ok := tenant.OrgIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, id, got)

	attr, ok := tenant.LoggerExtractor()(ctx)
	assert.True(t, ok)
	assert.Equal(t, "org_id", attr.Key)
	assert.Equal(t, id.String(), attr.Value.String())
}
