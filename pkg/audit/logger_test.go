package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/audit"
)

type ctxKey string

func TestLogger_Log(t *testing.T) {
	t.Parallel()

	orgID, actorID := uuid.New(), uuid.New()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	storage := audit.NewMemoryStorage()
	l := audit.NewLogger(storage,
		audit.WithOrgIDExtractor(func(ctx context.Context) (uuid.UUID, bool) {
			id, ok := ctx.Value(ctxKey("org")).(uuid.UUID)
			return id, ok
		}),
		audit.WithActorIDExtractor(func(context.Context) (uuid.UUID, bool) { return actorID, true }),
		audit.WithRequestIDExtractor(func(context.Context) string { return "req-1" }),
		audit.WithClock(func() time.Time { return now }),
	)

	ctx := context.WithValue(context.Background(), ctxKey("org"), orgID)
	require.NoError(t, l.Log(ctx, "role.created",
		audit.WithResource("role", "r1"),
		audit.WithMetadata("key", "billing"),
	))

	events := storage.Events()
	require.Len(t, events, 1)
	e := events[0]
	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.Equal(t, uuid.NullUUID{UUID: orgID, Valid: true}, e.OrgID)
	assert.Equal(t, uuid.NullUUID{UUID: actorID, Valid: true}, e.ActorID)
	assert.Equal(t, "role.created", e.Action)
	assert.Equal(t, "role", e.Resource)
	assert.Equal(t, "r1", e.ResourceID)
	assert.Equal(t, audit.ResultSuccess, e.Result)
	assert.Equal(t, "req-1", e.RequestID)
	assert.Equal(t, "billing", e.Metadata["key"])
	assert.Equal(t, now, e.CreatedAt)
}

func TestLogger_LogError(t *testing.T) {
	t.Parallel()

	storage := audit.NewMemoryStorage()
	l := audit.NewLogger(storage)

	orgID := uuid.New()
	require.NoError(t, l.LogError(context.Background(), "invitation.email", errors.New("smtp down"),
		audit.WithOrgID(orgID)))

	e := storage.Events()[0]
	assert.Equal(t, audit.ResultError, e.Result)
	assert.Equal(t, "smtp down", e.Error)
	assert.Equal(t, orgID, e.OrgID.UUID)
	assert.False(t, e.ActorID.Valid)
}

func TestLogger_Validation(t *testing.T) {
	t.Parallel()

	storage := audit.NewMemoryStorage()
	l := audit.NewLogger(storage)

	err := l.Log(context.Background(), "")
	assert.ErrorIs(t, err, audit.ErrEventValidation)
	assert.Empty(t, storage.Events())
}

func TestLogger_StorageFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	l := audit.NewLogger(audit.StorageFunc(func(context.Context, ...audit.Event) error { return boom }))

	err := l.Log(context.Background(), "member.removed")
	assert.ErrorIs(t, err, audit.ErrStorageFailed)
	assert.ErrorIs(t, err, boom)
}

func TestNewLogger_NilStoragePanics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { audit.NewLogger(nil) })
}
