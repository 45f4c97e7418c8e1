package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/tenantkit/internal/store"
	"github.com/dmitrymomot/tenantkit/pkg/permission"
	"github.com/dmitrymomot/tenantkit/pkg/rbac"
)

// UpsertOverride keeps the original created_at when the mode changes.
func (q *queries) UpsertOverride(ctx context.Context, o store.Override) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO permission_overrides (org_id, user_id, key, mode, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (org_id, user_id, key) DO UPDATE SET mode = EXCLUDED.mode`,
		o.OrgID, o.UserID, string(o.Key), o.Mode.String(), q.stamp(o.CreatedAt),
	)
	return mapError(err)
}

func (q *queries) DeleteOverride(ctx context.Context, orgID, userID uuid.UUID, key permission.Key) error {
	return affected(q.db.Exec(ctx,
		`DELETE FROM permission_overrides WHERE org_id = $1 AND user_id = $2 AND key = $3`,
		orgID, userID, string(key),
	))
}

func (q *queries) ListOverrides(ctx context.Context, orgID, userID uuid.UUID) ([]store.Override, error) {
	rows, err := q.db.Query(ctx, `
		SELECT org_id, user_id, key, mode, created_at
		FROM permission_overrides
		WHERE org_id = $1 AND user_id = $2
		ORDER BY key`, orgID, userID)
	if err != nil {
		return nil, mapError(err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (store.Override, error) {
		var (
			o        store.Override
			key, mod string
		)
		if err := row.Scan(&o.OrgID, &o.UserID, &key, &mod, &o.CreatedAt); err != nil {
			return o, err
		}
		o.Key = permission.Key(key)
		mode, err := rbac.ParseOverrideMode(mod)
		o.Mode = mode
		return o, err
	})
}
