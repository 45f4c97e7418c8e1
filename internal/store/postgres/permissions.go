package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/tenantkit/pkg/permission"
)

// SyncPermissions replaces the permission mirror with perms. Overrides on
// removed keys go with them through the foreign key; role grants that no
// longer resolve are deleted explicitly because wildcards carry no key.
func (q *queries) SyncPermissions(ctx context.Context, perms []permission.Permission) error {
	keys := make([]string, len(perms))
	batch := &pgx.Batch{}
	for i, p := range perms {
		keys[i] = string(p.Key)
		batch.Queue(`
			INSERT INTO permissions (key, resource, action, name, description, depends_on)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (key) DO UPDATE SET
				resource = EXCLUDED.resource,
				action = EXCLUDED.action,
				name = EXCLUDED.name,
				description = EXCLUDED.description,
				depends_on = EXCLUDED.depends_on`,
			keys[i], p.Key.Resource(), p.Key.Action(), p.Name, p.Description, permission.KeyStrings(p.DependsOn),
		)
	}
	batch.Queue(`DELETE FROM permissions WHERE NOT (key = ANY($1::text[]))`, keys)
	batch.Queue(`
		DELETE FROM role_permissions rp
		WHERE rp.token <> '*'
		  AND NOT EXISTS (SELECT 1 FROM permissions p WHERE p.key = rp.token)
		  AND NOT (rp.token LIKE '%:*'
		       AND EXISTS (SELECT 1 FROM permissions p WHERE p.resource = split_part(rp.token, ':', 1)))`)

	if err := q.db.SendBatch(ctx, batch).Close(); err != nil {
		return mapError(err)
	}
	return nil
}
