package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/tenantkit/internal/store"
	"github.com/dmitrymomot/tenantkit/pkg/permission"
)

const selectRole = `
	SELECT r.id, r.org_id, r.key, r.name, r.created_at,
		COALESCE(array_agg(rp.token ORDER BY rp.token) FILTER (WHERE rp.token IS NOT NULL), '{}')
	FROM roles r
	LEFT JOIN role_permissions rp ON rp.role_id = r.id`

func scanRole(row pgx.Row) (store.Role, error) {
	var (
		r      store.Role
		tokens []string
	)
	if err := row.Scan(&r.ID, &r.OrgID, &r.Key, &r.Name, &r.CreatedAt, &tokens); err != nil {
		return r, err
	}
	r.Permissions = toTokens(tokens)
	return r, nil
}

func (q *queries) CreateRole(ctx context.Context, role *store.Role) error {
	if role.ID == uuid.Nil {
		role.ID = uuid.New()
	}
	role.CreatedAt = q.stamp(role.CreatedAt)
	_, err := q.db.Exec(ctx,
		`INSERT INTO roles (id, org_id, key, name, created_at) VALUES ($1, $2, $3, $4, $5)`,
		role.ID, role.OrgID, role.Key, role.Name, role.CreatedAt,
	)
	return mapError(err)
}

func (q *queries) GetRole(ctx context.Context, id uuid.UUID) (*store.Role, error) {
	r, err := scanRole(q.db.QueryRow(ctx, selectRole+` WHERE r.id = $1 GROUP BY r.id`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return &r, nil
}

func (q *queries) GetRoleByKey(ctx context.Context, orgID uuid.UUID, key string) (*store.Role, error) {
	r, err := scanRole(q.db.QueryRow(ctx, selectRole+` WHERE r.org_id = $1 AND r.key = $2 GROUP BY r.id`, orgID, key))
	if err != nil {
		return nil, mapError(err)
	}
	return &r, nil
}

func (q *queries) ListRoles(ctx context.Context, orgID uuid.UUID) ([]store.Role, error) {
	rows, err := q.db.Query(ctx, selectRole+` WHERE r.org_id = $1 GROUP BY r.id ORDER BY r.key`, orgID)
	if err != nil {
		return nil, mapError(err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (store.Role, error) {
		return scanRole(row)
	})
}

func (q *queries) RenameRole(ctx context.Context, id uuid.UUID, name string) error {
	return affected(q.db.Exec(ctx, `UPDATE roles SET name = $2 WHERE id = $1`, id, name))
}

// DeleteRole cascades to assignments and clears the role on pending
// invitations.
func (q *queries) DeleteRole(ctx context.Context, id uuid.UUID) error {
	return affected(q.db.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id))
}

func (q *queries) SetRolePermissions(ctx context.Context, roleID uuid.UUID, tokens []permission.Token) error {
	var exists bool
	if err := q.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM roles WHERE id = $1)`, roleID).Scan(&exists); err != nil {
		return mapError(err)
	}
	if !exists {
		return store.ErrNotFound
	}
	if _, err := q.db.Exec(ctx, `DELETE FROM role_permissions WHERE role_id = $1`, roleID); err != nil {
		return mapError(err)
	}
	if len(tokens) == 0 {
		return nil
	}
	_, err := q.db.Exec(ctx, `
		INSERT INTO role_permissions (role_id, token)
		SELECT $1, t FROM unnest($2::text[]) AS t
		ON CONFLICT DO NOTHING`,
		roleID, fromTokens(tokens),
	)
	return mapError(err)
}

func (q *queries) AssignRole(ctx context.Context, orgID, userID, roleID uuid.UUID) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO member_roles (org_id, user_id, role_id) VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING`,
		orgID, userID, roleID,
	)
	return mapError(err)
}

func (q *queries) UnassignRole(ctx context.Context, orgID, userID, roleID uuid.UUID) error {
	return affected(q.db.Exec(ctx,
		`DELETE FROM member_roles WHERE org_id = $1 AND user_id = $2 AND role_id = $3`,
		orgID, userID, roleID,
	))
}

func (q *queries) ListRoleTokens(ctx context.Context, orgID, userID uuid.UUID) ([]permission.Token, error) {
	rows, err := q.db.Query(ctx, `
		SELECT DISTINCT rp.token
		FROM member_roles mr
		JOIN role_permissions rp ON rp.role_id = mr.role_id
		WHERE mr.org_id = $1 AND mr.user_id = $2
		ORDER BY rp.token`, orgID, userID)
	if err != nil {
		return nil, mapError(err)
	}
	tokens, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, mapError(err)
	}
	return toTokens(tokens), nil
}

func toTokens(ss []string) []permission.Token {
	out := make([]permission.Token, len(ss))
	for i, s := range ss {
		out[i] = permission.Token(s)
	}
	return out
}

func fromTokens(tokens []permission.Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = string(t)
	}
	return out
}
