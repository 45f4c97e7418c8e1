package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/tenantkit/internal/store"
)

func (q *queries) AddMember(ctx context.Context, m store.Member) (bool, error) {
	tag, err := q.db.Exec(ctx, `
		INSERT INTO members (org_id, user_id, is_owner, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (org_id, user_id) DO NOTHING`,
		m.OrgID, m.UserID, m.IsOwner, q.stamp(m.CreatedAt),
	)
	if err != nil {
		return false, mapError(err)
	}
	return tag.RowsAffected() == 1, nil
}

func (q *queries) GetMember(ctx context.Context, orgID, userID uuid.UUID) (*store.Member, error) {
	var m store.Member
	err := q.db.QueryRow(ctx,
		`SELECT org_id, user_id, is_owner, created_at FROM members WHERE org_id = $1 AND user_id = $2`,
		orgID, userID,
	).Scan(&m.OrgID, &m.UserID, &m.IsOwner, &m.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &m, nil
}

func (q *queries) ListMembers(ctx context.Context, orgID uuid.UUID) ([]store.MemberWithUser, error) {
	rows, err := q.db.Query(ctx, `
		SELECT m.org_id, m.user_id, m.is_owner, m.created_at, u.email
		FROM members m
		JOIN users u ON u.id = m.user_id
		WHERE m.org_id = $1
		ORDER BY m.created_at, u.email`, orgID)
	if err != nil {
		return nil, mapError(err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (store.MemberWithUser, error) {
		var m store.MemberWithUser
		err := row.Scan(&m.OrgID, &m.UserID, &m.IsOwner, &m.CreatedAt, &m.Email)
		return m, err
	})
}

// RemoveMember relies on ON DELETE CASCADE for role assignments and
// overrides.
func (q *queries) RemoveMember(ctx context.Context, orgID, userID uuid.UUID) error {
	return affected(q.db.Exec(ctx, `DELETE FROM members WHERE org_id = $1 AND user_id = $2`, orgID, userID))
}

func (q *queries) SetOwner(ctx context.Context, orgID, userID uuid.UUID, isOwner bool) error {
	return affected(q.db.Exec(ctx,
		`UPDATE members SET is_owner = $3 WHERE org_id = $1 AND user_id = $2`,
		orgID, userID, isOwner,
	))
}

func (q *queries) CountOwners(ctx context.Context, orgID uuid.UUID) (int, error) {
	var n int
	err := q.db.QueryRow(ctx, `SELECT count(*) FROM members WHERE org_id = $1 AND is_owner`, orgID).Scan(&n)
	return n, mapError(err)
}
