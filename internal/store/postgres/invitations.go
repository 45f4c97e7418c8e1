package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/tenantkit/internal/store"
)

const selectInvitation = `
	SELECT id, org_id, email, role_id, invited_by, token_hash, expires_at, accepted_at, created_at
	FROM invitations`

func scanInvitation(row pgx.Row) (store.Invitation, error) {
	var inv store.Invitation
	err := row.Scan(
		&inv.ID, &inv.OrgID, &inv.Email, &inv.RoleID, &inv.InvitedBy,
		&inv.TokenHash, &inv.ExpiresAt, &inv.AcceptedAt, &inv.CreatedAt,
	)
	return inv, err
}

func (q *queries) getInvitation(ctx context.Context, sql string, args ...any) (*store.Invitation, error) {
	inv, err := scanInvitation(q.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapError(err)
	}
	return &inv, nil
}

func (q *queries) CreateInvitation(ctx context.Context, inv *store.Invitation) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	inv.CreatedAt = q.stamp(inv.CreatedAt)
	_, err := q.db.Exec(ctx, `
		INSERT INTO invitations (id, org_id, email, role_id, invited_by, token_hash, expires_at, accepted_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		inv.ID, inv.OrgID, inv.Email, inv.RoleID, inv.InvitedBy,
		inv.TokenHash, inv.ExpiresAt, inv.AcceptedAt, inv.CreatedAt,
	)
	return mapError(err)
}

func (q *queries) GetInvitation(ctx context.Context, id uuid.UUID) (*store.Invitation, error) {
	return q.getInvitation(ctx, selectInvitation+` WHERE id = $1`, id)
}

func (q *queries) GetInvitationByTokenHash(ctx context.Context, hash []byte) (*store.Invitation, error) {
	return q.getInvitation(ctx, selectInvitation+` WHERE token_hash = $1`, hash)
}

func (q *queries) LockInvitation(ctx context.Context, id uuid.UUID) (*store.Invitation, error) {
	return q.getInvitation(ctx, selectInvitation+` WHERE id = $1 FOR UPDATE`, id)
}

func (q *queries) FindOpenInvitation(ctx context.Context, orgID uuid.UUID, email string) (*store.Invitation, error) {
	return q.getInvitation(ctx,
		selectInvitation+` WHERE org_id = $1 AND lower(email) = lower($2) AND accepted_at IS NULL`,
		orgID, email,
	)
}

func (q *queries) ListInvitations(ctx context.Context, orgID uuid.UUID) ([]store.Invitation, error) {
	rows, err := q.db.Query(ctx, selectInvitation+` WHERE org_id = $1 ORDER BY created_at DESC, id`, orgID)
	if err != nil {
		return nil, mapError(err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (store.Invitation, error) {
		return scanInvitation(row)
	})
}

func (q *queries) MarkInvitationAccepted(ctx context.Context, id uuid.UUID, at time.Time) error {
	return affected(q.db.Exec(ctx, `UPDATE invitations SET accepted_at = $2 WHERE id = $1`, id, at))
}

func (q *queries) DeleteInvitation(ctx context.Context, id uuid.UUID) error {
	return affected(q.db.Exec(ctx, `DELETE FROM invitations WHERE id = $1`, id))
}
