package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantkit/internal/store"
)

func (q *queries) CreateUser(ctx context.Context, user *store.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = q.stamp(user.CreatedAt)
	_, err := q.db.Exec(ctx,
		`INSERT INTO users (id, email, active_org_id, created_at) VALUES ($1, $2, $3, $4)`,
		user.ID, user.Email, user.ActiveOrgID, user.CreatedAt,
	)
	return mapError(err)
}

func (q *queries) GetUser(ctx context.Context, id uuid.UUID) (*store.User, error) {
	return q.getUser(ctx, `SELECT id, email, active_org_id, created_at FROM users WHERE id = $1`, id)
}

func (q *queries) GetUserByEmail(ctx context.Context, email string) (*store.User, error) {
	return q.getUser(ctx, `SELECT id, email, active_org_id, created_at FROM users WHERE lower(email) = lower($1)`, email)
}

func (q *queries) getUser(ctx context.Context, sql string, arg any) (*store.User, error) {
	var u store.User
	if err := q.db.QueryRow(ctx, sql, arg).Scan(&u.ID, &u.Email, &u.ActiveOrgID, &u.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

func (q *queries) SetActiveOrganization(ctx context.Context, userID uuid.UUID, orgID uuid.NullUUID) error {
	return affected(q.db.Exec(ctx, `UPDATE users SET active_org_id = $2 WHERE id = $1`, userID, orgID))
}
