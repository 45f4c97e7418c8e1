package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/tenantkit/internal/store"
)

func (q *queries) CreateOrganization(ctx context.Context, org *store.Organization) error {
	if org.ID == uuid.Nil {
		org.ID = uuid.New()
	}
	org.CreatedAt = q.stamp(org.CreatedAt)
	_, err := q.db.Exec(ctx,
		`INSERT INTO organizations (id, name, slug, created_at) VALUES ($1, $2, $3, $4)`,
		org.ID, org.Name, org.Slug, org.CreatedAt,
	)
	return mapError(err)
}

func (q *queries) GetOrganization(ctx context.Context, id uuid.UUID) (*store.Organization, error) {
	return q.getOrganization(ctx, `SELECT id, name, slug, created_at FROM organizations WHERE id = $1`, id)
}

func (q *queries) GetOrganizationBySlug(ctx context.Context, slug string) (*store.Organization, error) {
	return q.getOrganization(ctx, `SELECT id, name, slug, created_at FROM organizations WHERE slug = $1`, slug)
}

func (q *queries) getOrganization(ctx context.Context, sql string, arg any) (*store.Organization, error) {
	var o store.Organization
	if err := q.db.QueryRow(ctx, sql, arg).Scan(&o.ID, &o.Name, &o.Slug, &o.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	return &o, nil
}

func (q *queries) LockOrganization(ctx context.Context, id uuid.UUID) error {
	var one int
	err := q.db.QueryRow(ctx, `SELECT 1 FROM organizations WHERE id = $1 FOR UPDATE`, id).Scan(&one)
	return mapError(err)
}

func (q *queries) ListOrganizationsForUser(ctx context.Context, userID uuid.UUID) ([]store.Organization, error) {
	rows, err := q.db.Query(ctx, `
		SELECT o.id, o.name, o.slug, o.created_at
		FROM organizations o
		JOIN members m ON m.org_id = o.id
		WHERE m.user_id = $1
		ORDER BY o.name, o.id`, userID)
	if err != nil {
		return nil, mapError(err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (store.Organization, error) {
		var o store.Organization
		err := row.Scan(&o.ID, &o.Name, &o.Slug, &o.CreatedAt)
		return o, err
	})
}
