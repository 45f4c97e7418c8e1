package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/tenantkit/pkg/audit"
)

// AuditStorage writes audit events to the audit_events table.
type AuditStorage struct {
	pool *pgxpool.Pool
}

var _ audit.Storage = (*AuditStorage)(nil)

func NewAuditStorage(pool *pgxpool.Pool) *AuditStorage {
	return &AuditStorage{pool: pool}
}

// Store inserts events in one round trip.
func (s *AuditStorage) Store(ctx context.Context, events ...audit.Event) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([][]any, len(events))
	for i, e := range events {
		var metadata any
		if len(e.Metadata) > 0 {
			metadata = e.Metadata
		}
		rows[i] = []any{
			e.ID, e.OrgID, e.ActorID, e.Action, e.Resource, e.ResourceID,
			string(e.Result), e.Error, e.RequestID, metadata, e.CreatedAt,
		}
	}
	_, err := s.pool.CopyFrom(ctx,
		pgx.Identifier{"audit_events"},
		[]string{"id", "org_id", "actor_id", "action", "resource", "resource_id", "result", "error", "request_id", "metadata", "created_at"},
		pgx.CopyFromRows(rows),
	)
	return mapError(err)
}

// ListAuditEvents returns the newest events of an organization.
func (s *AuditStorage) ListAuditEvents(ctx context.Context, orgID uuid.UUID, limit int) ([]audit.Event, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, org_id, actor_id, action, resource, resource_id, result, error, request_id, metadata, created_at
		FROM audit_events
		WHERE org_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2`, orgID, limit)
	if err != nil {
		return nil, mapError(err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (audit.Event, error) {
		var (
			e      audit.Event
			result string
		)
		err := row.Scan(&e.ID, &e.OrgID, &e.ActorID, &e.Action, &e.Resource, &e.ResourceID,
			&result, &e.Error, &e.RequestID, &e.Metadata, &e.CreatedAt)
		e.Result = audit.Result(result)
		return e, err
	})
}
