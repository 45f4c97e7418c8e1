package tenant

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type orgIDCtxKey struct{}

// WithOrgID stores the resolved, membership-checked organization id.
func WithOrgID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, orgIDCtxKey{}, id)
}

// OrgIDFromContext returns the resolved organization id.
func OrgIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(orgIDCtxKey{}).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// NullOrgIDFromContext returns the id as uuid.NullUUID, invalid when unset.
func NullOrgIDFromContext(ctx context.Context) uuid.NullUUID {
	id, ok := OrgIDFromContext(ctx)
	return uuid.NullUUID{UUID: id, Valid: ok}
}

// LoggerExtractor adds org_id to log records.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := OrgIDFromContext(ctx); ok {
			return slog.String("org_id", id.String()), true
		}
		return slog.Attr{}, false
	}
}
