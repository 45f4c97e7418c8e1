package organization

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantkit/internal/store"
	"github.com/dmitrymomot/tenantkit/pkg/audit"
	"github.com/dmitrymomot/tenantkit/pkg/logger"
	"github.com/dmitrymomot/tenantkit/pkg/permission"
	"github.com/dmitrymomot/tenantkit/svc/access"
)

// Auditor records state changes.
type Auditor interface {
	Log(ctx context.Context, action string, opts ...audit.EventOption) error
}

// Service administers organizations.
type Service struct {
	store   store.Store
	guard   *access.Guard
	catalog *permission.Catalog
	auditor Auditor
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

func WithAuditor(a Auditor) Option {
	return func(s *Service) { s.auditor = a }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates the service. catalog validates role and override
// permissions.
func NewService(st store.Store, guard *access.Guard, catalog *permission.Catalog, opts ...Option) *Service {
	s := &Service{
		store:   st,
		guard:   guard,
		catalog: catalog,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// tx runs fn in a transaction with a guard bound to it.
func (s *Service) tx(ctx context.Context, fn func(ctx context.Context, q store.Querier, g *access.Guard) error) error {
	return s.store.InTx(ctx, func(ctx context.Context, q store.Querier) error {
		return fn(ctx, q, s.guard.WithReader(q))
	})
}

func (s *Service) audit(ctx context.Context, action string, orgID, actorID uuid.UUID, resource, resourceID string, opts ...audit.EventOption) {
	if s.auditor == nil {
		return
	}
	opts = append(opts,
		audit.WithOrgID(orgID),
		audit.WithActorID(actorID),
		audit.WithResource(resource, resourceID),
	)
	if err := s.auditor.Log(ctx, action, opts...); err != nil {
		s.logger.WarnContext(ctx, "failed to write audit event",
			logger.Event(action),
			logger.OrgID(orgID),
			logger.Error(err),
		)
	}
}

// member loads a target member, mapping absence to ErrMemberNotFound.
func member(ctx context.Context, q store.Querier, orgID, userID uuid.UUID) (*store.Member, error) {
	m, err := q.GetMember(ctx, orgID, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load member: %w", err)
	}
	return m, nil
}
