package access

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantkit/internal/store"
	"github.com/dmitrymomot/tenantkit/pkg/apperr"
	"github.com/dmitrymomot/tenantkit/pkg/logger"
	"github.com/dmitrymomot/tenantkit/pkg/permission"
	"github.com/dmitrymomot/tenantkit/pkg/rbac"
)

// Reader is the subset of store.Querier the guard reads from.
type Reader interface {
	GetMember(ctx context.Context, orgID, userID uuid.UUID) (*store.Member, error)
	ListRoleTokens(ctx context.Context, orgID, userID uuid.UUID) ([]permission.Token, error)
	ListOverrides(ctx context.Context, orgID, userID uuid.UUID) ([]store.Override, error)
}

// DenialRecorder observes authorization failures.
type DenialRecorder interface {
	RecordDenial(code apperr.Code)
}

// Guard checks membership and permissions.
type Guard struct {
	reader   Reader
	resolver *rbac.Resolver
	logger   *slog.Logger
	denials  DenialRecorder
}

// Option configures a Guard.
type Option func(*Guard)

func WithLogger(l *slog.Logger) Option {
	return func(g *Guard) {
		if l != nil {
			g.logger = l
		}
	}
}

func WithDenialRecorder(r DenialRecorder) Option {
	return func(g *Guard) { g.denials = r }
}

// NewGuard returns a guard reading memberships and grants from reader.
func NewGuard(reader Reader, resolver *rbac.Resolver, opts ...Option) *Guard {
	g := &Guard{
		reader:   reader,
		resolver: resolver,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// WithReader returns a copy of the guard reading through r, typically a
// transaction-bound querier.
func (g *Guard) WithReader(r Reader) *Guard {
	c := *g
	c.reader = r
	return &c
}

// AssertOrgResolved fails with TENANT_NOT_SET when orgID is absent.
func (g *Guard) AssertOrgResolved(orgID uuid.NullUUID) (uuid.UUID, error) {
	if !orgID.Valid || orgID.UUID == uuid.Nil {
		g.deny(apperr.CodeTenantNotSet)
		return uuid.Nil, ErrOrgNotResolved
	}
	return orgID.UUID, nil
}

// AssertOrgMembership fails with TENANT_FORBIDDEN unless the user is a
// member of the organization.
func (g *Guard) AssertOrgMembership(ctx context.Context, orgID, userID uuid.UUID) error {
	_, err := g.member(ctx, orgID, userID)
	return err
}

// AssertOwner requires membership with the owner flag.
func (g *Guard) AssertOwner(ctx context.Context, orgID, userID uuid.UUID) error {
	m, err := g.member(ctx, orgID, userID)
	if err != nil {
		return err
	}
	if !m.IsOwner {
		g.deny(apperr.CodePermissionDenied)
		return ErrNotOwner
	}
	return nil
}

// AssertPermissions requires membership and every key in required.
// Owners pass without resolution. The error lists the missing keys.
func (g *Guard) AssertPermissions(ctx context.Context, orgID, userID uuid.UUID, required ...permission.Key) error {
	m, err := g.member(ctx, orgID, userID)
	if err != nil {
		return err
	}
	if m.IsOwner {
		return nil
	}

	abilities, err := g.abilities(ctx, m)
	if err != nil {
		return err
	}

	if missing := abilities.Missing(required...); len(missing) > 0 {
		g.deny(apperr.CodePermissionDenied)
		g.logger.DebugContext(ctx, "permission denied",
			logger.OrgID(orgID),
			logger.UserID(userID),
			slog.Any("missing", permission.KeyStrings(missing)),
		)
		return apperr.PermissionDenied(permission.KeyStrings(missing)...)
	}
	return nil
}

// Abilities returns the user's effective set in the organization after
// checking membership.
func (g *Guard) Abilities(ctx context.Context, orgID, userID uuid.UUID) (permission.Set, error) {
	m, err := g.member(ctx, orgID, userID)
	if err != nil {
		return nil, err
	}
	return g.abilities(ctx, m)
}

func (g *Guard) member(ctx context.Context, orgID, userID uuid.UUID) (*store.Member, error) {
	if orgID == uuid.Nil {
		g.deny(apperr.CodeTenantNotSet)
		return nil, ErrOrgNotResolved
	}
	m, err := g.reader.GetMember(ctx, orgID, userID)
	if errors.Is(err, store.ErrNotFound) {
		g.deny(apperr.CodeTenantForbidden)
		return nil, ErrNotMember
	}
	if err != nil {
		return nil, fmt.Errorf("access: load membership: %w", err)
	}
	return m, nil
}

func (g *Guard) abilities(ctx context.Context, m *store.Member) (permission.Set, error) {
	return rbac.Memoize(ctx, m.OrgID, m.UserID, func() (permission.Set, error) {
		grants := rbac.Grants{Owner: m.IsOwner}
		if !m.IsOwner {
			tokens, err := g.reader.ListRoleTokens(ctx, m.OrgID, m.UserID)
			if err != nil {
				return nil, fmt.Errorf("access: load role grants: %w", err)
			}
			overrides, err := g.reader.ListOverrides(ctx, m.OrgID, m.UserID)
			if err != nil {
				return nil, fmt.Errorf("access: load overrides: %w", err)
			}
			grants.Roles = tokens
			grants.Allow, grants.Deny = splitOverrides(overrides)
		}

		set, err := g.resolver.Resolve(grants)
		if err != nil {
			g.logger.ErrorContext(ctx, "failed to resolve abilities",
				logger.OrgID(m.OrgID),
				logger.UserID(m.UserID),
				logger.Error(err),
			)
			return nil, err
		}
		return set, nil
	})
}

func (g *Guard) deny(code apperr.Code) {
	if g.denials != nil {
		g.denials.RecordDenial(code)
	}
}

func splitOverrides(rows []store.Override) (allow, deny []permission.Token) {
	overrides := make([]rbac.Override, len(rows))
	for i, o := range rows {
		overrides[i] = rbac.Override{Key: permission.Token(o.Key), Mode: o.Mode}
	}
	return rbac.SplitOverrides(overrides)
}
