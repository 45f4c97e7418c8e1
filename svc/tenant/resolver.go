package tenant

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
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// maxSlugLength matches the DNS label limit.
const maxSlugLength = 63

// Lookup is the storage the resolver reads.
type Lookup interface {
	GetOrganizationBySlug(ctx context.Context, slug string) (*store.Organization, error)
	GetUser(ctx context.Context, id uuid.UUID) (*store.User, error)
	GetMember(ctx context.Context, orgID, userID uuid.UUID) (*store.Member, error)
}

// DenialRecorder observes failed resolutions.
type DenialRecorder interface {
	RecordDenial(code apperr.Code)
}

// Resolver turns hints into trusted organization ids.
type Resolver struct {
	lookup  Lookup
	cache   SlugCache
	logger  *slog.Logger
	denials DenialRecorder
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCache sets the slug cache. Defaults to NoopCache.
func WithCache(c SlugCache) Option {
	return func(r *Resolver) {
		if c != nil {
			r.cache = c
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

func WithDenialRecorder(d DenialRecorder) Option {
	return func(r *Resolver) { r.denials = d }
}

// NewResolver creates a resolver reading from lookup.
func NewResolver(lookup Lookup, opts ...Option) *Resolver {
	r := &Resolver{
		lookup: lookup,
		cache:  NoopCache{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Candidate returns the organization id the caller asked for without
// checking membership. A zero hint selects the stored active organization.
func (r *Resolver) Candidate(ctx context.Context, userID uuid.UUID, hint tenant.Hint) (uuid.UUID, error) {
	if hint.IsZero() {
		return r.activeOrg(ctx, userID)
	}

	switch hint.Kind {
	case tenant.KindID:
		id, err := uuid.Parse(hint.Value)
		if err != nil || id == uuid.Nil {
			return uuid.Nil, r.reject(ctx, hint, "malformed organization id")
		}
		return id, nil
	case tenant.KindSlug:
		return r.bySlug(ctx, hint)
	default:
		return uuid.Nil, r.reject(ctx, hint, "unsupported hint kind")
	}
}

// Resolve returns a membership-checked organization id for userID.
func (r *Resolver) Resolve(ctx context.Context, userID uuid.UUID, hint tenant.Hint) (uuid.UUID, error) {
	orgID, err := r.Candidate(ctx, userID, hint)
	if err != nil {
		return uuid.Nil, err
	}

	_, err = r.lookup.GetMember(ctx, orgID, userID)
	if errors.Is(err, store.ErrNotFound) {
		return uuid.Nil, r.reject(ctx, hint, "caller is not a member")
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("tenant: load membership: %w", err)
	}
	return orgID, nil
}

// Forget evicts a slug mapping, e.g. after the organization is deleted.
func (r *Resolver) Forget(ctx context.Context, slug string) {
	if err := r.cache.Delete(ctx, slug); err != nil {
		r.logger.WarnContext(ctx, "failed to evict tenant slug", slog.String("slug", slug), logger.Error(err))
	}
}

func (r *Resolver) activeOrg(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	u, err := r.lookup.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		r.deny()
		return uuid.Nil, ErrNoTenant
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("tenant: load user: %w", err)
	}
	if !u.ActiveOrgID.Valid || u.ActiveOrgID.UUID == uuid.Nil {
		r.deny()
		return uuid.Nil, ErrNoTenant
	}
	return u.ActiveOrgID.UUID, nil
}

func (r *Resolver) bySlug(ctx context.Context, hint tenant.Hint) (uuid.UUID, error) {
	slug := hint.Value
	if slug == "" || len(slug) > maxSlugLength {
		return uuid.Nil, r.reject(ctx, hint, "malformed slug")
	}

	id, ok, err := r.cache.Get(ctx, slug)
	if err != nil {
		r.logger.WarnContext(ctx, "tenant cache unavailable", slog.String("slug", slug), logger.Error(err))
	}
	if ok {
		return id, nil
	}

	org, err := r.lookup.GetOrganizationBySlug(ctx, slug)
	if errors.Is(err, store.ErrNotFound) {
		return uuid.Nil, r.reject(ctx, hint, "unknown slug")
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("tenant: lookup slug: %w", err)
	}

	if err := r.cache.Set(ctx, slug, org.ID); err != nil {
		r.logger.WarnContext(ctx, "failed to cache tenant slug", slog.String("slug", slug), logger.Error(err))
	}
	return org.ID, nil
}

func (r *Resolver) reject(ctx context.Context, hint tenant.Hint, reason string) error {
	r.deny()
	r.logger.DebugContext(ctx, "tenant hint rejected",
		slog.String("source", hint.Source),
		slog.String("kind", hint.Kind.String()),
		slog.String("reason", reason),
	)
	return ErrNotResolved
}

func (r *Resolver) deny() {
	if r.denials != nil {
		r.denials.RecordDenial(apperr.CodeTenantNotSet)
	}
}
