// Package memory is an in-process implementation of store.Store.
//
// A single mutex serializes every call. InTx holds it for the whole
// callback and restores a snapshot when the callback fails, which gives
// the same all-or-nothing behavior the services rely on from Postgres.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantkit/internal/store"
	"github.com/dmitrymomot/tenantkit/pkg/permission"
)

// Store implements store.Store in memory.
type Store struct {
	mu sync.Mutex
	d  *data
}

var _ store.Store = (*Store)(nil)

// Option configures the store.
type Option func(*Store)

// WithClock sets the clock used for created_at stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.d.now = now
		}
	}
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{d: newData(time.Now)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// InTx runs fn with exclusive access and rolls back on error or panic.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, q store.Querier) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.d.clone()
	defer func() {
		if p := recover(); p != nil {
			s.d = snapshot
			panic(p)
		}
		if err != nil {
			s.d = snapshot
		}
	}()

	return fn(ctx, s.d)
}

func call[T any](s *Store, fn func(d *data) (T, error)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.d)
}

func exec(s *Store, fn func(d *data) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.d)
}

func (s *Store) CreateOrganization(ctx context.Context, org *store.Organization) error {
	return exec(s, func(d *data) error { return d.CreateOrganization(ctx, org) })
}

func (s *Store) GetOrganization(ctx context.Context, id uuid.UUID) (*store.Organization, error) {
	return call(s, func(d *data) (*store.Organization, error) { return d.GetOrganization(ctx, id) })
}

func (s *Store) GetOrganizationBySlug(ctx context.Context, slug string) (*store.Organization, error) {
	return call(s, func(d *data) (*store.Organization, error) { return d.GetOrganizationBySlug(ctx, slug) })
}

func (s *Store) LockOrganization(ctx context.Context, id uuid.UUID) error {
	return exec(s, func(d *data) error { return d.LockOrganization(ctx, id) })
}

func (s *Store) ListOrganizationsForUser(ctx context.Context, userID uuid.UUID) ([]store.Organization, error) {
	return call(s, func(d *data) ([]store.Organization, error) { return d.ListOrganizationsForUser(ctx, userID) })
}

func (s *Store) CreateUser(ctx context.Context, user *store.User) error {
	return exec(s, func(d *data) error { return d.CreateUser(ctx, user) })
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*store.User, error) {
	return call(s, func(d *data) (*store.User, error) { return d.GetUser(ctx, id) })
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*store.User, error) {
	return call(s, func(d *data) (*store.User, error) { return d.GetUserByEmail(ctx, email) })
}

func (s *Store) SetActiveOrganization(ctx context.Context, userID uuid.UUID, orgID uuid.NullUUID) error {
	return exec(s, func(d *data) error { return d.SetActiveOrganization(ctx, userID, orgID) })
}

func (s *Store) AddMember(ctx context.Context, m store.Member) (bool, error) {
	return call(s, func(d *data) (bool, error) { return d.AddMember(ctx, m) })
}

func (s *Store) GetMember(ctx context.Context, orgID, userID uuid.UUID) (*store.Member, error) {
	return call(s, func(d *data) (*store.Member, error) { return d.GetMember(ctx, orgID, userID) })
}

func (s *Store) ListMembers(ctx context.Context, orgID uuid.UUID) ([]store.MemberWithUser, error) {
	return call(s, func(d *data) ([]store.MemberWithUser, error) { return d.ListMembers(ctx, orgID) })
}

func (s *Store) RemoveMember(ctx context.Context, orgID, userID uuid.UUID) error {
	return exec(s, func(d *data) error { return d.RemoveMember(ctx, orgID, userID) })
}

func (s *Store) SetOwner(ctx context.Context, orgID, userID uuid.UUID, isOwner bool) error {
	return exec(s, func(d *data) error { return d.SetOwner(ctx, orgID, userID, isOwner) })
}

func (s *Store) CountOwners(ctx context.Context, orgID uuid.UUID) (int, error) {
	return call(s, func(d *data) (int, error) { return d.CountOwners(ctx, orgID) })
}

func (s *Store) CreateRole(ctx context.Context, role *store.Role) error {
	return exec(s, func(d *data) error { return d.CreateRole(ctx, role) })
}

func (s *Store) GetRole(ctx context.Context, id uuid.UUID) (*store.Role, error) {
	return call(s, func(d *data) (*store.Role, error) { return d.GetRole(ctx, id) })
}

func (s *Store) GetRoleByKey(ctx context.Context, orgID uuid.UUID, key string) (*store.Role, error) {
	return call(s, func(d *data) (*store.Role, error) { return d.GetRoleByKey(ctx, orgID, key) })
}

func (s *Store) ListRoles(ctx context.Context, orgID uuid.UUID) ([]store.Role, error) {
	return call(s, func(d *data) ([]store.Role, error) { return d.ListRoles(ctx, orgID) })
}

func (s *Store) RenameRole(ctx context.Context, id uuid.UUID, name string) error {
	return exec(s, func(d *data) error { return d.RenameRole(ctx, id, name) })
}

func (s *Store) DeleteRole(ctx context.Context, id uuid.UUID) error {
	return exec(s, func(d *data) error { return d.DeleteRole(ctx, id) })
}

func (s *Store) SetRolePermissions(ctx context.Context, roleID uuid.UUID, tokens []permission.Token) error {
	return exec(s, func(d *data) error { return d.SetRolePermissions(ctx, roleID, tokens) })
}

func (s *Store) AssignRole(ctx context.Context, orgID, userID, roleID uuid.UUID) error {
	return exec(s, func(d *data) error { return d.AssignRole(ctx, orgID, userID, roleID) })
}

func (s *Store) UnassignRole(ctx context.Context, orgID, userID, roleID uuid.UUID) error {
	return exec(s, func(d *data) error { return d.UnassignRole(ctx, orgID, userID, roleID) })
}

func (s *Store) ListRoleTokens(ctx context.Context, orgID, userID uuid.UUID) ([]permission.Token, error) {
	return call(s, func(d *data) ([]permission.Token, error) { return d.ListRoleTokens(ctx, orgID, userID) })
}

func (s *Store) UpsertOverride(ctx context.Context, o store.Override) error {
	return exec(s, func(d *data) error { return d.UpsertOverride(ctx, o) })
}

func (s *Store) DeleteOverride(ctx context.Context, orgID, userID uuid.UUID, key permission.Key) error {
	return exec(s, func(d *data) error { return d.DeleteOverride(ctx, orgID, userID, key) })
}

func (s *Store) ListOverrides(ctx context.Context, orgID, userID uuid.UUID) ([]store.Override, error) {
	return call(s, func(d *data) ([]store.Override, error) { return d.ListOverrides(ctx, orgID, userID) })
}

func (s *Store) CreateInvitation(ctx context.Context, inv *store.Invitation) error {
	return exec(s, func(d *data) error { return d.CreateInvitation(ctx, inv) })
}

func (s *Store) GetInvitation(ctx context.Context, id uuid.UUID) (*store.Invitation, error) {
	return call(s, func(d *data) (*store.Invitation, error) { return d.GetInvitation(ctx, id) })
}

func (s *Store) GetInvitationByTokenHash(ctx context.Context, hash []byte) (*store.Invitation, error) {
	return call(s, func(d *data) (*store.Invitation, error) { return d.GetInvitationByTokenHash(ctx, hash) })
}

func (s *Store) LockInvitation(ctx context.Context, id uuid.UUID) (*store.Invitation, error) {
	return call(s, func(d *data) (*store.Invitation, error) { return d.LockInvitation(ctx, id) })
}

func (s *Store) FindOpenInvitation(ctx context.Context, orgID uuid.UUID, email string) (*store.Invitation, error) {
	return call(s, func(d *data) (*store.Invitation, error) { return d.FindOpenInvitation(ctx, orgID, email) })
}

func (s *Store) ListInvitations(ctx context.Context, orgID uuid.UUID) ([]store.Invitation, error) {
	return call(s, func(d *data) ([]store.Invitation, error) { return d.ListInvitations(ctx, orgID) })
}

func (s *Store) MarkInvitationAccepted(ctx context.Context, id uuid.UUID, at time.Time) error {
	return exec(s, func(d *data) error { return d.MarkInvitationAccepted(ctx, id, at) })
}

func (s *Store) DeleteInvitation(ctx context.Context, id uuid.UUID) error {
	return exec(s, func(d *data) error { return d.DeleteInvitation(ctx, id) })
}

func (s *Store) SyncPermissions(ctx context.Context, perms []permission.Permission) error {
	return exec(s, func(d *data) error { return d.SyncPermissions(ctx, perms) })
}
