package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantkit/pkg/permission"
)

// Store is the persistence root. InTx runs fn atomically: every write made
// through q is committed together or not at all.
type Store interface {
	Querier
	InTx(ctx context.Context, fn func(ctx context.Context, q Querier) error) error
}

// Querier is the full set of reads and writes used by the services.
// Lookups return ErrNotFound when nothing matches; inserts return
// ErrDuplicate on uniqueness violations.
type Querier interface {
	OrganizationQuerier
	UserQuerier
	MemberQuerier
	RoleQuerier
	OverrideQuerier
	InvitationQuerier

	// SyncPermissions mirrors the catalog into storage and prunes grants
	// that no longer resolve against it.
	SyncPermissions(ctx context.Context, perms []permission.Permission) error
}

type OrganizationQuerier interface {
	CreateOrganization(ctx context.Context, org *Organization) error
	GetOrganization(ctx context.Context, id uuid.UUID) (*Organization, error)
	GetOrganizationBySlug(ctx context.Context, slug string) (*Organization, error)
	// LockOrganization serializes writers on the organization row until the
	// surrounding transaction ends.
	LockOrganization(ctx context.Context, id uuid.UUID) error
	ListOrganizationsForUser(ctx context.Context, userID uuid.UUID) ([]Organization, error)
}

type UserQuerier interface {
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	SetActiveOrganization(ctx context.Context, userID uuid.UUID, orgID uuid.NullUUID) error
}

type MemberQuerier interface {
	// AddMember inserts the member unless the pair already exists and
	// reports whether a row was created.
	AddMember(ctx context.Context, m Member) (bool, error)
	GetMember(ctx context.Context, orgID, userID uuid.UUID) (*Member, error)
	ListMembers(ctx context.Context, orgID uuid.UUID) ([]MemberWithUser, error)
	// RemoveMember also drops the user's role assignments and overrides in
	// the organization.
	RemoveMember(ctx context.Context, orgID, userID uuid.UUID) error
	SetOwner(ctx context.Context, orgID, userID uuid.UUID, isOwner bool) error
	CountOwners(ctx context.Context, orgID uuid.UUID) (int, error)
}

type RoleQuerier interface {
	CreateRole(ctx context.Context, role *Role) error
	GetRole(ctx context.Context, id uuid.UUID) (*Role, error)
	GetRoleByKey(ctx context.Context, orgID uuid.UUID, key string) (*Role, error)
	ListRoles(ctx context.Context, orgID uuid.UUID) ([]Role, error)
	RenameRole(ctx context.Context, id uuid.UUID, name string) error
	DeleteRole(ctx context.Context, id uuid.UUID) error
	SetRolePermissions(ctx context.Context, roleID uuid.UUID, tokens []permission.Token) error
	// AssignRole is idempotent.
	AssignRole(ctx context.Context, orgID, userID, roleID uuid.UUID) error
	UnassignRole(ctx context.Context, orgID, userID, roleID uuid.UUID) error
	// ListRoleTokens returns the union of tokens granted by every role the
	// user holds in the organization.
	ListRoleTokens(ctx context.Context, orgID, userID uuid.UUID) ([]permission.Token, error)
}

type OverrideQuerier interface {
	UpsertOverride(ctx context.Context, o Override) error
	DeleteOverride(ctx context.Context, orgID, userID uuid.UUID, key permission.Key) error
	ListOverrides(ctx context.Context, orgID, userID uuid.UUID) ([]Override, error)
}

type InvitationQuerier interface {
	// CreateInvitation returns ErrDuplicate when an unaccepted invitation for
	// the same (org, email) already exists.
	CreateInvitation(ctx context.Context, inv *Invitation) error
	GetInvitation(ctx context.Context, id uuid.UUID) (*Invitation, error)
	GetInvitationByTokenHash(ctx context.Context, hash []byte) (*Invitation, error)
	// LockInvitation re-reads the row and holds it until the transaction ends.
	LockInvitation(ctx context.Context, id uuid.UUID) (*Invitation, error)
	// FindOpenInvitation returns the unaccepted invitation for (org, email),
	// expired or not.
	FindOpenInvitation(ctx context.Context, orgID uuid.UUID, email string) (*Invitation, error)
	ListInvitations(ctx context.Context, orgID uuid.UUID) ([]Invitation, error)
	MarkInvitationAccepted(ctx context.Context, id uuid.UUID, at time.Time) error
	DeleteInvitation(ctx context.Context, id uuid.UUID) error
}
