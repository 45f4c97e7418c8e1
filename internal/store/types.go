package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantkit/pkg/permission"
	"github.com/dmitrymomot/tenantkit/pkg/rbac"
)

// OwnerRoleKey is the reserved role every organization is seeded with.
const OwnerRoleKey = "owner"

type Organization struct {
	ID        uuid.UUID
	Name      string
	Slug      string
	CreatedAt time.Time
}

type User struct {
	ID    uuid.UUID
	Email string
	// ActiveOrgID is the last tenant the user worked in.
	ActiveOrgID uuid.NullUUID
	CreatedAt   time.Time
}

type Member struct {
	OrgID     uuid.UUID
	UserID    uuid.UUID
	IsOwner   bool
	CreatedAt time.Time
}

// MemberWithUser is a member row joined with the user's email.
type MemberWithUser struct {
	Member
	Email string
}

type Role struct {
	ID    uuid.UUID
	OrgID uuid.UUID
	// Key is immutable after creation.
	Key         string
	Name        string
	Permissions []permission.Token
	CreatedAt   time.Time
}

type Override struct {
	OrgID     uuid.UUID
	UserID    uuid.UUID
	Key       permission.Key
	Mode      rbac.OverrideMode
	CreatedAt time.Time
}

type Invitation struct {
	ID    uuid.UUID
	OrgID uuid.UUID
	Email string
	// RoleID is attached to the new member on acceptance when valid.
	RoleID     uuid.NullUUID
	InvitedBy  uuid.UUID
	TokenHash  []byte
	ExpiresAt  time.Time
	AcceptedAt *time.Time
	CreatedAt  time.Time
}

// Expired reports whether the invitation is past its expiry at now.
func (i *Invitation) Expired(now time.Time) bool {
	return !i.ExpiresAt.After(now)
}

// Accepted reports whether the invitation has been redeemed.
func (i *Invitation) Accepted() bool {
	return i.AcceptedAt != nil
}
