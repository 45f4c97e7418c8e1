package invitation

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantkit/internal/store"
	"github.com/dmitrymomot/tenantkit/pkg/invitation"
)

// Expiry bounds in days.
const (
	MinExpiryDays     = 1
	MaxExpiryDays     = 30
	DefaultExpiryDays = 7
)

// CreateParams describe a new invitation. Zero ExpiresInDays selects the
// service default.
type CreateParams struct {
	OrgID         uuid.UUID
	ActorID       uuid.UUID
	Email         string
	RoleID        uuid.NullUUID
	ExpiresInDays int
}

// Summary is the public view of an invitation. It never carries the token.
type Summary struct {
	ID               uuid.UUID        `json:"id"`
	OrganizationID   uuid.UUID        `json:"organization_id"`
	OrganizationName string           `json:"organization_name"`
	OrganizationSlug string           `json:"organization_slug"`
	Email            string           `json:"email"`
	RoleID           uuid.NullUUID    `json:"role_id"`
	RoleName         string           `json:"role_name,omitempty"`
	InvitedBy        uuid.UUID        `json:"invited_by"`
	ExpiresAt        time.Time        `json:"expires_at"`
	AcceptedAt       *time.Time       `json:"accepted_at,omitempty"`
	Expired          bool             `json:"expired"`
	State            invitation.State `json:"state"`
}

// Created is returned once by Create.
type Created struct {
	Summary
	Token     string `json:"token"`
	AcceptURL string `json:"accept_url"`
	// EmailSent is false when delivery failed; the invitation still exists.
	EmailSent bool `json:"email_sent"`
}

// Accepted reports the outcome of Accept.
type Accepted struct {
	OrganizationID uuid.UUID     `json:"organization_id"`
	RoleID         uuid.NullUUID `json:"role_id"`
	// NewMember is false when the user already belonged to the organization.
	NewMember bool `json:"new_member"`
}

func summarize(inv *store.Invitation, org *store.Organization, role *store.Role, now time.Time) Summary {
	s := Summary{
		ID:         inv.ID,
		Email:      inv.Email,
		RoleID:     inv.RoleID,
		InvitedBy:  inv.InvitedBy,
		ExpiresAt:  inv.ExpiresAt,
		AcceptedAt: inv.AcceptedAt,
		Expired:    inv.Expired(now),
		State:      invitation.StateAt(inv.AcceptedAt, inv.ExpiresAt, now),
	}
	s.OrganizationID = inv.OrgID
	if org != nil {
		s.OrganizationName = org.Name
		s.OrganizationSlug = org.Slug
	}
	if role != nil {
		s.RoleName = role.Name
	}
	return s
}
