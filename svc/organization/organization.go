package organization

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantkit/internal/store"
	"github.com/dmitrymomot/tenantkit/pkg/logger"
	"github.com/dmitrymomot/tenantkit/pkg/permission"
	"github.com/dmitrymomot/tenantkit/pkg/slug"
	"github.com/dmitrymomot/tenantkit/svc/access"
)

const maxNameLength = 100

// Audit actions for organizations.
const (
	ActionOrganizationCreated = "organization.created"
	ActionActiveSwitched      = "organization.switched"
)

// CreateParams describe a new organization. An empty Slug is derived from Name.
type CreateParams struct {
	UserID uuid.UUID
	Name   string
	Slug   string
}

// Create makes a new organization owned by the caller. The caller becomes
// an owner member holding the reserved owner role, and the organization
// becomes their active one.
func (s *Service) Create(ctx context.Context, p CreateParams) (*store.Organization, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return nil, ErrInvalidName
	}
	sl := strings.ToLower(strings.TrimSpace(p.Slug))
	if sl == "" {
		sl = slug.Make(name)
	}
	if !slug.Valid(sl) {
		return nil, ErrInvalidSlug
	}

	org := &store.Organization{Name: name, Slug: sl, CreatedAt: s.now().UTC()}
	err := s.store.InTx(ctx, func(ctx context.Context, q store.Querier) error {
		err := q.CreateOrganization(ctx, org)
		if errors.Is(err, store.ErrDuplicate) {
			return ErrSlugTaken
		}
		if err != nil {
			return fmt.Errorf("create organization: %w", err)
		}

		if _, err := q.AddMember(ctx, store.Member{OrgID: org.ID, UserID: p.UserID, IsOwner: true}); err != nil {
			return fmt.Errorf("add owner: %w", err)
		}

		owner := &store.Role{OrgID: org.ID, Key: store.OwnerRoleKey, Name: "Owner"}
		if err := q.CreateRole(ctx, owner); err != nil {
			return fmt.Errorf("create owner role: %w", err)
		}
		if err := q.SetRolePermissions(ctx, owner.ID, []permission.Token{permission.Wildcard}); err != nil {
			return fmt.Errorf("grant owner role: %w", err)
		}
		if err := q.AssignRole(ctx, org.ID, p.UserID, owner.ID); err != nil {
			return fmt.Errorf("assign owner role: %w", err)
		}

		if err := q.SetActiveOrganization(ctx, p.UserID, uuid.NullUUID{UUID: org.ID, Valid: true}); err != nil {
			return fmt.Errorf("set active organization: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit(ctx, ActionOrganizationCreated, org.ID, p.UserID, "organization", org.ID.String())
	s.logger.InfoContext(ctx, "organization created", logger.OrgID(org.ID), logger.UserID(p.UserID))
	return org, nil
}

// Get returns an organization the caller belongs to.
func (s *Service) Get(ctx context.Context, orgID, actorID uuid.UUID) (*store.Organization, error) {
	if err := s.guard.AssertOrgMembership(ctx, orgID, actorID); err != nil {
		return nil, err
	}
	org, err := s.store.GetOrganization(ctx, orgID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load organization: %w", err)
	}
	return org, nil
}

// ListForUser returns every organization the user belongs to.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]store.Organization, error) {
	orgs, err := s.store.ListOrganizationsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	return orgs, nil
}

// SwitchActive stores orgID as the user's active organization after
// checking membership.
func (s *Service) SwitchActive(ctx context.Context, userID, orgID uuid.UUID) error {
	err := s.tx(ctx, func(ctx context.Context, q store.Querier, g *access.Guard) error {
		if err := g.AssertOrgMembership(ctx, orgID, userID); err != nil {
			return err
		}
		if err := q.SetActiveOrganization(ctx, userID, uuid.NullUUID{UUID: orgID, Valid: true}); err != nil {
			return fmt.Errorf("set active organization: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.audit(ctx, ActionActiveSwitched, orgID, userID, "user", userID.String())
	return nil
}

// Abilities returns the caller's sorted effective permission keys.
func (s *Service) Abilities(ctx context.Context, orgID, userID uuid.UUID) ([]string, error) {
	set, err := s.guard.Abilities(ctx, orgID, userID)
	if err != nil {
		return nil, err
	}
	return set.Strings(), nil
}
