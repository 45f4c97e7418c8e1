package organization

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantkit/internal/store"
	"github.com/dmitrymomot/tenantkit/pkg/logger"
	"github.com/dmitrymomot/tenantkit/pkg/permission"
	"github.com/dmitrymomot/tenantkit/pkg/rbac"
	"github.com/dmitrymomot/tenantkit/svc/access"
)

// Audit actions for members.
const (
	ActionMemberRemoved        = "member.removed"
	ActionMemberLeft           = "member.left"
	ActionOwnershipTransferred = "organization.ownership_transferred"
)

// ListMembers requires member:view.
func (s *Service) ListMembers(ctx context.Context, orgID, actorID uuid.UUID) ([]store.MemberWithUser, error) {
	if err := s.guard.AssertPermissions(ctx, orgID, actorID, permission.MemberView); err != nil {
		return nil, err
	}
	members, err := s.store.ListMembers(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// RemoveMember removes target from the organization. It requires
// member:delete, and only owners may remove another owner. The last owner
// can never be removed.
func (s *Service) RemoveMember(ctx context.Context, orgID, actorID, targetID uuid.UUID) error {
	err := s.tx(ctx, func(ctx context.Context, q store.Querier, g *access.Guard) error {
		if err := g.AssertPermissions(ctx, orgID, actorID, permission.MemberDelete); err != nil {
			return err
		}
		target, err := member(ctx, q, orgID, targetID)
		if err != nil {
			return err
		}
		if target.IsOwner && targetID != actorID {
			if err := g.AssertOwner(ctx, orgID, actorID); err != nil {
				return ErrOwnerRequired
			}
		}
		return removeMember(ctx, q, target)
	})
	if err != nil {
		return err
	}

	rbac.Forget(ctx, orgID, targetID)
	s.audit(ctx, ActionMemberRemoved, orgID, actorID, "member", targetID.String())
	s.logger.InfoContext(ctx, "member removed", logger.OrgID(orgID), logger.UserID(targetID))
	return nil
}

// Leave removes the caller from the organization.
func (s *Service) Leave(ctx context.Context, orgID, userID uuid.UUID) error {
	err := s.tx(ctx, func(ctx context.Context, q store.Querier, g *access.Guard) error {
		if err := g.AssertOrgMembership(ctx, orgID, userID); err != nil {
			return err
		}
		m, err := member(ctx, q, orgID, userID)
		if err != nil {
			return err
		}
		return removeMember(ctx, q, m)
	})
	if err != nil {
		return err
	}

	rbac.Forget(ctx, orgID, userID)
	s.audit(ctx, ActionMemberLeft, orgID, userID, "member", userID.String())
	return nil
}

// TransferOwnership moves the owner flag and the owner role from the caller
// to target in one step.
func (s *Service) TransferOwnership(ctx context.Context, orgID, actorID, targetID uuid.UUID) error {
	err := s.tx(ctx, func(ctx context.Context, q store.Querier, g *access.Guard) error {
		if err := g.AssertOwner(ctx, orgID, actorID); err != nil {
			return err
		}
		if _, err := member(ctx, q, orgID, targetID); err != nil {
			return err
		}
		if targetID == actorID {
			return nil
		}

		if err := q.SetOwner(ctx, orgID, targetID, true); err != nil {
			return fmt.Errorf("grant ownership: %w", err)
		}
		if err := q.SetOwner(ctx, orgID, actorID, false); err != nil {
			return fmt.Errorf("revoke ownership: %w", err)
		}

		ownerRole, err := q.GetRoleByKey(ctx, orgID, store.OwnerRoleKey)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("load owner role: %w", err)
		}
		if err := q.AssignRole(ctx, orgID, targetID, ownerRole.ID); err != nil {
			return fmt.Errorf("assign owner role: %w", err)
		}
		if err := q.UnassignRole(ctx, orgID, actorID, ownerRole.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("unassign owner role: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	rbac.ForgetOrg(ctx, orgID)
	s.audit(ctx, ActionOwnershipTransferred, orgID, actorID, "member", targetID.String())
	return nil
}

func removeMember(ctx context.Context, q store.Querier, m *store.Member) error {
	if m.IsOwner {
		// Held until commit so two owners cannot remove each other concurrently.
		if err := q.LockOrganization(ctx, m.OrgID); err != nil {
			return fmt.Errorf("lock organization: %w", err)
		}
		owners, err := q.CountOwners(ctx, m.OrgID)
		if err != nil {
			return fmt.Errorf("count owners: %w", err)
		}
		if owners <= 1 {
			return ErrLastOwner
		}
	}

	if err := q.RemoveMember(ctx, m.OrgID, m.UserID); err != nil {
		return fmt.Errorf("remove member: %w", err)
	}

	u, err := q.GetUser(ctx, m.UserID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if u.ActiveOrgID.Valid && u.ActiveOrgID.UUID == m.OrgID {
		if err := q.SetActiveOrganization(ctx, m.UserID, uuid.NullUUID{}); err != nil {
			return fmt.Errorf("clear active organization: %w", err)
		}
	}
	return nil
}
