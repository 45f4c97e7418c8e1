package organization

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantkit/internal/store"
	"github.com/dmitrymomot/tenantkit/pkg/audit"
	"github.com/dmitrymomot/tenantkit/pkg/permission"
	"github.com/dmitrymomot/tenantkit/pkg/rbac"
	"github.com/dmitrymomot/tenantkit/svc/access"
)

// Audit actions for roles.
const (
	ActionRoleCreated        = "role.created"
	ActionRoleRenamed        = "role.renamed"
	ActionRoleDeleted        = "role.deleted"
	ActionRolePermissionsSet = "role.permissions_set"
	ActionRoleAssigned       = "role.assigned"
	ActionRoleUnassigned     = "role.unassigned"
)

var roleKeyPattern = regexp.MustCompile(`^[a-z][a-z0-9_-]{0,62}$`)

// CreateRoleParams describe a new role.
type CreateRoleParams struct {
	OrgID       uuid.UUID
	ActorID     uuid.UUID
	Key         string
	Name        string
	Permissions []string
}

// ListRoles requires role:view.
func (s *Service) ListRoles(ctx context.Context, orgID, actorID uuid.UUID) ([]store.Role, error) {
	if err := s.guard.AssertPermissions(ctx, orgID, actorID, permission.RoleView); err != nil {
		return nil, err
	}
	roles, err := s.store.ListRoles(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

// CreateRole requires role:create. Permissions may contain wildcards; they
// are stored as granted and expanded at resolution time.
func (s *Service) CreateRole(ctx context.Context, p CreateRoleParams) (*store.Role, error) {
	role := &store.Role{OrgID: p.OrgID}
	err := s.tx(ctx, func(ctx context.Context, q store.Querier, g *access.Guard) error {
		if err := g.AssertPermissions(ctx, p.OrgID, p.ActorID, permission.RoleCreate); err != nil {
			return err
		}

		key := strings.TrimSpace(p.Key)
		if key == store.OwnerRoleKey {
			return ErrReservedRole
		}
		if !roleKeyPattern.MatchString(key) {
			return ErrInvalidRoleKey
		}
		name, err := roleName(p.Name)
		if err != nil {
			return err
		}
		tokens, err := s.parseGrants(p.Permissions)
		if err != nil {
			return err
		}

		role.Key, role.Name = key, name
		err = q.CreateRole(ctx, role)
		if errors.Is(err, store.ErrDuplicate) {
			return ErrRoleKeyTaken
		}
		if err != nil {
			return fmt.Errorf("create role: %w", err)
		}
		if err := q.SetRolePermissions(ctx, role.ID, tokens); err != nil {
			return fmt.Errorf("set role permissions: %w", err)
		}
		role.Permissions = tokens
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.audit(ctx, ActionRoleCreated, p.OrgID, p.ActorID, "role", role.ID.String(), audit.WithMetadata("key", role.Key))
	return role, nil
}

// RenameRole requires role:edit.
func (s *Service) RenameRole(ctx context.Context, orgID, actorID, roleID uuid.UUID, name string) error {
	err := s.tx(ctx, func(ctx context.Context, q store.Querier, g *access.Guard) error {
		if err := g.AssertPermissions(ctx, orgID, actorID, permission.RoleEdit); err != nil {
			return err
		}
		if _, err := orgRole(ctx, q, orgID, roleID); err != nil {
			return err
		}
		n, err := roleName(name)
		if err != nil {
			return err
		}
		if err := q.RenameRole(ctx, roleID, n); err != nil {
			return fmt.Errorf("rename role: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.audit(ctx, ActionRoleRenamed, orgID, actorID, "role", roleID.String())
	return nil
}

// SetRolePermissions replaces a role's grants. Requires role:edit. The
// owner role cannot be edited.
func (s *Service) SetRolePermissions(ctx context.Context, orgID, actorID, roleID uuid.UUID, perms []string) error {
	err := s.tx(ctx, func(ctx context.Context, q store.Querier, g *access.Guard) error {
		if err := g.AssertPermissions(ctx, orgID, actorID, permission.RoleEdit); err != nil {
			return err
		}
		role, err := orgRole(ctx, q, orgID, roleID)
		if err != nil {
			return err
		}
		if role.Key == store.OwnerRoleKey {
			return ErrReservedRole
		}
		tokens, err := s.parseGrants(perms)
		if err != nil {
			return err
		}
		if err := q.SetRolePermissions(ctx, roleID, tokens); err != nil {
			return fmt.Errorf("set role permissions: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	rbac.ForgetOrg(ctx, orgID)
	s.audit(ctx, ActionRolePermissionsSet, orgID, actorID, "role", roleID.String(), audit.WithMetadata("permissions", perms))
	return nil
}

// DeleteRole requires role:delete. The owner role is reserved.
func (s *Service) DeleteRole(ctx context.Context, orgID, actorID, roleID uuid.UUID) error {
	err := s.tx(ctx, func(ctx context.Context, q store.Querier, g *access.Guard) error {
		if err := g.AssertPermissions(ctx, orgID, actorID, permission.RoleDelete); err != nil {
			return err
		}
		role, err := orgRole(ctx, q, orgID, roleID)
		if err != nil {
			return err
		}
		if role.Key == store.OwnerRoleKey {
			return ErrReservedRole
		}
		if err := q.DeleteRole(ctx, roleID); err != nil {
			return fmt.Errorf("delete role: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	rbac.ForgetOrg(ctx, orgID)
	s.audit(ctx, ActionRoleDeleted, orgID, actorID, "role", roleID.String())
	return nil
}

// AssignRole gives target a role. Requires member:edit. The owner role
// moves only through TransferOwnership.
func (s *Service) AssignRole(ctx context.Context, orgID, actorID, targetID, roleID uuid.UUID) error {
	err := s.tx(ctx, func(ctx context.Context, q store.Querier, g *access.Guard) error {
		if err := g.AssertPermissions(ctx, orgID, actorID, permission.MemberEdit); err != nil {
			return err
		}
		role, err := orgRole(ctx, q, orgID, roleID)
		if err != nil {
			return err
		}
		if role.Key == store.OwnerRoleKey {
			return ErrReservedRole
		}
		if _, err := member(ctx, q, orgID, targetID); err != nil {
			return err
		}
		if err := q.AssignRole(ctx, orgID, targetID, roleID); err != nil {
			return fmt.Errorf("assign role: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	rbac.Forget(ctx, orgID, targetID)
	s.audit(ctx, ActionRoleAssigned, orgID, actorID, "member", targetID.String(), audit.WithMetadata("role_id", roleID.String()))
	return nil
}

// UnassignRole removes a role from target. Requires member:edit.
func (s *Service) UnassignRole(ctx context.Context, orgID, actorID, targetID, roleID uuid.UUID) error {
	err := s.tx(ctx, func(ctx context.Context, q store.Querier, g *access.Guard) error {
		if err := g.AssertPermissions(ctx, orgID, actorID, permission.MemberEdit); err != nil {
			return err
		}
		role, err := orgRole(ctx, q, orgID, roleID)
		if err != nil {
			return err
		}
		if role.Key == store.OwnerRoleKey {
			return ErrReservedRole
		}
		err = q.UnassignRole(ctx, orgID, targetID, roleID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrRoleNotFound
		}
		if err != nil {
			return fmt.Errorf("unassign role: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	rbac.Forget(ctx, orgID, targetID)
	s.audit(ctx, ActionRoleUnassigned, orgID, actorID, "member", targetID.String(), audit.WithMetadata("role_id", roleID.String()))
	return nil
}

// parseGrants rejects tokens the catalog cannot expand.
func (s *Service) parseGrants(perms []string) ([]permission.Token, error) {
	tokens, err := permission.ParseTokens(perms)
	if err != nil {
		return nil, ErrInvalidPermission.Wrap(err)
	}
	if _, err := s.catalog.Expand(tokens...); err != nil {
		return nil, ErrInvalidPermission.Wrap(err)
	}
	return tokens, nil
}

func orgRole(ctx context.Context, q store.Querier, orgID, roleID uuid.UUID) (*store.Role, error) {
	role, err := q.GetRole(ctx, roleID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && role.OrgID != orgID) {
		return nil, ErrRoleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load role: %w", err)
	}
	return role, nil
}

func roleName(name string) (string, error) {
	n := strings.TrimSpace(name)
	if n == "" || utf8.RuneCountInString(n) > maxNameLength {
		return "", ErrInvalidRoleName
	}
	return n, nil
}
