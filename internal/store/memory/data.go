package memory

import (
	"bytes"
	"context"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantkit/internal/store"
	"github.com/dmitrymomot/tenantkit/pkg/permission"
)

type memberKey struct {
	orgID  uuid.UUID
	userID uuid.UUID
}

type userRoleKey struct {
	orgID  uuid.UUID
	userID uuid.UUID
	roleID uuid.UUID
}

type overrideKey struct {
	orgID  uuid.UUID
	userID uuid.UUID
	key    permission.Key
}

var _ store.Querier = (*data)(nil)

// data is the unsynchronized state. Store guards it with a mutex.
type data struct {
	now         func() time.Time
	orgs        map[uuid.UUID]store.Organization
	users       map[uuid.UUID]store.User
	members     map[memberKey]store.Member
	roles       map[uuid.UUID]store.Role
	userRoles   map[userRoleKey]struct{}
	overrides   map[overrideKey]store.Override
	invitations map[uuid.UUID]store.Invitation
	permissions map[permission.Key]permission.Permission
}

func newData(now func() time.Time) *data {
	return &data{
		now:         now,
		orgs:        make(map[uuid.UUID]store.Organization),
		users:       make(map[uuid.UUID]store.User),
		members:     make(map[memberKey]store.Member),
		roles:       make(map[uuid.UUID]store.Role),
		userRoles:   make(map[userRoleKey]struct{}),
		overrides:   make(map[overrideKey]store.Override),
		invitations: make(map[uuid.UUID]store.Invitation),
		permissions: make(map[permission.Key]permission.Permission),
	}
}

func (d *data) clone() *data {
	c := &data{
		now:         d.now,
		orgs:        maps.Clone(d.orgs),
		users:       maps.Clone(d.users),
		members:     maps.Clone(d.members),
		roles:       make(map[uuid.UUID]store.Role, len(d.roles)),
		userRoles:   maps.Clone(d.userRoles),
		overrides:   maps.Clone(d.overrides),
		invitations: make(map[uuid.UUID]store.Invitation, len(d.invitations)),
		permissions: maps.Clone(d.permissions),
	}
	for id, r := range d.roles {
		c.roles[id] = copyRole(r)
	}
	for id, inv := range d.invitations {
		c.invitations[id] = copyInvitation(inv)
	}
	return c
}

func copyRole(r store.Role) store.Role {
	r.Permissions = slices.Clone(r.Permissions)
	return r
}

func copyInvitation(inv store.Invitation) store.Invitation {
	inv.TokenHash = bytes.Clone(inv.TokenHash)
	if inv.AcceptedAt != nil {
		at := *inv.AcceptedAt
		inv.AcceptedAt = &at
	}
	return inv
}

func (d *data) stamp(t time.Time) time.Time {
	if t.IsZero() {
		return d.now().UTC()
	}
	return t
}

// Organizations

func (d *data) CreateOrganization(_ context.Context, org *store.Organization) error {
	for _, o := range d.orgs {
		if o.Slug == org.Slug {
			return store.ErrDuplicate
		}
	}
	if org.ID == uuid.Nil {
		org.ID = uuid.New()
	}
	if _, ok := d.orgs[org.ID]; ok {
		return store.ErrDuplicate
	}
	org.CreatedAt = d.stamp(org.CreatedAt)
	d.orgs[org.ID] = *org
	return nil
}

func (d *data) GetOrganization(_ context.Context, id uuid.UUID) (*store.Organization, error) {
	o, ok := d.orgs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &o, nil
}

func (d *data) GetOrganizationBySlug(_ context.Context, slug string) (*store.Organization, error) {
	for _, o := range d.orgs {
		if o.Slug == slug {
			return &o, nil
		}
	}
	return nil, store.ErrNotFound
}

func (d *data) LockOrganization(_ context.Context, id uuid.UUID) error {
	if _, ok := d.orgs[id]; !ok {
		return store.ErrNotFound
	}
	return nil
}

func (d *data) ListOrganizationsForUser(_ context.Context, userID uuid.UUID) ([]store.Organization, error) {
	var out []store.Organization
	for k := range d.members {
		if k.userID == userID {
			out = append(out, d.orgs[k.orgID])
		}
	}
	slices.SortFunc(out, func(a, b store.Organization) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

// Users

func (d *data) CreateUser(_ context.Context, user *store.User) error {
	for _, u := range d.users {
		if strings.EqualFold(u.Email, user.Email) {
			return store.ErrDuplicate
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if _, ok := d.users[user.ID]; ok {
		return store.ErrDuplicate
	}
	user.CreatedAt = d.stamp(user.CreatedAt)
	d.users[user.ID] = *user
	return nil
}

func (d *data) GetUser(_ context.Context, id uuid.UUID) (*store.User, error) {
	u, ok := d.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (d *data) GetUserByEmail(_ context.Context, email string) (*store.User, error) {
	for _, u := range d.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (d *data) SetActiveOrganization(_ context.Context, userID uuid.UUID, orgID uuid.NullUUID) error {
	u, ok := d.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	if orgID.Valid {
		if _, ok := d.orgs[orgID.UUID]; !ok {
			return store.ErrReference
		}
	}
	u.ActiveOrgID = orgID
	d.users[userID] = u
	return nil
}

// Members

func (d *data) AddMember(_ context.Context, m store.Member) (bool, error) {
	if _, ok := d.orgs[m.OrgID]; !ok {
		return false, store.ErrReference
	}
	if _, ok := d.users[m.UserID]; !ok {
		return false, store.ErrReference
	}
	key := memberKey{orgID: m.OrgID, userID: m.UserID}
	if _, ok := d.members[key]; ok {
		return false, nil
	}
	m.CreatedAt = d.stamp(m.CreatedAt)
	d.members[key] = m
	return true, nil
}

func (d *data) GetMember(_ context.Context, orgID, userID uuid.UUID) (*store.Member, error) {
	m, ok := d.members[memberKey{orgID: orgID, userID: userID}]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &m, nil
}

func (d *data) ListMembers(_ context.Context, orgID uuid.UUID) ([]store.MemberWithUser, error) {
	var out []store.MemberWithUser
	for k, m := range d.members {
		if k.orgID == orgID {
			out = append(out, store.MemberWithUser{Member: m, Email: d.users[k.userID].Email})
		}
	}
	slices.SortFunc(out, func(a, b store.MemberWithUser) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Email, b.Email)
	})
	return out, nil
}

func (d *data) RemoveMember(_ context.Context, orgID, userID uuid.UUID) error {
	key := memberKey{orgID: orgID, userID: userID}
	if _, ok := d.members[key]; !ok {
		return store.ErrNotFound
	}
	delete(d.members, key)
	for k := range d.userRoles {
		if k.orgID == orgID && k.userID == userID {
			delete(d.userRoles, k)
		}
	}
	for k := range d.overrides {
		if k.orgID == orgID && k.userID == userID {
			delete(d.overrides, k)
		}
	}
	return nil
}

func (d *data) SetOwner(_ context.Context, orgID, userID uuid.UUID, isOwner bool) error {
	key := memberKey{orgID: orgID, userID: userID}
	m, ok := d.members[key]
	if !ok {
		return store.ErrNotFound
	}
	m.IsOwner = isOwner
	d.members[key] = m
	return nil
}

func (d *data) CountOwners(_ context.Context, orgID uuid.UUID) (int, error) {
	n := 0
	for k, m := range d.members {
		if k.orgID == orgID && m.IsOwner {
			n++
		}
	}
	return n, nil
}

// Roles

func (d *data) CreateRole(_ context.Context, role *store.Role) error {
	if _, ok := d.orgs[role.OrgID]; !ok {
		return store.ErrReference
	}
	for _, r := range d.roles {
		if r.OrgID == role.OrgID && r.Key == role.Key {
			return store.ErrDuplicate
		}
	}
	if role.ID == uuid.Nil {
		role.ID = uuid.New()
	}
	role.CreatedAt = d.stamp(role.CreatedAt)
	d.roles[role.ID] = copyRole(*role)
	return nil
}

func (d *data) GetRole(_ context.Context, id uuid.UUID) (*store.Role, error) {
	r, ok := d.roles[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	r = copyRole(r)
	return &r, nil
}

func (d *data) GetRoleByKey(_ context.Context, orgID uuid.UUID, key string) (*store.Role, error) {
	for _, r := range d.roles {
		if r.OrgID == orgID && r.Key == key {
			r = copyRole(r)
			return &r, nil
		}
	}
	return nil, store.ErrNotFound
}

func (d *data) ListRoles(_ context.Context, orgID uuid.UUID) ([]store.Role, error) {
	var out []store.Role
	for _, r := range d.roles {
		if r.OrgID == orgID {
			out = append(out, copyRole(r))
		}
	}
	slices.SortFunc(out, func(a, b store.Role) int { return strings.Compare(a.Key, b.Key) })
	return out, nil
}

func (d *data) RenameRole(_ context.Context, id uuid.UUID, name string) error {
	r, ok := d.roles[id]
	if !ok {
		return store.ErrNotFound
	}
	r.Name = name
	d.roles[id] = r
	return nil
}

func (d *data) DeleteRole(_ context.Context, id uuid.UUID) error {
	if _, ok := d.roles[id]; !ok {
		return store.ErrNotFound
	}
	delete(d.roles, id)
	for k := range d.userRoles {
		if k.roleID == id {
			delete(d.userRoles, k)
		}
	}
	for invID, inv := range d.invitations {
		if inv.RoleID.Valid && inv.RoleID.UUID == id {
			inv.RoleID = uuid.NullUUID{}
			d.invitations[invID] = inv
		}
	}
	return nil
}

func (d *data) SetRolePermissions(_ context.Context, roleID uuid.UUID, tokens []permission.Token) error {
	r, ok := d.roles[roleID]
	if !ok {
		return store.ErrNotFound
	}
	uniq := slices.Clone(tokens)
	slices.Sort(uniq)
	r.Permissions = slices.Compact(uniq)
	d.roles[roleID] = r
	return nil
}

func (d *data) AssignRole(_ context.Context, orgID, userID, roleID uuid.UUID) error {
	r, ok := d.roles[roleID]
	if !ok || r.OrgID != orgID {
		return store.ErrReference
	}
	if _, ok := d.members[memberKey{orgID: orgID, userID: userID}]; !ok {
		return store.ErrReference
	}
	d.userRoles[userRoleKey{orgID: orgID, userID: userID, roleID: roleID}] = struct{}{}
	return nil
}

func (d *data) UnassignRole(_ context.Context, orgID, userID, roleID uuid.UUID) error {
	key := userRoleKey{orgID: orgID, userID: userID, roleID: roleID}
	if _, ok := d.userRoles[key]; !ok {
		return store.ErrNotFound
	}
	delete(d.userRoles, key)
	return nil
}

func (d *data) ListRoleTokens(_ context.Context, orgID, userID uuid.UUID) ([]permission.Token, error) {
	var out []permission.Token
	for k := range d.userRoles {
		if k.orgID == orgID && k.userID == userID {
			out = append(out, d.roles[k.roleID].Permissions...)
		}
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

// Overrides

func (d *data) UpsertOverride(_ context.Context, o store.Override) error {
	if _, ok := d.members[memberKey{orgID: o.OrgID, userID: o.UserID}]; !ok {
		return store.ErrReference
	}
	if len(d.permissions) > 0 {
		if _, ok := d.permissions[o.Key]; !ok {
			return store.ErrReference
		}
	}
	key := overrideKey{orgID: o.OrgID, userID: o.UserID, key: o.Key}
	if prev, ok := d.overrides[key]; ok {
		o.CreatedAt = prev.CreatedAt
	}
	o.CreatedAt = d.stamp(o.CreatedAt)
	d.overrides[key] = o
	return nil
}

func (d *data) DeleteOverride(_ context.Context, orgID, userID uuid.UUID, key permission.Key) error {
	k := overrideKey{orgID: orgID, userID: userID, key: key}
	if _, ok := d.overrides[k]; !ok {
		return store.ErrNotFound
	}
	delete(d.overrides, k)
	return nil
}

func (d *data) ListOverrides(_ context.Context, orgID, userID uuid.UUID) ([]store.Override, error) {
	var out []store.Override
	for k, o := range d.overrides {
		if k.orgID == orgID && k.userID == userID {
			out = append(out, o)
		}
	}
	slices.SortFunc(out, func(a, b store.Override) int { return strings.Compare(string(a.Key), string(b.Key)) })
	return out, nil
}

// Invitations

func (d *data) CreateInvitation(_ context.Context, inv *store.Invitation) error {
	if _, ok := d.orgs[inv.OrgID]; !ok {
		return store.ErrReference
	}
	if inv.RoleID.Valid {
		if r, ok := d.roles[inv.RoleID.UUID]; !ok || r.OrgID != inv.OrgID {
			return store.ErrReference
		}
	}
	for _, existing := range d.invitations {
		if bytes.Equal(existing.TokenHash, inv.TokenHash) {
			return store.ErrDuplicate
		}
		if existing.OrgID == inv.OrgID && existing.AcceptedAt == nil && strings.EqualFold(existing.Email, inv.Email) {
			return store.ErrDuplicate
		}
	}
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	inv.CreatedAt = d.stamp(inv.CreatedAt)
	d.invitations[inv.ID] = copyInvitation(*inv)
	return nil
}

func (d *data) GetInvitation(_ context.Context, id uuid.UUID) (*store.Invitation, error) {
	inv, ok := d.invitations[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	inv = copyInvitation(inv)
	return &inv, nil
}

func (d *data) GetInvitationByTokenHash(_ context.Context, hash []byte) (*store.Invitation, error) {
	for _, inv := range d.invitations {
		if bytes.Equal(inv.TokenHash, hash) {
			inv = copyInvitation(inv)
			return &inv, nil
		}
	}
	return nil, store.ErrNotFound
}

func (d *data) LockInvitation(ctx context.Context, id uuid.UUID) (*store.Invitation, error) {
	return d.GetInvitation(ctx, id)
}

func (d *data) FindOpenInvitation(_ context.Context, orgID uuid.UUID, email string) (*store.Invitation, error) {
	for _, inv := range d.invitations {
		if inv.OrgID == orgID && inv.AcceptedAt == nil && strings.EqualFold(inv.Email, email) {
			inv = copyInvitation(inv)
			return &inv, nil
		}
	}
	return nil, store.ErrNotFound
}

func (d *data) ListInvitations(_ context.Context, orgID uuid.UUID) ([]store.Invitation, error) {
	var out []store.Invitation
	for _, inv := range d.invitations {
		if inv.OrgID == orgID {
			out = append(out, copyInvitation(inv))
		}
	}
	slices.SortFunc(out, func(a, b store.Invitation) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (d *data) MarkInvitationAccepted(_ context.Context, id uuid.UUID, at time.Time) error {
	inv, ok := d.invitations[id]
	if !ok {
		return store.ErrNotFound
	}
	inv.AcceptedAt = &at
	d.invitations[id] = inv
	return nil
}

func (d *data) DeleteInvitation(_ context.Context, id uuid.UUID) error {
	if _, ok := d.invitations[id]; !ok {
		return store.ErrNotFound
	}
	delete(d.invitations, id)
	return nil
}

// Catalog mirror

func (d *data) SyncPermissions(_ context.Context, perms []permission.Permission) error {
	d.permissions = make(map[permission.Key]permission.Permission, len(perms))
	resources := make(map[string]struct{})
	for _, p := range perms {
		d.permissions[p.Key] = p
		resources[p.Key.Resource()] = struct{}{}
	}

	valid := func(t permission.Token) bool {
		switch {
		case t == permission.Wildcard:
			return true
		case t.IsWildcard():
			_, ok := resources[t.Key().Resource()]
			return ok
		default:
			_, ok := d.permissions[t.Key()]
			return ok
		}
	}

	for id, r := range d.roles {
		r.Permissions = slices.DeleteFunc(slices.Clone(r.Permissions), func(t permission.Token) bool { return !valid(t) })
		d.roles[id] = r
	}
	for k := range d.overrides {
		if _, ok := d.permissions[k.key]; !ok {
			delete(d.overrides, k)
		}
	}
	return nil
}
