package permission

// Resources of the default catalog.
const (
	ResourceOrganization = "organization"
	ResourceMember       = "member"
	ResourceRole         = "role"
	ResourceCustomer     = "customer"
	ResourceInvoice      = "invoice"
	ResourceProduct      = "product"
	ResourceSubscription = "subscription"
)

// ActionInvite is the extra member action guarding invitations.
const ActionInvite = "invite"

// Keys referenced by the services.
var (
	MemberView   = NewKey(ResourceMember, ActionView)
	MemberEdit   = NewKey(ResourceMember, ActionEdit)
	MemberDelete = NewKey(ResourceMember, ActionDelete)
	MemberInvite = NewKey(ResourceMember, ActionInvite)
	RoleView     = NewKey(ResourceRole, ActionView)
	RoleCreate   = NewKey(ResourceRole, ActionCreate)
	RoleEdit     = NewKey(ResourceRole, ActionEdit)
	RoleDelete   = NewKey(ResourceRole, ActionDelete)
	OrgEdit      = NewKey(ResourceOrganization, ActionEdit)
)

// Default builds the catalog shipped with the service.
func Default() *Catalog {
	return MustCatalog(
		WithResource(ResourceOrganization),
		WithResource(ResourceMember),
		WithPermission(Permission{
			Key:         MemberInvite,
			Name:        "Invite member",
			Description: "Create and revoke invitations",
			DependsOn:   []Key{MemberView},
		}),
		WithResource(ResourceRole),
		WithResource(ResourceCustomer),
		WithResource(ResourceInvoice),
		WithResource(ResourceProduct),
		WithResource(ResourceSubscription),
	)
}
