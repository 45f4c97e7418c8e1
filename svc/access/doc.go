// Package access is the membership guard: the trust boundary between a
// caller and a tenant's data.
//
// Every path that takes an organization id from request input must run it
// through AssertOrgMembership (or AssertPermissions, which implies it)
// before touching tenant data.
package access
