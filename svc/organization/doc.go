// Package organization administers tenants: creating organizations,
// managing members, roles and per-user overrides, transferring ownership and
// switching a user's active organization.
//
// Every mutation checks the caller through the access guard and runs in a
// single store transaction. An organization always keeps at least one
// owner.
package organization
