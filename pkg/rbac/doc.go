// Package rbac computes a user's effective abilities inside one tenant.
//
// The Resolver merges role grants with per-user overrides:
//
//	effective = expand(roles) ∪ expand(allow) \ expand(deny)
//
// Deny is applied last, so a deny override on "invoice:delete" removes it
// even when a role grants "invoice:*". Owners bypass the calculation and
// receive every catalog key.
//
// Results may be memoized for the lifetime of a single request with
// WithMemo and Memoize. Never keep them across requests: roles, overrides,
// and memberships change between requests.
package rbac
