// Package tenant turns untrusted tenant hints into a membership-checked
// organization id.
//
// Resolution takes the highest-precedence hint present on the request. With
// no hint at all it falls back to the user's stored active organization.
// A hint that fails (malformed id, unknown slug, organization the user does
// not belong to) ends resolution with TENANT_NOT_SET. It never falls
// through to a weaker hint, and unknown and foreign organizations fail
// identically so callers cannot probe for tenants they cannot see.
//
// Slug lookups go through a SlugCache. Membership is always read fresh.
package tenant
