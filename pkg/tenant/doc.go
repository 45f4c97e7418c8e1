// Package tenant extracts tenant hints from HTTP requests and carries the
// resolved organization id through the request context.
//
// Hints are untrusted. Extraction only reports what the caller supplied:
// an organization id (header or cookie) or a slug (header or subdomain).
// Turning a hint into a trusted organization id is the job of svc/tenant,
// which checks membership before anything downstream sees the id.
//
// A present but malformed hint is still returned so resolution can fail
// closed instead of silently falling back to a weaker signal.
package tenant
