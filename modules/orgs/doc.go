// Package orgs is the HTTP module for organization administration and
// invitations. Routes under /orgs/current act on the organization resolved
// by the tenant middleware; every other authenticated route names its
// organization explicitly and is checked for membership by the service.
package orgs
