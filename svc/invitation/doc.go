// Package invitation admits new members into an organization through
// single-use, expiring tokens.
//
// Every transition runs inside one store transaction and goes through the
// pkg/invitation state machine, so an expired, accepted or unknown
// invitation aborts with no partial write. Accepting creates the
// membership, attaches the invited role, stamps the invitation and switches
// the user's active organization together or not at all.
//
// Only a hash of the token is stored. The raw token leaves the service once,
// in the result of Create, and travels to the invitee inside the acceptance
// URL. The invitation email is sent after the transaction commits; a
// delivery failure is logged and audited but does not undo the invitation.
package invitation
