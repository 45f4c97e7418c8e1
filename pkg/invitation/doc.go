// Package invitation models the invitation lifecycle and its tokens.
//
// States:
//
//	pending  --accept--> accepted
//	pending  --reject--> rejected (row deleted)
//	pending  --revoke--> revoked  (row deleted)
//	pending  ----------> expired  (derived from expires_at, never stored)
//	expired  --reject--> rejected (row deleted)
//	expired  --revoke--> revoked  (row deleted)
//
// Accepting an expired invitation fails with ErrExpired; every event on an
// accepted invitation fails with ErrAlreadyAccepted. Both are BAD_REQUEST
// class errors.
//
// Tokens are 32 random bytes in base58. Only their BLAKE2b-256 hash is meant
// to be stored.
package invitation
