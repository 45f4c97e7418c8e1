package invitation

import "time"

// State of an invitation.
type State string

const (
	StatePending  State = "pending"
	StateAccepted State = "accepted"
	StateExpired  State = "expired"
	StateRejected State = "rejected"
	StateRevoked  State = "revoked"
)

// Event drives a transition.
type Event string

const (
	EventAccept Event = "accept"
	EventReject Event = "reject"
	EventRevoke Event = "revoke"
)

// StateAt derives the stored invitation's state at now.
// An invitation expires the instant now reaches expiresAt.
func StateAt(acceptedAt *time.Time, expiresAt, now time.Time) State {
	switch {
	case acceptedAt != nil:
		return StateAccepted
	case !expiresAt.After(now):
		return StateExpired
	default:
		return StatePending
	}
}
