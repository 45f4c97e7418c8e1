package invitation

import "context"

// Action runs as part of a transition, typically a write inside the
// surrounding transaction. A failing action aborts the transition.
type Action func(ctx context.Context, from, to State, event Event) error

type outcome struct {
	to  State
	err error
}

// Machine is the transition table. It is stateless: the current state is
// derived from the stored row on every call.
type Machine struct {
	table map[State]map[Event]outcome
}

// NewMachine returns the invitation lifecycle table.
func NewMachine() *Machine {
	return &Machine{table: map[State]map[Event]outcome{
		StatePending: {
			EventAccept: {to: StateAccepted},
			EventReject: {to: StateRejected},
			EventRevoke: {to: StateRevoked},
		},
		StateExpired: {
			EventAccept: {err: ErrExpired},
			EventReject: {to: StateRejected},
			EventRevoke: {to: StateRevoked},
		},
		StateAccepted: {
			EventAccept: {err: ErrAlreadyAccepted},
			EventReject: {err: ErrAlreadyAccepted},
			EventRevoke: {err: ErrAlreadyAccepted},
		},
	}}
}

// Next returns the target state for event from the given state.
func (m *Machine) Next(from State, event Event) (State, error) {
	o, ok := m.table[from][event]
	if !ok {
		return "", &NoTransitionError{State: from, Event: event}
	}
	if o.err != nil {
		return "", o.err
	}
	return o.to, nil
}

// CanFire reports whether event is allowed from the given state.
func (m *Machine) CanFire(from State, event Event) bool {
	_, err := m.Next(from, event)
	return err == nil
}

// Fire validates the transition and runs actions in order.
// The first failing action stops the rest and its error is returned.
func (m *Machine) Fire(ctx context.Context, from State, event Event, actions ...Action) (State, error) {
	to, err := m.Next(from, event)
	if err != nil {
		return "", err
	}
	for _, action := range actions {
		if err := action(ctx, from, to, event); err != nil {
			return "", err
		}
	}
	return to, nil
}
