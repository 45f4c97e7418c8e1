package rbac

import (
	"fmt"

	"github.com/dmitrymomot/tenantkit/pkg/permission"
)

// OverrideMode is the kind of per-user exception.
type OverrideMode uint8

const (
	// Allow grants a key on top of the user's roles.
	Allow OverrideMode = iota + 1
	// Deny removes a key regardless of any other grant.
	Deny
)

func (m OverrideMode) String() string {
	switch m {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	default:
		return fmt.Sprintf("OverrideMode(%d)", uint8(m))
	}
}

// Valid reports whether m is Allow or Deny.
func (m OverrideMode) Valid() bool {
	return m == Allow || m == Deny
}

// ParseOverrideMode parses "allow" or "deny".
func ParseOverrideMode(s string) (OverrideMode, error) {
	switch s {
	case "allow":
		return Allow, nil
	case "deny":
		return Deny, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidOverrideMode, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m OverrideMode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOverrideMode, uint8(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *OverrideMode) UnmarshalText(b []byte) error {
	v, err := ParseOverrideMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Override is one per-user exception for a permission key.
type Override struct {
	Key  permission.Token
	Mode OverrideMode
}

// Grants is everything the resolver needs for one (org, user) pair.
type Grants struct {
	// Roles is the union of permission tokens attached to the user's roles.
	Roles []permission.Token
	Allow []permission.Token
	Deny  []permission.Token
	// Owner short-circuits resolution to the full catalog.
	Owner bool
}

// SplitOverrides partitions overrides by mode.
func SplitOverrides(overrides []Override) (allow, deny []permission.Token) {
	for _, o := range overrides {
		switch o.Mode {
		case Allow:
			allow = append(allow, o.Key)
		case Deny:
			deny = append(deny, o.Key)
		}
	}
	return allow, deny
}
