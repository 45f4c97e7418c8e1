package permission

import "fmt"

// Expand resolves wildcards to literal keys and returns the transitive
// closure over the dependency graph. The result does not depend on token
// order. Unknown keys and resources fail with ErrUnknownPermission or
// ErrUnknownResource.
func (c *Catalog) Expand(tokens ...Token) (Set, error) {
	seeds := make([]Key, 0, len(tokens))
	for _, t := range tokens {
		if t.IsWildcard() {
			members, err := c.WildcardMembers(t)
			if err != nil {
				return nil, err
			}
			seeds = append(seeds, members.Keys()...)
			continue
		}
		if _, err := ParseToken(string(t)); err != nil {
			return nil, err
		}
		if !c.Has(t.Key()) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPermission, t)
		}
		seeds = append(seeds, t.Key())
	}
	return c.closure(seeds)
}

type visitState uint8

const (
	unvisited visitState = iota
	inProgress
	done
)

type frame struct {
	key  Key
	exit bool
}

// closure walks the dependency graph depth-first with an explicit stack.
// A key reached again while still on the current path is a cycle.
func (c *Catalog) closure(seeds []Key) (Set, error) {
	state := make(map[Key]visitState, len(seeds))
	result := make(Set, len(seeds))

	for _, seed := range seeds {
		if state[seed] == done {
			continue
		}
		stack := []frame{{key: seed}}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if f.exit {
				state[f.key] = done
				continue
			}
			switch state[f.key] {
			case done:
				continue
			case inProgress:
				return nil, fmt.Errorf("%w: at %q", ErrDependencyCycle, f.key)
			}

			state[f.key] = inProgress
			result[f.key] = struct{}{}
			stack = append(stack, frame{key: f.key, exit: true})

			for _, dep := range c.deps[f.key] {
				switch state[dep] {
				case inProgress:
					return nil, fmt.Errorf("%w: %q -> %q", ErrDependencyCycle, f.key, dep)
				case unvisited:
					stack = append(stack, frame{key: dep})
				}
			}
		}
	}

	return result, nil
}
