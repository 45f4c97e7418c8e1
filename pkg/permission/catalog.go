package permission

import (
	"fmt"
	"slices"
	"strings"
)

// Permission is a catalog entry.
type Permission struct {
	Key         Key
	Name        string
	Description string
	// DependsOn lists the keys this permission implies.
	DependsOn []Key
}

// Catalog is an immutable registry of permission keys and their dependency
// graph. Safe for concurrent use.
type Catalog struct {
	order      []Key
	entries    map[Key]Permission
	deps       map[Key][]Key
	byResource map[string][]Key
	resources  []string
}

// Option registers entries while building a catalog.
type Option func(*builder)

type builder struct {
	entries []Permission
}

// WithResource registers resource × actions. An empty action list means
// DefaultActions. Every action other than view implies resource:view.
func WithResource(resource string, actions ...string) Option {
	return func(b *builder) {
		if len(actions) == 0 {
			actions = DefaultActions
		}
		view := NewKey(resource, ActionView)
		for _, action := range actions {
			p := Permission{
				Key:  NewKey(resource, action),
				Name: title(action) + " " + strings.ReplaceAll(resource, "_", " "),
			}
			if action != ActionView {
				p.DependsOn = []Key{view}
			}
			b.entries = append(b.entries, p)
		}
	}
}

// WithPermission registers a single entry with explicit dependencies.
func WithPermission(p Permission) Option {
	return func(b *builder) {
		b.entries = append(b.entries, p)
	}
}

// NewCatalog validates the registered entries and freezes them.
// It fails on malformed or duplicate keys, dependencies on unknown keys,
// and dependency cycles.
func NewCatalog(opts ...Option) (*Catalog, error) {
	b := &builder{}
	for _, opt := range opts {
		opt(b)
	}

	c := &Catalog{
		order:      make([]Key, 0, len(b.entries)),
		entries:    make(map[Key]Permission, len(b.entries)),
		deps:       make(map[Key][]Key, len(b.entries)),
		byResource: make(map[string][]Key),
	}

	for _, p := range b.entries {
		t, err := ParseToken(string(p.Key))
		if err != nil || t.IsWildcard() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidToken, p.Key)
		}
		if _, ok := c.entries[p.Key]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePermission, p.Key)
		}
		p.DependsOn = slices.Clone(p.DependsOn)
		c.entries[p.Key] = p
		c.order = append(c.order, p.Key)

		res := p.Key.Resource()
		if _, ok := c.byResource[res]; !ok {
			c.resources = append(c.resources, res)
		}
		c.byResource[res] = append(c.byResource[res], p.Key)
	}

	for _, k := range c.order {
		for _, dep := range c.entries[k].DependsOn {
			if _, ok := c.entries[dep]; !ok {
				return nil, fmt.Errorf("%w: %q depends on %q", ErrUnknownPermission, k, dep)
			}
			c.deps[k] = append(c.deps[k], dep)
		}
	}

	if _, err := c.closure(c.order); err != nil {
		return nil, err
	}

	return c, nil
}

// MustCatalog is NewCatalog that panics on error. Intended for package-level
// construction of a catalog known to be valid.
func MustCatalog(opts ...Option) *Catalog {
	c, err := NewCatalog(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Keys returns every key in registration order.
func (c *Catalog) Keys() []Key {
	return slices.Clone(c.order)
}

// Resources returns the registered resources in registration order.
func (c *Catalog) Resources() []string {
	return slices.Clone(c.resources)
}

// Permissions returns every entry in registration order.
func (c *Catalog) Permissions() []Permission {
	out := make([]Permission, 0, len(c.order))
	for _, k := range c.order {
		p := c.entries[k]
		p.DependsOn = slices.Clone(p.DependsOn)
		out = append(out, p)
	}
	return out
}

// Lookup returns the entry for k.
func (c *Catalog) Lookup(k Key) (Permission, bool) {
	p, ok := c.entries[k]
	if ok {
		p.DependsOn = slices.Clone(p.DependsOn)
	}
	return p, ok
}

// Has reports whether k is a catalog key.
func (c *Catalog) Has(k Key) bool {
	_, ok := c.entries[k]
	return ok
}

// All returns the full key set.
func (c *Catalog) All() Set {
	return NewSet(c.order...)
}

// DependenciesOf returns the keys k directly implies.
func (c *Catalog) DependenciesOf(k Key) Set {
	return NewSet(c.deps[k]...)
}

// WildcardMembers returns the literal keys a wildcard token stands for.
func (c *Catalog) WildcardMembers(t Token) (Set, error) {
	if t == Wildcard {
		return c.All(), nil
	}
	if !t.IsWildcard() {
		return nil, fmt.Errorf("%w: %q is not a wildcard", ErrInvalidToken, t)
	}
	res := Key(t).Resource()
	members, ok := c.byResource[res]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownResource, res)
	}
	return NewSet(members...), nil
}

// Validate checks that every token is well formed and known to the catalog.
func (c *Catalog) Validate(tokens ...Token) error {
	for _, t := range tokens {
		if _, err := ParseToken(string(t)); err != nil {
			return err
		}
		if t.IsWildcard() {
			if _, err := c.WildcardMembers(t); err != nil {
				return err
			}
			continue
		}
		if !c.Has(t.Key()) {
			return fmt.Errorf("%w: %q", ErrUnknownPermission, t)
		}
	}
	return nil
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
