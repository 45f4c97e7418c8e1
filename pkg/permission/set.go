package permission

import (
	"maps"
	"slices"
)

// Set is an unordered collection of permission keys.
type Set map[Key]struct{}

// NewSet builds a set from keys.
func NewSet(keys ...Key) Set {
	s := make(Set, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

func (s Set) Add(k Key) { s[k] = struct{}{} }

func (s Set) Has(k Key) bool {
	_, ok := s[k]
	return ok
}

// HasAll reports whether every key is present.
func (s Set) HasAll(keys ...Key) bool {
	return len(s.Missing(keys...)) == 0
}

// Missing returns the required keys absent from s, in the order given.
func (s Set) Missing(required ...Key) []Key {
	var missing []Key
	for _, k := range required {
		if !s.Has(k) && !slices.Contains(missing, k) {
			missing = append(missing, k)
		}
	}
	return missing
}

// Union returns a new set with the keys of s and other.
func (s Set) Union(other Set) Set {
	out := maps.Clone(s)
	if out == nil {
		out = make(Set, len(other))
	}
	for k := range other {
		out[k] = struct{}{}
	}
	return out
}

// Subtract returns a new set with the keys of s not present in other.
func (s Set) Subtract(other Set) Set {
	out := make(Set, len(s))
	for k := range s {
		if !other.Has(k) {
			out[k] = struct{}{}
		}
	}
	return out
}

// Keys returns the keys sorted lexicographically.
func (s Set) Keys() []Key {
	return slices.Sorted(maps.Keys(s))
}

// Strings returns the sorted keys as strings.
func (s Set) Strings() []string {
	keys := s.Keys()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}
	return out
}

// KeyStrings converts keys to strings preserving order.
func KeyStrings(keys []Key) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}
	return out
}
