package permission

import (
	"fmt"
	"regexp"
	"strings"
)

// Standard actions every resource gets.
const (
	ActionView   = "view"
	ActionCreate = "create"
	ActionEdit   = "edit"
	ActionDelete = "delete"
)

// DefaultActions is the action set of the resource × action cross-product.
var DefaultActions = []string{ActionView, ActionCreate, ActionEdit, ActionDelete}

const (
	separator = ":"
	wildcard  = "*"
)

var segmentPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Key identifies one grantable capability, "resource:action".
type Key string

// NewKey joins resource and action into a Key.
func NewKey(resource, action string) Key {
	return Key(resource + separator + action)
}

// Resource returns the part before the separator.
func (k Key) Resource() string {
	r, _, _ := strings.Cut(string(k), separator)
	return r
}

// Action returns the part after the separator.
func (k Key) Action() string {
	_, a, _ := strings.Cut(string(k), separator)
	return a
}

func (k Key) String() string { return string(k) }

// Token is a literal Key or a wildcard: "resource:*" or "*".
type Token string

// Wildcard grants every key in the catalog.
const Wildcard Token = wildcard

// ResourceWildcard returns the "resource:*" token.
func ResourceWildcard(resource string) Token {
	return Token(resource + separator + wildcard)
}

// IsWildcard reports whether t is "*" or "resource:*".
func (t Token) IsWildcard() bool {
	return t == Wildcard || strings.HasSuffix(string(t), separator+wildcard)
}

// Key returns t as a literal key. Only meaningful when !t.IsWildcard().
func (t Token) Key() Key { return Key(t) }

func (t Token) String() string { return string(t) }

// ParseToken validates the token grammar without consulting a catalog.
func ParseToken(s string) (Token, error) {
	s = strings.TrimSpace(s)
	if s == wildcard {
		return Wildcard, nil
	}
	resource, action, ok := strings.Cut(s, separator)
	if !ok || !segmentPattern.MatchString(resource) {
		return "", fmt.Errorf("%w: %q", ErrInvalidToken, s)
	}
	if action != wildcard && !segmentPattern.MatchString(action) {
		return "", fmt.Errorf("%w: %q", ErrInvalidToken, s)
	}
	return Token(s), nil
}

// ParseTokens parses every element and stops at the first invalid one.
func ParseTokens(ss []string) ([]Token, error) {
	tokens := make([]Token, 0, len(ss))
	for _, s := range ss {
		t, err := ParseToken(s)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, nil
}

// Tokens converts keys into literal tokens.
func Tokens(keys ...Key) []Token {
	tokens := make([]Token, len(keys))
	for i, k := range keys {
		tokens[i] = Token(k)
	}
	return tokens
}
