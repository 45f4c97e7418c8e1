package tenant

import (
	"net"
	"net/http"
	"strings"
)

// Default transport names.
const (
	DefaultIDHeader   = "X-Organization-ID"
	DefaultSlugHeader = "X-Organization-Slug"
	DefaultCookieName = "org_id"
)

// Kind tells how to interpret a hint value.
type Kind uint8

const (
	KindID Kind = iota + 1
	KindSlug
)

func (k Kind) String() string {
	switch k {
	case KindID:
		return "id"
	case KindSlug:
		return "slug"
	default:
		return "unknown"
	}
}

// Hint is a caller-supplied tenant identifier.
type Hint struct {
	Kind   Kind
	Value  string
	Source string
}

// Extractor reads one hint transport. ok is false when the transport is
// absent from the request.
type Extractor func(r *http.Request) (hint Hint, ok bool)

// FromHeaderID reads an organization id from header name.
func FromHeaderID(name string) Extractor {
	if name == "" {
		name = DefaultIDHeader
	}
	return func(r *http.Request) (Hint, bool) {
		v := strings.TrimSpace(r.Header.Get(name))
		if v == "" {
			return Hint{}, false
		}
		return Hint{Kind: KindID, Value: v, Source: "header:" + name}, true
	}
}

// FromHeaderSlug reads an organization slug from header name.
func FromHeaderSlug(name string) Extractor {
	if name == "" {
		name = DefaultSlugHeader
	}
	return func(r *http.Request) (Hint, bool) {
		v := strings.TrimSpace(r.Header.Get(name))
		if v == "" {
			return Hint{}, false
		}
		return Hint{Kind: KindSlug, Value: strings.ToLower(v), Source: "header:" + name}, true
	}
}

// FromCookie reads the last-selected organization id.
func FromCookie(name string) Extractor {
	if name == "" {
		name = DefaultCookieName
	}
	return func(r *http.Request) (Hint, bool) {
		c, err := r.Cookie(name)
		if err != nil || strings.TrimSpace(c.Value) == "" {
			return Hint{}, false
		}
		return Hint{Kind: KindID, Value: strings.TrimSpace(c.Value), Source: "cookie:" + name}, true
	}
}

// FromSubdomain reads a slug from a single-label subdomain of rootDomain,
// e.g. "acme" from "acme.example.com". The root domain itself, "www",
// localhost, IP literals, hosts outside rootDomain, and nested subdomains
// carry no tenant. An empty rootDomain disables the extractor.
func FromSubdomain(rootDomain string) Extractor {
	root := strings.Trim(strings.ToLower(rootDomain), ".")
	return func(r *http.Request) (Hint, bool) {
		if root == "" {
			return Hint{}, false
		}
		label, ok := subdomainLabel(r.Host, root)
		if !ok {
			return Hint{}, false
		}
		return Hint{Kind: KindSlug, Value: label, Source: "subdomain"}, true
	}
}

func subdomainLabel(hostport, root string) (string, bool) {
	host := strings.ToLower(strings.TrimSpace(hostport))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.TrimSuffix(host, ".")

	if host == "" || host == root || host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return "", false
	}
	if net.ParseIP(strings.Trim(host, "[]")) != nil {
		return "", false
	}

	prefix, found := strings.CutSuffix(host, "."+root)
	if !found || prefix == "" || strings.Contains(prefix, ".") || prefix == "www" {
		return "", false
	}
	return prefix, true
}

// First returns the hint of the first extractor that finds one, which
// makes the argument order the precedence order.
func First(extractors ...Extractor) Extractor {
	return func(r *http.Request) (Hint, bool) {
		for _, ex := range extractors {
			if ex == nil {
				continue
			}
			if h, ok := ex(r); ok {
				return h, true
			}
		}
		return Hint{}, false
	}
}

// IsZero reports whether h carries no hint.
func (h Hint) IsZero() bool {
	return h.Kind == 0 && h.Value == ""
}
