package slug

import (
	"crypto/rand"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength is the DNS label limit.
const MaxLength = 63

var pattern = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?$`)

// reserved labels carry no tenant when used as a subdomain.
var reserved = map[string]struct{}{
	"www":       {},
	"localhost": {},
}

type config struct {
	maxLength    int
	suffixLength int
}

// Option configures Make.
type Option func(*config)

// WithMaxLength caps the slug length. Values outside (0, MaxLength] are ignored.
func WithMaxLength(n int) Option {
	return func(c *config) {
		if n > 0 && n <= MaxLength {
			c.maxLength = n
		}
	}
}

// WithSuffix appends a random lowercase alphanumeric suffix of n characters.
func WithSuffix(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.suffixLength = n
		}
	}
}

// Make derives a slug from s. The result may be empty when s has no
// letters or digits; callers should check it with Valid.
func Make(s string, opts ...Option) string {
	cfg := &config{maxLength: MaxLength}
	for _, opt := range opts {
		opt(cfg)
	}

	suffix := ""
	budget := cfg.maxLength
	if cfg.suffixLength > 0 {
		n := min(cfg.suffixLength, cfg.maxLength)
		suffix = randomSuffix(n)
		budget = cfg.maxLength - n - 1
	}

	base := truncate(fold(s), budget)
	switch {
	case suffix == "":
		return base
	case base == "":
		return suffix
	default:
		return base + "-" + suffix
	}
}

// Valid reports whether s is an acceptable organization slug.
func Valid(s string) bool {
	if _, ok := reserved[s]; ok {
		return false
	}
	return pattern.MatchString(s)
}

// fold lowercases, strips accents and joins alphanumeric runs with hyphens.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(t, s); err == nil {
		s = out
	}

	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pendingSep = false
			continue
		}
		pendingSep = true
	}
	return b.String()
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) > n {
		s = s[:n]
	}
	return strings.TrimRight(s, "-")
}

func randomSuffix(n int) string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, n)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = charset[int(b[i])%len(charset)]
	}
	return string(b)
}
