package slug_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/tenantkit/pkg/slug"
)

func TestMake(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "Acme", want: "acme"},
		{in: "Acme Corp.", want: "acme-corp"},
		{in: "  --Hello,   World!--  ", want: "hello-world"},
		{in: "Café Zürich", want: "cafe-zurich"},
		{in: "Crème brûlée & Co", want: "creme-brulee-co"},
		{in: "snake_case_name", want: "snake-case-name"},
		{in: "2024 Plan", want: "2024-plan"},
		{in: "日本", want: ""},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, slug.Make(tt.in))
		})
	}
}

func TestMake_Length(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("ab ", 50)
	s := slug.Make(long)
	assert.LessOrEqual(t, len(s), slug.MaxLength)
	assert.True(t, slug.Valid(s))

	s = slug.Make("hello world", slug.WithMaxLength(6))
	assert.Equal(t, "hello", s)
}

func TestMake_WithSuffix(t *testing.T) {
	t.Parallel()

	s := slug.Make("Acme", slug.WithSuffix(6))
	assert.Len(t, s, len("acme-")+6)
	assert.True(t, strings.HasPrefix(s, "acme-"))
	assert.True(t, slug.Valid(s))

	s = slug.Make("!!!", slug.WithSuffix(6))
	assert.Len(t, s, 6)

	s = slug.Make(strings.Repeat("a", 100), slug.WithSuffix(6))
	assert.Len(t, s, slug.MaxLength)
	assert.True(t, slug.Valid(s))

	assert.NotEqual(t, slug.Make("x", slug.WithSuffix(8)), slug.Make("x", slug.WithSuffix(8)))
}

func TestValid(t *testing.T) {
	t.Parallel()

	valid := []string{"a", "acme", "acme-corp", "a1", "1a", strings.Repeat("a", 63)}
	for _, s := range valid {
		assert.True(t, slug.Valid(s), s)
	}

	invalid := []string{"", "-acme", "acme-", "Acme", "acme_corp", "acme.corp", "www", "localhost", strings.Repeat("a", 64)}
	for _, s := range invalid {
		assert.False(t, slug.Valid(s), s)
	}
}
