package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"Hello, World!", "hello-world"},
		{"  Trimmed  ", "trimmed"},
		{"Already-Slugged", "already-slugged"},
		{"MiXeD CaSe 123", "mixed-case-123"},
		{"a---b", "a-b"},
		{"--leading and trailing--", "leading-and-trailing"},
		{"unicode émojis 🦄 stripped", "unicode-mojis-stripped"},
		{"2024 year in review", "2024-year-in-review"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Slugify(c.title), "title %q", c.title)
	}
}

func TestSlugifyEmptyFallsBackToTimestamp(t *testing.T) {
	for _, title := range []string{"", "   ", "!!!", "---", "日本語"} {
		slug := Slugify(title)
		assert.NotEmpty(t, slug, "title %q", title)
		assert.True(t, strings.HasPrefix(slug, "post-"), "title %q produced %q", title, slug)
	}
}

func TestCandidateSlug(t *testing.T) {
	assert.Equal(t, "base", candidateSlug("base", 0))
	assert.Equal(t, "base-1", candidateSlug("base", 1))
	assert.Equal(t, "base-2", candidateSlug("base", 2))
}
