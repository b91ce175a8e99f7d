package domain

import (
	"fmt"
	"strings"
	"time"
)

// Slugify derives a URL-safe slug from a free-text title: lowercase, trim,
// collapse every run of non-alphanumeric characters into a single hyphen,
// and strip leading/trailing hyphens. A title with no alphanumeric content
// falls back to a timestamp-based slug so the result is never empty.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return fmt.Sprintf("post-%d", time.Now().UnixMilli())
	}
	return slug
}

// candidateSlug returns the base slug for attempt 0, and "base-N" for
// attempt N >= 1.
func candidateSlug(base string, attempt int) string {
	if attempt == 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, attempt)
}
