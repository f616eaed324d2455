package pkg

import (
	"regexp"
	"strings"
)

var (
	slugPattern  = regexp.MustCompile(`^[a-z0-9-]+$`)
	slugStrip    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapse = regexp.MustCompile(`[\s_-]+`)
)

// GenerateSlug derives a URL-safe slug from a display name.
func GenerateSlug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugCollapse.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > 50 {
		s = strings.Trim(s[:50], "-")
	}
	return s
}

// ValidSlug reports whether slug is lowercase alphanumeric/hyphen, 1-50 chars.
func ValidSlug(slug string) bool {
	return len(slug) >= 1 && len(slug) <= 50 && slugPattern.MatchString(slug)
}
