package domain

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	slugDisallowed = regexp.MustCompile(`[^a-z0-9_\s-]+`)
	slugSeparators = regexp.MustCompile(`[\s_-]+`)
	customURLRe    = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// Slugify derives a business custom URL from its display name:
// lowercase, drop everything except ASCII letters, digits, spaces, underscores and
// hyphens, collapse separator runs into one hyphen and trim hyphens at both ends.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugDisallowed.ReplaceAllString(s, "")
	s = slugSeparators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ValidateCustomURL checks an owner-chosen custom URL: lowercase ASCII letters,
// digits and hyphens only. Every Slugify result passes.
func ValidateCustomURL(url string) error {
	if url == "" || len(url) > MaxCustomURLLength {
		return fmt.Errorf("%w: must be 1-%d characters", ErrInvalidCustomURL, MaxCustomURLLength)
	}
	if !customURLRe.MatchString(url) {
		return fmt.Errorf("%w: only lowercase letters, digits and hyphens are allowed", ErrInvalidCustomURL)
	}
	return nil
}
