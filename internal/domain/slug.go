package domain

import (
	"regexp"
	"strings"
)

var (
	slugSpaces  = regexp.MustCompile(`\s+`)
	slugInvalid = regexp.MustCompile(`[^0-9A-Za-z_-]`)
)

// SlugKey derives a storage key from a category name: lowercase, whitespace
// runs collapsed to underscores, everything outside word chars and hyphens
// dropped. "Biología Básica" becomes "biologa_bsica"; two names can collide,
// which the store rejects on create.
func SlugKey(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	key = slugSpaces.ReplaceAllString(key, "_")
	return slugInvalid.ReplaceAllString(key, "")
}
