package users

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify derives the url-safe unique identifier for a username. Diacritics
// are stripped, everything outside [a-z0-9] collapses to single dashes.
func Slugify(name string) string {
	flattened, _, err := transform.String(deaccent, name)
	if err != nil {
		flattened = name
	}
	var b strings.Builder
	b.Grow(len(flattened))
	lastDash := true
	for _, r := range strings.ToLower(flattened) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
