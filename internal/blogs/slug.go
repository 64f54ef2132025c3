package blogs

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify turns a title into a URL-safe slug: diacritics stripped,
// lowercased, runs of non-alphanumerics collapsed into single hyphens.
func Slugify(title string) string {
	flat, _, err := transform.String(deaccent, title)
	if err != nil {
		flat = title
	}
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(flat) {
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
	return strings.Trim(b.String(), "-")
}
