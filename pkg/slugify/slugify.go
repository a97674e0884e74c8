// Package slugify derives URL-safe identifiers from article titles.
package slugify

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxLength = 200

// Turkish letters that NFD decomposition alone does not map to ASCII.
var turkishASCII = strings.NewReplacer(
	"ı", "i", "İ", "i",
	"ğ", "g", "Ğ", "g",
	"ş", "s", "Ş", "s",
	"ç", "c", "Ç", "c",
	"ö", "o", "Ö", "o",
	"ü", "u", "Ü", "u",
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slug lowercases, transliterates and strips the input down to
// [a-z0-9-], collapsing every other run of characters into a single
// hyphen. The result is capped at 200 characters and may be empty if
// the input carries no usable characters.
func Slug(input string) string {
	s := turkishASCII.Replace(input)
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	pendingDash := false
	for _, r := range s {
		isSafe := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isSafe {
			pendingDash = b.Len() > 0
			continue
		}
		if pendingDash {
			b.WriteByte('-')
			pendingDash = false
		}
		b.WriteRune(r)
	}

	out := b.String()
	if len(out) > maxLength {
		out = strings.TrimRight(out[:maxLength], "-")
	}
	return out
}
