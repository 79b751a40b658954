package certificate

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// OutputSuffix is appended to every filled certificate's base name.
const OutputSuffix = "_GiayXacNhan"

var whitespaceRun = regexp.MustCompile(`\s+`)

// SanitizeFileName folds diacritics to ASCII, drops characters outside
// letters, digits, "-", "_", "." and space, then turns whitespace runs into
// underscores.
func SanitizeFileName(s string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}
	folded = strings.NewReplacer("đ", "d", "Đ", "D").Replace(folded)

	var b strings.Builder
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-', r == '_', r == '.', r == ' ':
			b.WriteRune(r)
		}
	}
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(b.String()), "_")
}

// SuggestFileName returns the output base name (without extension) for
// rec, falling back to File_<index> when the full name yields nothing.
func SuggestFileName(rec *Record, index int) string {
	base := SanitizeFileName(rec.Get(FieldFullName))
	if base == "" {
		base = SanitizeFileName("File_" + strconv.Itoa(index))
	}
	return base + OutputSuffix
}
