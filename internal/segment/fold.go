package segment

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldUpper upper-cases s and strips diacritics. offsets[i] is the byte offset in s of
// the rune that produced byte i of the folded string; offsets[len(folded)] == len(s).
func foldUpper(s string) (string, []int) {
	strip := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	var b strings.Builder
	b.Grow(len(s))
	offsets := make([]int, 0, len(s)+1)

	for i, r := range s {
		var folded string
		switch {
		case r == '\u00a0':
			folded = " "
		case r < utf8.RuneSelf:
			folded = string(unicode.ToUpper(r))
		default:
			out, _, err := transform.String(strip, string(r))
			if err != nil || out == "" {
				out = string(r)
			}
			folded = strings.ToUpper(out)
		}
		b.WriteString(folded)
		for range len(folded) {
			offsets = append(offsets, i)
		}
	}
	offsets = append(offsets, len(s))
	return b.String(), offsets
}

// Fold returns s upper-cased without diacritics ("Proprietário" -> "PROPRIETARIO").
func Fold(s string) string {
	f, _ := foldUpper(s)
	return f
}
