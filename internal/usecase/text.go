package usecase

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldName lowercases value and strips diacritics so "Ødegaard" matches
// "odegaard".
func foldName(value string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, value)
	if err != nil {
		folded = value
	}
	folded = strings.NewReplacer("ø", "o", "Ø", "o", "ß", "ss", "æ", "ae", "Æ", "ae", "ł", "l", "Ł", "l").Replace(folded)
	return strings.ToLower(strings.TrimSpace(folded))
}

func containsFolded(haystack, foldedNeedle string) bool {
	return strings.Contains(foldName(haystack), foldedNeedle)
}
