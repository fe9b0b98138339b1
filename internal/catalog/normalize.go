package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer decomposes to NFD, strips combining marks, and recomposes,
// so "Crème Brûlée" and "creme brulee" normalize identically.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize reduces a name to a comparison key: lowercase, diacritics
// stripped, symbols mapped to words, non-alphanumerics collapsed to single
// spaces.
func Normalize(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}

	folded, _, err := transform.String(foldTransformer, trimmed)
	if err != nil {
		folded = trimmed
	}

	lowered := strings.ToLower(folded)
	lowered = strings.ReplaceAll(lowered, "&", " and ")
	lowered = strings.ReplaceAll(lowered, "+", " and ")

	var builder strings.Builder
	lastSpace := true
	for _, r := range lowered {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			builder.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				builder.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(builder.String())
}
