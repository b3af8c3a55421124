package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold strips combining marks and lowercases, so "Vestuário" matches
// "vestuario". Used only for catalog search filtering, never for the
// attribute whitelist which matches categories exactly.
func Fold(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

func foldPtr(s *string) string {
	if s == nil {
		return ""
	}
	return Fold(*s)
}
