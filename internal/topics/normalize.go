package topics

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizePhrase produces the canonical surface form used for candidate
// deduplication, stop-phrase matching, and merge-table lookup: NFKC unicode
// normalization, lower-casing, edge punctuation stripping, and whitespace
// collapsing. It is idempotent.
func NormalizePhrase(phrase string) string {
	phrase = norm.NFKC.String(phrase)
	phrase = strings.ToLower(phrase)

	fields := strings.Fields(phrase)
	cleaned := make([]string, 0, len(fields))

	for _, field := range fields {
		field = strings.TrimFunc(field, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if field != "" {
			cleaned = append(cleaned, field)
		}
	}

	return strings.Join(cleaned, " ")
}

// normalizeHashtag strips the leading '#' before normalization so hashtag
// source matching compares bare terms.
func normalizeHashtag(tag string) string {
	return NormalizePhrase(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
}
