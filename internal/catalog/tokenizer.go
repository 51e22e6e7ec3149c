package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Tokenize splits s into case-folded search tokens.
// Splits on anything that is not a letter or digit and additionally at
// lowerCamel boundaries, so "approvedSymbol" yields "approvedsymbol",
// "approved" and "symbol". Drops tokens < 2 chars and duplicates.
func Tokenize(s string) []string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	folder := cases.Fold()
	seen := make(map[string]bool, len(words))
	result := make([]string, 0, len(words))
	add := func(tok string) {
		tok = folder.String(tok)
		if len(tok) < 2 || seen[tok] {
			return
		}
		seen[tok] = true
		result = append(result, tok)
	}

	for _, w := range words {
		add(w)
		parts := splitCamel(w)
		if len(parts) > 1 {
			for _, p := range parts {
				add(p)
			}
		}
	}

	return result
}

// splitCamel splits "associatedTargets" into "associated" and "Targets".
func splitCamel(s string) []string {
	var parts []string
	start := 0
	runes := []rune(s)
	for i := 1; i < len(runes); i++ {
		if unicode.IsUpper(runes[i]) && unicode.IsLower(runes[i-1]) {
			parts = append(parts, string(runes[start:i]))
			start = i
		}
	}
	return append(parts, string(runes[start:]))
}
