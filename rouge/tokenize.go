package rouge

import (
	"strings"
	"unicode"
)

// Tokenize lowercases text and splits it on every rune that is not a letter or digit.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// sentences splits text on newlines and tokenizes each non-blank line.
func sentences(text string) [][]string {
	var out [][]string
	for line := range strings.SplitSeq(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, Tokenize(line))
	}
	return out
}
