package index

import (
	"strings"
	"unicode"
)

// trigramLen is the window size used for index keys.
const trigramLen = 3

// GenerateTrigrams splits text into words on runs of non-word characters
// and returns, for each word, every 3-rune window. Words shorter than three
// runes are returned whole. The input is expected to be lower-cased already.
// The result is never nil.
func GenerateTrigrams(text string) []string {
	words := strings.FieldsFunc(text, isSeparator)
	out := make([]string, 0, len(text))
	for _, word := range words {
		runes := []rune(word)
		if len(runes) < trigramLen {
			out = append(out, word)
			continue
		}
		for i := 0; i+trigramLen <= len(runes); i++ {
			out = append(out, string(runes[i:i+trigramLen]))
		}
	}
	return out
}

// isSeparator reports whether r ends a word. Letters, digits and the
// underscore are word characters.
func isSeparator(r rune) bool {
	return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
}
