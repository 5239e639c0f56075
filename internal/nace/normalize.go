package nace

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize produces the searchable form of a code, title or query: every
// rune that is not a letter, a number or whitespace is removed and the rest
// is lower-cased.
//
// The same function is applied to the dataset at parse time and to every
// query, so matching is case and punctuation insensitive.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
	// A Caser keeps state between calls, so one is created per call.
	return cases.Lower(language.Und).String(stripped)
}

// Tokenize splits an already normalized string on whitespace, dropping empty tokens.
func Tokenize(normalized string) []string {
	return strings.Fields(normalized)
}
