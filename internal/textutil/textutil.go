// Package textutil provides tokenization helpers for review text.
package textutil

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var tokenizeRe = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Tokenize extracts Unicode word tokens from text.
func Tokenize(text string) []string {
	return tokenizeRe.FindAllString(text, -1)
}

// FilterShort drops tokens with fewer than minLen runes. The input slice is
// reused.
func FilterShort(tokens []string, minLen int) []string {
	if minLen <= 1 {
		return tokens
	}
	kept := tokens[:0]
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) >= minLen {
			kept = append(kept, tok)
		}
	}
	return kept
}

// Ngrams returns character n-grams of s for n in [minN, maxN].
func Ngrams(s string, minN, maxN int) []string {
	runes := []rune(s)
	var res []string
	for n := minN; n <= maxN && n <= len(runes); n++ {
		for i := 0; i+n <= len(runes); i++ {
			res = append(res, string(runes[i:i+n]))
		}
	}
	return res
}

// TokenNgrams returns space-joined token n-grams for n in [minN, maxN].
func TokenNgrams(tokens []string, minN, maxN int) []string {
	if minN == 1 && maxN == 1 {
		return tokens
	}
	var res []string
	for n := minN; n <= maxN && n <= len(tokens); n++ {
		for i := 0; i+n <= len(tokens); i++ {
			res = append(res, strings.Join(tokens[i:i+n], " "))
		}
	}
	return res
}

var spaceRe = regexp.MustCompile(`\s+`)

// CollapseSpaces trims text and replaces whitespace runs, including
// newlines, with a single space.
func CollapseSpaces(text string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
}

// Preview shortens text to at most n runes for log and report output.
func Preview(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return string(runes[:n]) + "..."
}
