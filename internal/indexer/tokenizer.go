package indexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/orsinium-labs/stopwords"
)

// MinTokenLength is the shortest token, in runes, kept by Tokenize.
const MinTokenLength = 2

var englishStopwords = stopwords.MustGet("en")

// markdownNoise covers tokens that markdown and link syntax leave behind.
var markdownNoise = map[string]struct{}{
	"http":  {},
	"https": {},
	"www":   {},
	"com":   {},
	"md":    {},
	"png":   {},
	"jpg":   {},
	"todo":  {},
	"tags":  {},
}

// IsStopword reports whether a lowercase token belongs to the fixed stop-word set.
func IsStopword(token string) bool {
	if _, ok := markdownNoise[token]; ok {
		return true
	}
	return englishStopwords.Contains(token)
}

// Tokenize lowercases text, treats every non-letter, non-digit rune as a
// separator, and drops stop-words and tokens shorter than MinTokenLength.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}

	var builder strings.Builder
	builder.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
		} else {
			builder.WriteRune(' ')
		}
	}

	fields := strings.Fields(builder.String())
	tokens := fields[:0]
	for _, tok := range fields {
		if utf8.RuneCountInString(tok) < MinTokenLength {
			continue
		}
		if IsStopword(tok) {
			continue
		}
		tokens = append(tokens, tok)
	}
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}
