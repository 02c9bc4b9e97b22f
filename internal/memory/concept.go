package memory

import (
	"regexp"
	"sort"

	"vaultmind/internal/indexer"
)

// FallbackConcept names insights whose content yields no usable term.
const FallbackConcept = "uncategorized"

var (
	acronymPattern    = regexp.MustCompile(`\b[A-Z]{2,}\b`)
	hyphenatedPattern = regexp.MustCompile(`\b[\p{L}\p{N}]+(?:[-_][\p{L}\p{N}]+)+\b`)
	bigramPattern     = regexp.MustCompile(`\b[A-Z][a-z]+ [A-Z][a-z]+\b`)
)

// DeriveConcept picks a concept name from free text: the first acronym,
// else the first hyphenated term, else the first capitalized bigram, else
// the most frequent indexed token (ties broken alphabetically).
func DeriveConcept(text string) string {
	for _, p := range []*regexp.Regexp{acronymPattern, hyphenatedPattern, bigramPattern} {
		if m := p.FindString(text); m != "" {
			return NormalizeConcept(m)
		}
	}

	tokens := indexer.Tokenize(text)
	if len(tokens) == 0 {
		return FallbackConcept
	}
	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	terms := make([]string, 0, len(counts))
	for t := range counts {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})
	return terms[0]
}
