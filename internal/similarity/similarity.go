// Package similarity compares documents through their tf-idf term vectors.
package similarity

import (
	"sort"

	"vaultmind/internal/indexer"
)

// Match is one candidate document and its similarity to a target.
type Match struct {
	Path  string  `json:"path"`
	Score float64 `json:"score"`
}

// Similarity returns the cosine similarity of a and b in [0, 1]. Terms are
// merged in sorted order, so Similarity(a, b) and Similarity(b, a) perform the
// same arithmetic and are exactly equal.
func Similarity(a, b *indexer.TermVector) float64 {
	if a.Empty() || b.Empty() {
		return 0
	}

	var dot float64
	i, j := 0, 0
	for i < len(a.Terms) && j < len(b.Terms) {
		switch {
		case a.Terms[i] == b.Terms[j]:
			dot += a.Weights[i] * b.Weights[j]
			i++
			j++
		case a.Terms[i] < b.Terms[j]:
			i++
		default:
			j++
		}
	}

	score := dot / (a.Norm * b.Norm)
	switch {
	case score < 0:
		return 0
	case score > 1:
		return 1
	}
	return score
}

// TopKSimilar ranks every other non-empty document in idx against target.
// Scores below minThreshold are dropped; results are ordered by score
// descending, then path ascending. k <= 0 returns all matches. An unknown or
// empty target yields no matches.
func TopKSimilar(target string, idx *indexer.CorpusIndex, k int, minThreshold float64) []Match {
	tv, ok := idx.Vector(target)
	if !ok || tv.Empty() {
		return []Match{}
	}

	matches := make([]Match, 0)
	for _, path := range idx.Paths {
		if path == target {
			continue
		}
		v := idx.Vectors[path]
		if v.Empty() {
			continue
		}
		score := Similarity(tv, v)
		if score < minThreshold || score == 0 {
			continue
		}
		matches = append(matches, Match{Path: path, Score: score})
	}

	SortMatches(matches)
	if k > 0 && len(matches) > k {
		matches = matches[:k]
	}
	return matches
}

// SortMatches orders matches by score descending, then path ascending.
func SortMatches(matches []Match) {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Path < matches[j].Path
	})
}
