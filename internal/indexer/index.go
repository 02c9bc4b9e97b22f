package indexer

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"vaultmind/internal/vault"
)

// TermVector is the sparse tf-idf representation of one document.
// Terms are sorted ascending and Weights is parallel to Terms.
type TermVector struct {
	Terms   []string
	Weights []float64
	Norm    float64
	// Tokens is the number of tokens retained after stop-word filtering.
	Tokens int
}

// Empty reports whether the vector has no weighted terms.
func (v *TermVector) Empty() bool {
	return v == nil || len(v.Terms) == 0 || v.Norm == 0
}

// CorpusIndex holds the term vectors of every document in one vault snapshot.
type CorpusIndex struct {
	Vectors map[string]*TermVector
	// Paths lists every indexed document, sorted.
	Paths   []string
	DocFreq map[string]int
	N       int
	BuiltAt time.Time
	BuildID string

	fingerprint map[string]time.Time
}

// Vector returns the term vector for path.
func (idx *CorpusIndex) Vector(path string) (*TermVector, bool) {
	v, ok := idx.Vectors[path]
	return v, ok
}

// Contains reports whether path was part of the indexed corpus.
func (idx *CorpusIndex) Contains(path string) bool {
	_, ok := idx.Vectors[path]
	return ok
}

// IDF is the smoothed inverse document frequency ln(1 + N/(1+df)).
// It is strictly positive and decreases as df grows.
func IDF(n, df int) float64 {
	return math.Log(1 + float64(n)/float64(1+df))
}

// BuildIndex builds a complete index over docs. Vector contents depend only
// on document text, so building twice over the same input yields equal vectors.
func BuildIndex(docs []vault.Document) *CorpusIndex {
	idx, _ := buildIndex(context.Background(), docs, time.Now().UTC())
	return idx
}

func buildIndex(ctx context.Context, docs []vault.Document, now time.Time) (*CorpusIndex, error) {
	ordered := make([]vault.Document, 0, len(docs))
	seen := make(map[string]struct{}, len(docs))
	for _, d := range docs {
		if _, dup := seen[d.Path]; dup {
			continue
		}
		seen[d.Path] = struct{}{}
		ordered = append(ordered, d)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Path < ordered[j].Path })

	type docTerms struct {
		counts map[string]int
		total  int
	}
	perDoc := make([]docTerms, len(ordered))
	docFreq := make(map[string]int)

	for i, d := range ordered {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tokens := Tokenize(d.Text)
		counts := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			counts[tok]++
		}
		for term := range counts {
			docFreq[term]++
		}
		perDoc[i] = docTerms{counts: counts, total: len(tokens)}
	}

	n := len(ordered)
	idx := &CorpusIndex{
		Vectors:     make(map[string]*TermVector, n),
		Paths:       make([]string, 0, n),
		DocFreq:     docFreq,
		N:           n,
		BuiltAt:     now,
		BuildID:     uuid.NewString(),
		fingerprint: make(map[string]time.Time, n),
	}

	for i, d := range ordered {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		idx.Paths = append(idx.Paths, d.Path)
		idx.fingerprint[d.Path] = d.ModifiedAt
		idx.Vectors[d.Path] = newTermVector(perDoc[i].counts, perDoc[i].total, docFreq, n)
	}

	return idx, nil
}

func newTermVector(counts map[string]int, total int, docFreq map[string]int, n int) *TermVector {
	v := &TermVector{Tokens: total}
	if total == 0 {
		return v
	}

	v.Terms = make([]string, 0, len(counts))
	for term := range counts {
		v.Terms = append(v.Terms, term)
	}
	sort.Strings(v.Terms)

	v.Weights = make([]float64, len(v.Terms))
	var sumSq float64
	for i, term := range v.Terms {
		tf := float64(counts[term]) / float64(total)
		w := tf * IDF(n, docFreq[term])
		v.Weights[i] = w
		sumSq += w * w
	}
	v.Norm = math.Sqrt(sumSq)
	return v
}
