package indexer

import (
	"math"
	"sort"
	"time"
)

// IndexStats summarizes an index build.
type IndexStats struct {
	// Documents is the corpus size N.
	Documents int `json:"documents"`
	// EmptyDocuments counts documents with no terms left after filtering.
	EmptyDocuments int `json:"empty_documents"`
	// Vocabulary is the number of distinct terms.
	Vocabulary int `json:"vocabulary"`
	// TermStats describes distinct terms per non-empty document.
	TermStats TermCountStats `json:"term_stats"`
	BuildID   string         `json:"build_id"`
	BuiltAt   time.Time      `json:"built_at"`
}

// TermCountStats contains distribution statistics of terms per document.
type TermCountStats struct {
	Min  int     `json:"min"`
	Max  int     `json:"max"`
	Mean float64 `json:"mean"`
	P95  int     `json:"p95"`
}

// Stats computes summary statistics for idx.
func Stats(idx *CorpusIndex) IndexStats {
	if idx == nil {
		return IndexStats{}
	}
	stats := IndexStats{
		Documents:  idx.N,
		Vocabulary: len(idx.DocFreq),
		BuildID:    idx.BuildID,
		BuiltAt:    idx.BuiltAt,
	}
	counts := make([]int, 0, len(idx.Vectors))
	for _, path := range idx.Paths {
		v := idx.Vectors[path]
		if v.Empty() {
			stats.EmptyDocuments++
			continue
		}
		counts = append(counts, len(v.Terms))
	}
	stats.TermStats = computeTermStats(counts)
	return stats
}

func computeTermStats(termCounts []int) TermCountStats {
	if len(termCounts) == 0 {
		return TermCountStats{}
	}

	sorted := make([]int, len(termCounts))
	copy(sorted, termCounts)
	sort.Ints(sorted)

	sum := 0
	for _, count := range termCounts {
		sum += count
	}
	mean := float64(sum) / float64(len(termCounts))

	p95Index := int(math.Ceil(float64(len(sorted))*0.95)) - 1
	if p95Index < 0 {
		p95Index = 0
	}

	return TermCountStats{
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		Mean: math.Round(mean*100) / 100,
		P95:  sorted[p95Index],
	}
}
