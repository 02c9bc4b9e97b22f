package memory

import (
	"sort"
	"time"

	"vaultmind/internal/storage"
)

// Relationship links two concepts whose insights were created close together.
type Relationship struct {
	Concepts [2]string `json:"concepts"`
	// Strength is the number of record pairs that fell inside the window.
	Strength int `json:"strength"`
}

// Relationships pairs distinct concepts among records whose creation times
// are at most window apart. It never reads or writes the store.
func Relationships(records []storage.InsightRecord, window time.Duration) []Relationship {
	out := []Relationship{}
	if window <= 0 || len(records) < 2 {
		return out
	}

	sorted := append([]storage.InsightRecord(nil), records...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	strength := make(map[[2]string]int)
	for i := range sorted {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j].CreatedAt.Sub(sorted[i].CreatedAt) > window {
				break
			}
			a, b := sorted[i].ConceptNorm, sorted[j].ConceptNorm
			if a == b {
				continue
			}
			if b < a {
				a, b = b, a
			}
			strength[[2]string{a, b}]++
		}
	}

	for pair, n := range strength {
		out = append(out, Relationship{Concepts: pair, Strength: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Strength != out[j].Strength {
			return out[i].Strength > out[j].Strength
		}
		if out[i].Concepts[0] != out[j].Concepts[0] {
			return out[i].Concepts[0] < out[j].Concepts[0]
		}
		return out[i].Concepts[1] < out[j].Concepts[1]
	})
	return out
}
