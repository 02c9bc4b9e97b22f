// Package detect finds near-duplicate notes and links that are missing
// between related notes.
package detect

import (
	"context"
	"sort"

	"vaultmind/internal/indexer"
	"vaultmind/internal/similarity"
)

// Pair is two documents whose similarity met the duplicate threshold. A < B.
type Pair struct {
	A     string  `json:"a"`
	B     string  `json:"b"`
	Score float64 `json:"score"`
}

// Cluster is a connected group of near-duplicate documents.
type Cluster struct {
	Paths    []string `json:"paths"`
	MaxScore float64  `json:"max_score"`
	MinScore float64  `json:"min_score"`
}

// Report is the outcome of a duplicate scan.
type Report struct {
	Threshold float64   `json:"threshold"`
	Clusters  []Cluster `json:"clusters"`
	Pairs     []Pair    `json:"pairs"`
	// FlaggedDocuments is the number of documents belonging to any cluster.
	FlaggedDocuments int `json:"flagged_documents"`
}

// FindDuplicateClusters compares every pair of non-empty documents and joins
// those scoring at least threshold into clusters with union-find. Only
// clusters of two or more documents are reported. The context is checked once
// per row of the pairwise scan.
func FindDuplicateClusters(ctx context.Context, idx *indexer.CorpusIndex, threshold float64) (Report, error) {
	report := Report{Threshold: threshold, Clusters: []Cluster{}, Pairs: []Pair{}}

	paths := make([]string, 0, len(idx.Paths))
	for _, p := range idx.Paths {
		if !idx.Vectors[p].Empty() {
			paths = append(paths, p)
		}
	}

	uf := newUnionFind(len(paths))
	for i := 0; i < len(paths); i++ {
		if err := ctx.Err(); err != nil {
			return Report{}, err
		}
		vi := idx.Vectors[paths[i]]
		for j := i + 1; j < len(paths); j++ {
			score := similarity.Similarity(vi, idx.Vectors[paths[j]])
			if score == 0 || score < threshold {
				continue
			}
			uf.union(i, j)
			report.Pairs = append(report.Pairs, Pair{A: paths[i], B: paths[j], Score: score})
		}
	}

	groups := make(map[int][]string)
	for i, p := range paths {
		root := uf.find(i)
		groups[root] = append(groups[root], p)
	}

	clusterOf := make(map[string]int)
	for _, members := range groups {
		if len(members) < 2 {
			continue
		}
		sort.Strings(members)
		for _, m := range members {
			clusterOf[m] = len(report.Clusters)
		}
		report.Clusters = append(report.Clusters, Cluster{Paths: members})
		report.FlaggedDocuments += len(members)
	}

	for _, pair := range report.Pairs {
		c := &report.Clusters[clusterOf[pair.A]]
		if c.MaxScore == 0 || pair.Score > c.MaxScore {
			c.MaxScore = pair.Score
		}
		if c.MinScore == 0 || pair.Score < c.MinScore {
			c.MinScore = pair.Score
		}
	}

	sort.Slice(report.Clusters, func(i, j int) bool {
		a, b := report.Clusters[i], report.Clusters[j]
		if len(a.Paths) != len(b.Paths) {
			return len(a.Paths) > len(b.Paths)
		}
		return a.Paths[0] < b.Paths[0]
	})
	sort.Slice(report.Pairs, func(i, j int) bool {
		a, b := report.Pairs[i], report.Pairs[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.A != b.A {
			return a.A < b.A
		}
		return a.B < b.B
	})

	return report, nil
}

// Members returns the set of documents belonging to any cluster.
func (r Report) Members() map[string]struct{} {
	out := make(map[string]struct{}, r.FlaggedDocuments)
	for _, c := range r.Clusters {
		for _, p := range c.Paths {
			out[p] = struct{}{}
		}
	}
	return out
}

type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	switch {
	case uf.rank[ra] < uf.rank[rb]:
		uf.parent[ra] = rb
	case uf.rank[ra] > uf.rank[rb]:
		uf.parent[rb] = ra
	default:
		uf.parent[rb] = ra
		uf.rank[ra]++
	}
}
