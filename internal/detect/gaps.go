package detect

import (
	"sort"

	"vaultmind/internal/indexer"
	"vaultmind/internal/linkgraph"
	"vaultmind/internal/similarity"
	"vaultmind/internal/vault"
)

// Suggestion is a document similar to the target that is not linked to it.
type Suggestion struct {
	Path           string   `json:"path"`
	Title          string   `json:"title,omitempty"`
	Score          float64  `json:"score"`
	TitleMentioned bool     `json:"title_mentioned"`
	SharedTags     []string `json:"shared_tags,omitempty"`
}

// SuggestMissingLinks returns documents scoring at least threshold against
// target that are neither linked from nor linking to it, ordered by score.
// limit <= 0 returns every candidate.
func SuggestMissingLinks(target string, idx *indexer.CorpusIndex, graph *linkgraph.Graph, threshold float64, limit int) []Suggestion {
	matches := similarity.TopKSimilar(target, idx, 0, threshold)

	out := make([]Suggestion, 0, len(matches))
	for _, m := range matches {
		if graph.Linked(target, m.Path) {
			continue
		}
		out = append(out, Suggestion{Path: m.Path, Score: m.Score})
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Annotate fills in titles, shared tags and title mentions on suggestions for
// target. lookup resolves a path in the same snapshot. Ordering is unchanged.
func Annotate(target vault.Document, suggestions []Suggestion, lookup func(string) (vault.Document, bool)) {
	text := canonicalize(target.Text)
	for i := range suggestions {
		doc, ok := lookup(suggestions[i].Path)
		if !ok {
			continue
		}
		suggestions[i].Title = doc.Title
		suggestions[i].SharedTags = sharedTags(target.Tags, doc.Tags)
		if t := canonicalize(doc.Title); len(t) > 2 {
			suggestions[i].TitleMentioned = containsWord(text, t)
		}
	}
}

func sharedTags(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}
	var out []string
	for _, t := range b {
		if _, ok := set[t]; ok {
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}
