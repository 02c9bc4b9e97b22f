package detect

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/coregx/ahocorasick"

	"vaultmind/internal/linkgraph"
	"vaultmind/internal/vault"
)

// minMentionLength is the shortest canonical title considered a mention.
const minMentionLength = 3

// Mention is a document whose title appears in the target's text without a link.
type Mention struct {
	Path  string `json:"path"`
	Title string `json:"title"`
	Count int    `json:"count"`
}

// FindUnlinkedMentions scans target's text for the titles and aliases of the
// other documents. Matches are whole words, case insensitive. Documents
// already linked to or from target are skipped. Results are ordered by count
// descending, then path.
func FindUnlinkedMentions(target vault.Document, docs []vault.Document, graph *linkgraph.Graph) ([]Mention, error) {
	var (
		patterns []string
		owners   [][]int
		seen     = make(map[string]int)
	)
	for i, d := range docs {
		if d.Path == target.Path || graph.Linked(target.Path, d.Path) {
			continue
		}
		names := append([]string{d.Title}, d.Aliases...)
		for _, name := range names {
			key := canonicalize(name)
			if len(key) < minMentionLength {
				continue
			}
			// A leading separator anchors matches at a word start.
			key = " " + key
			if pid, ok := seen[key]; ok {
				if !containsInt(owners[pid], i) {
					owners[pid] = append(owners[pid], i)
				}
				continue
			}
			seen[key] = len(patterns)
			patterns = append(patterns, key)
			owners = append(owners, []int{i})
		}
	}

	out := []Mention{}
	if len(patterns) == 0 {
		return out, nil
	}

	automaton, err := ahocorasick.NewBuilder().
		AddStrings(patterns).
		SetMatchKind(ahocorasick.LeftmostLongest).
		SetPrefilter(true).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build mention automaton: %w", err)
	}

	haystack := []byte(" " + canonicalize(target.Text) + " ")
	counts := make(map[int]int)
	for _, m := range automaton.FindAllOverlapping(haystack) {
		if m.End >= len(haystack) || haystack[m.End] != ' ' {
			continue
		}
		for _, docIdx := range owners[m.PatternID] {
			counts[docIdx]++
		}
	}

	for docIdx, n := range counts {
		d := docs[docIdx]
		out = append(out, Mention{Path: d.Path, Title: d.Title, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Path < out[j].Path
	})
	return out, nil
}

// canonicalize lowercases s and collapses every run of non letter or digit
// runes into a single space.
func canonicalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		pendingSpace = true
	}
	return b.String()
}

// containsWord reports whether phrase occurs in text on word boundaries. Both
// arguments must already be canonical.
func containsWord(text, phrase string) bool {
	return strings.Contains(" "+text+" ", " "+phrase+" ")
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
