package detect

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaultmind/internal/indexer"
	"vaultmind/internal/linkgraph"
	"vaultmind/internal/vault"
)

func docsFrom(texts map[string]string) []vault.Document {
	docs := make([]vault.Document, 0, len(texts))
	for p, text := range texts {
		docs = append(docs, vault.Document{Path: p, Text: text})
	}
	return docs
}

func TestFindDuplicateClusters_CatsAndDogs(t *testing.T) {
	idx := indexer.BuildIndex(docsFrom(map[string]string{
		"doc1": "cats and dogs",
		"doc2": "cats and dogs",
		"doc3": "quantum computing",
	}))

	report, err := FindDuplicateClusters(context.Background(), idx, 0.9)
	require.NoError(t, err)

	require.Len(t, report.Clusters, 1)
	assert.Equal(t, []string{"doc1", "doc2"}, report.Clusters[0].Paths)
	assert.InDelta(t, 1.0, report.Clusters[0].MaxScore, 1e-9)
	assert.Equal(t, 2, report.FlaggedDocuments)
	require.Len(t, report.Pairs, 1)
	assert.Equal(t, "doc1", report.Pairs[0].A)
	assert.Equal(t, "doc2", report.Pairs[0].B)
}

func TestFindDuplicateClusters_TransitiveAndOrdering(t *testing.T) {
	idx := indexer.BuildIndex(docsFrom(map[string]string{
		"a.md":     "raft consensus leader election heartbeat",
		"b.md":     "raft consensus leader election heartbeat",
		"c.md":     "raft consensus leader election heartbeat",
		"x.md":     "sourdough starter flour hydration",
		"y.md":     "sourdough starter flour hydration",
		"solo.md":  "kittens yarn",
		"empty.md": "",
	}))

	report, err := FindDuplicateClusters(context.Background(), idx, 0.95)
	require.NoError(t, err)

	require.Len(t, report.Clusters, 2)
	assert.Equal(t, []string{"a.md", "b.md", "c.md"}, report.Clusters[0].Paths, "largest cluster first")
	assert.Equal(t, []string{"x.md", "y.md"}, report.Clusters[1].Paths)
	assert.Equal(t, 5, report.FlaggedDocuments)
	assert.Len(t, report.Pairs, 4)
	assert.Len(t, report.Members(), 5)
}

func TestFindDuplicateClusters_StricterThresholdNeverFlagsMore(t *testing.T) {
	idx := indexer.BuildIndex(docsFrom(map[string]string{
		"a.md": "postgres replication wal streaming standby",
		"b.md": "postgres replication wal streaming failover",
		"c.md": "postgres replication logical slots",
		"d.md": "postgres vacuum autovacuum bloat",
		"e.md": "postgres replication wal streaming standby",
		"f.md": "gardening tomatoes compost",
	}))

	thresholds := []float64{0.05, 0.1, 0.2, 0.4, 0.6, 0.8, 0.95, 1}
	prevDocs, prevPairs := -1, -1
	for _, th := range thresholds {
		report, err := FindDuplicateClusters(context.Background(), idx, th)
		require.NoError(t, err)
		if prevDocs >= 0 {
			assert.LessOrEqual(t, report.FlaggedDocuments, prevDocs, "threshold %v", th)
			assert.LessOrEqual(t, len(report.Pairs), prevPairs, "threshold %v", th)
		}
		prevDocs, prevPairs = report.FlaggedDocuments, len(report.Pairs)
	}
}

func TestFindDuplicateClusters_Empty(t *testing.T) {
	report, err := FindDuplicateClusters(context.Background(), indexer.BuildIndex(nil), 0.8)
	require.NoError(t, err)
	assert.NotNil(t, report.Clusters)
	assert.Empty(t, report.Clusters)
	assert.Zero(t, report.FlaggedDocuments)
}

func TestFindDuplicateClusters_Cancelled(t *testing.T) {
	idx := indexer.BuildIndex(docsFrom(map[string]string{"a.md": "alpha beta", "b.md": "alpha beta"}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FindDuplicateClusters(ctx, idx, 0.5)
	assert.ErrorIs(t, err, context.Canceled)
}

func gapFixture() ([]vault.Document, *indexer.CorpusIndex, *linkgraph.Graph) {
	docs := []vault.Document{
		{
			Path:  "target.md",
			Title: "Target",
			Text:  "kafka consumer groups rebalancing partitions offsets. see Kafka Offsets for more",
			Tags:  []string{"kafka", "streaming"},
			Links: []vault.Link{{Target: "linked-out", Kind: vault.WikiLink}},
		},
		{Path: "linked-out.md", Title: "Linked Out", Text: "kafka consumer groups rebalancing partitions"},
		{Path: "linked-in.md", Title: "Linked In", Text: "kafka consumer groups partitions offsets",
			Links: []vault.Link{{Target: "target", Kind: vault.WikiLink}}},
		{Path: "candidate.md", Title: "Kafka Offsets", Text: "kafka partitions offsets commits", Tags: []string{"kafka"}},
		{Path: "weak.md", Title: "Weak", Text: "kafka brokers"},
		{Path: "other.md", Title: "Other", Text: "knitting wool needles"},
	}
	return docs, indexer.BuildIndex(docs), linkgraph.Build(docs)
}

func TestSuggestMissingLinks(t *testing.T) {
	docs, idx, graph := gapFixture()

	got := SuggestMissingLinks("target.md", idx, graph, 0.01, 0)
	paths := make([]string, 0, len(got))
	for _, s := range got {
		paths = append(paths, s.Path)
	}
	assert.Contains(t, paths, "candidate.md")
	assert.NotContains(t, paths, "linked-out.md", "outbound links are excluded")
	assert.NotContains(t, paths, "linked-in.md", "inbound links are excluded")
	assert.NotContains(t, paths, "other.md")
	assert.NotContains(t, paths, "target.md")
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}

	limited := SuggestMissingLinks("target.md", idx, graph, 0.01, 1)
	require.Len(t, limited, 1)
	assert.Equal(t, got[0], limited[0])

	byPath := make(map[string]vault.Document, len(docs))
	for _, d := range docs {
		byPath[d.Path] = d
	}
	Annotate(docs[0], got, func(p string) (vault.Document, bool) {
		d, ok := byPath[p]
		return d, ok
	})
	for _, s := range got {
		if s.Path == "candidate.md" {
			assert.Equal(t, "Kafka Offsets", s.Title)
			assert.True(t, s.TitleMentioned)
			assert.Equal(t, []string{"kafka"}, s.SharedTags)
		}
	}
}

func TestSuggestMissingLinks_EmptyTarget(t *testing.T) {
	docs := []vault.Document{
		{Path: "empty.md", Text: ""},
		{Path: "a.md", Text: "alpha beta"},
	}
	got := SuggestMissingLinks("empty.md", indexer.BuildIndex(docs), linkgraph.Build(docs), 0, 0)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFindUnlinkedMentions(t *testing.T) {
	docs := []vault.Document{
		{Path: "target.md", Title: "Target", Text: "Notes on Event Sourcing and CQRS. Event sourcing pairs with snapshots; see linked note.",
			Links: []vault.Link{{Target: "linked", Kind: vault.WikiLink}}},
		{Path: "es.md", Title: "Event Sourcing"},
		{Path: "cqrs.md", Title: "Command Query", Aliases: []string{"CQRS"}},
		{Path: "linked.md", Title: "Linked Note", Aliases: []string{"snapshots"}},
		{Path: "partial.md", Title: "Event Sour"},
		{Path: "short.md", Title: "ES"},
	}
	graph := linkgraph.Build(docs)

	got, err := FindUnlinkedMentions(docs[0], docs, graph)
	require.NoError(t, err)

	assert.Equal(t, []Mention{
		{Path: "es.md", Title: "Event Sourcing", Count: 2},
		{Path: "cqrs.md", Title: "Command Query", Count: 1},
	}, got)
}

func TestFindUnlinkedMentions_NoCandidates(t *testing.T) {
	target := vault.Document{Path: "only.md", Title: "Only", Text: "nothing here"}
	got, err := FindUnlinkedMentions(target, []vault.Document{target}, linkgraph.Build([]vault.Document{target}))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello, World!", "hello world"},
		{"  --Event   Sourcing--  ", "event sourcing"},
		{"", ""},
		{"C++ & Go", "c go"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, canonicalize(tt.in), tt.in)
	}
}
