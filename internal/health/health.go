// Package health scores the structural health of a vault snapshot.
package health

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"vaultmind/internal/detect"
	"vaultmind/internal/indexer"
	"vaultmind/internal/linkgraph"
	"vaultmind/internal/vault"
)

const (
	defaultRecentWindow = 7 * 24 * time.Hour
	defaultHubMinLinks  = 5
	defaultHubLimit     = 10
	defaultTagCluster   = 3
	weightTolerance     = 1e-6
)

// ErrInvalidWeights is returned when weights are negative or do not sum to 1.
var ErrInvalidWeights = errors.New("health weights must be non-negative and sum to 1")

// Weights balance the three components of the overall score.
type Weights struct {
	Connectivity float64 `json:"connectivity"`
	Uniqueness   float64 `json:"uniqueness"`
	Freshness    float64 `json:"freshness"`
}

// DefaultWeights returns the standard weighting.
func DefaultWeights() Weights {
	return Weights{Connectivity: 0.4, Uniqueness: 0.3, Freshness: 0.3}
}

// Validate checks that every weight is non-negative and that they sum to 1.
func (w Weights) Validate() error {
	for _, v := range []float64{w.Connectivity, w.Uniqueness, w.Freshness} {
		if v < 0 || math.IsNaN(v) {
			return ErrInvalidWeights
		}
	}
	if math.Abs(w.Connectivity+w.Uniqueness+w.Freshness-1) > weightTolerance {
		return fmt.Errorf("%w: sum is %.4f", ErrInvalidWeights, w.Connectivity+w.Uniqueness+w.Freshness)
	}
	return nil
}

// Options configure ScoreHealth. Zero values select defaults.
type Options struct {
	Weights      Weights
	StaleAfter   time.Duration
	RecentWindow time.Duration
	HubMinLinks  int
	HubLimit     int
	// TagClusterMin is the number of notes a tag needs to be reported as a cluster.
	TagClusterMin int
}

// NewOptions validates the weights and fills in defaults.
func NewOptions(w Weights, staleAfter time.Duration) (Options, error) {
	if err := w.Validate(); err != nil {
		return Options{}, err
	}
	if staleAfter <= 0 {
		return Options{}, fmt.Errorf("stale window must be positive, got %s", staleAfter)
	}
	return Options{
		Weights:       w,
		StaleAfter:    staleAfter,
		RecentWindow:  defaultRecentWindow,
		HubMinLinks:   defaultHubMinLinks,
		HubLimit:      defaultHubLimit,
		TagClusterMin: defaultTagCluster,
	}, nil
}

// TagCluster is a tag shared by several notes.
type TagCluster struct {
	Tag   string   `json:"tag"`
	Paths []string `json:"paths"`
}

// Report is the health of one snapshot.
type Report struct {
	TotalDocuments    int                 `json:"total_documents"`
	Score             float64             `json:"score"`
	Connectivity      float64             `json:"connectivity"`
	OrphanCount       int                 `json:"orphan_count"`
	OrphanRatio       float64             `json:"orphan_ratio"`
	DuplicateClusters int                 `json:"duplicate_clusters"`
	DuplicateRatio    float64             `json:"duplicate_ratio"`
	Staleness         float64             `json:"staleness"`
	StaleCount        int                 `json:"stale_count"`
	Weights           Weights             `json:"weights"`
	Orphans           []string            `json:"orphans"`
	Hubs              []linkgraph.Hub     `json:"hubs"`
	TagClusters       []TagCluster        `json:"tag_clusters"`
	RecentActivity    int                 `json:"recent_activity"`
	DanglingLinks     int                 `json:"dangling_links"`
	Recommendations   []string            `json:"recommendations"`
	Index             *indexer.IndexStats `json:"index,omitempty"`
	GeneratedAt       time.Time           `json:"generated_at"`
}

// ScoreHealth combines connectivity, uniqueness and freshness into a score in
// [0, 1]. An empty vault is perfectly healthy.
func ScoreHealth(docs []vault.Document, graph *linkgraph.Graph, dupes detect.Report, now time.Time, opts Options) Report {
	opts = withDefaults(opts)
	r := Report{
		TotalDocuments: len(docs),
		Weights:        opts.Weights,
		Orphans:        []string{},
		Hubs:           []linkgraph.Hub{},
		TagClusters:    []TagCluster{},
		GeneratedAt:    now,
	}

	staleBefore := now.Add(-opts.StaleAfter)
	recentAfter := now.Add(-opts.RecentWindow)
	members := dupes.Members()
	flagged := 0
	connected := 0
	for _, d := range docs {
		if graph.Connected(d.Path) {
			connected++
		} else {
			r.Orphans = append(r.Orphans, d.Path)
		}
		if _, ok := members[d.Path]; ok {
			flagged++
		}
		if d.ModifiedAt.Before(staleBefore) {
			r.StaleCount++
		}
		if d.ModifiedAt.After(recentAfter) {
			r.RecentActivity++
		}
	}
	sort.Strings(r.Orphans)
	r.OrphanCount = len(r.Orphans)
	r.DuplicateClusters = len(dupes.Clusters)
	for _, targets := range graph.Dangling {
		r.DanglingLinks += len(targets)
	}

	if n := len(docs); n > 0 {
		r.Connectivity = float64(connected) / float64(n)
		r.DuplicateRatio = float64(flagged) / float64(n)
		r.Staleness = float64(r.StaleCount) / float64(n)
	} else {
		r.Connectivity = 1
	}
	r.OrphanRatio = 1 - r.Connectivity

	w := opts.Weights
	r.Score = clamp01(w.Connectivity*r.Connectivity + w.Uniqueness*(1-r.DuplicateRatio) + w.Freshness*(1-r.Staleness))

	r.Hubs = graph.Hubs(docs, opts.HubMinLinks, opts.HubLimit)
	if r.Hubs == nil {
		r.Hubs = []linkgraph.Hub{}
	}
	r.TagClusters = tagClusters(docs, opts.TagClusterMin)
	r.Recommendations = recommend(r, len(dupes.Pairs))
	return r
}

func withDefaults(o Options) Options {
	if o.Weights == (Weights{}) {
		o.Weights = DefaultWeights()
	}
	if o.StaleAfter <= 0 {
		o.StaleAfter = 90 * 24 * time.Hour
	}
	if o.RecentWindow <= 0 {
		o.RecentWindow = defaultRecentWindow
	}
	if o.HubMinLinks <= 0 {
		o.HubMinLinks = defaultHubMinLinks
	}
	if o.HubLimit <= 0 {
		o.HubLimit = defaultHubLimit
	}
	if o.TagClusterMin <= 0 {
		o.TagClusterMin = defaultTagCluster
	}
	return o
}

func tagClusters(docs []vault.Document, minNotes int) []TagCluster {
	byTag := make(map[string][]string)
	for _, d := range docs {
		for _, tag := range d.Tags {
			byTag[tag] = append(byTag[tag], d.Path)
		}
	}
	out := []TagCluster{}
	for tag, paths := range byTag {
		if len(paths) < minNotes {
			continue
		}
		sort.Strings(paths)
		out = append(out, TagCluster{Tag: tag, Paths: paths})
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].Paths) != len(out[j].Paths) {
			return len(out[i].Paths) > len(out[j].Paths)
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}

func recommend(r Report, duplicatePairs int) []string {
	recs := []string{}
	if r.OrphanCount > 0 {
		recs = append(recs, fmt.Sprintf("Connect %d orphaned notes by adding relevant links", r.OrphanCount))
	}
	if duplicatePairs > 0 {
		recs = append(recs, fmt.Sprintf("Review %d pairs of similar notes for potential merging", duplicatePairs))
	}
	if r.StaleCount > 0 {
		recs = append(recs, fmt.Sprintf("Revisit %d notes that have not been updated recently", r.StaleCount))
	}
	if r.DanglingLinks > 0 {
		recs = append(recs, fmt.Sprintf("Create or fix %d links that point to missing notes", r.DanglingLinks))
	}
	if r.TotalDocuments == 0 {
		return recs
	}
	switch {
	case r.Connectivity < 0.3:
		recs = append(recs, "Improve note connectivity by adding more cross-references")
	case r.Connectivity > 0.8:
		recs = append(recs, "Connectivity is strong; consider organizing highly connected notes into maps of content")
	}
	return recs
}

func clamp01(v float64) float64 {
	switch {
	case v < 0 || math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	}
	return v
}
