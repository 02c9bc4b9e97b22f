// Package surfacer picks stored insights that are worth showing again.
//
// A record's resurfacing score is importance × decay(now − lastSeen), where
// lastSeen is the last recall time or, for records never recalled, the
// creation time. decay(Δ) = 1 − 2^(−Δ/halfLife) grows from 0 towards 1, so
// old, unvisited, important insights rank first. Records recalled within the
// cooldown are skipped, and so are records with a zero score: an insight seen
// just now has not been forgotten.
//
// The same decay drives the review schedule, and the recall counters kept by
// the store drive the knowledge gap report.
package surfacer

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"vaultmind/internal/contextutil"
	"vaultmind/internal/memory"
	"vaultmind/internal/storage"
)

// RecordSource is the part of the insight store the surfacer needs.
type RecordSource interface {
	ListAll(ctx context.Context) ([]storage.InsightRecord, error)
	MarkRecalled(ctx context.Context, ids []int64, at time.Time) error
	ConceptActivity(ctx context.Context) ([]storage.ConceptActivity, error)
}

// Config tunes the decay curve and cooldown. RelationWindow is how close in
// time two insights must be created for their concepts to count as related
// when surfacing around current concepts; 0 keeps only direct matches.
type Config struct {
	HalfLife       time.Duration
	Cooldown       time.Duration
	RelationWindow time.Duration
}

// Query selects what to surface. Concepts, when set, restricts the result to
// insights whose concept contains one of them or is related to one that does.
type Query struct {
	MaxResults int
	Concepts   []string
}

// Scored is a record with its resurfacing score.
type Scored struct {
	storage.InsightRecord
	Score float64 `json:"score"`
	// IdleDays is the time since the record was last seen.
	IdleDays float64 `json:"idle_days"`
	// RelatedTo names the matching concept this insight was reached through
	// when it was surfaced by relationship rather than by direct match.
	RelatedTo string `json:"related_to,omitempty"`
}

// Surfacer selects forgotten insights.
type Surfacer struct {
	source RecordSource
	cfg    Config
}

// New creates a Surfacer. HalfLife must be positive; Cooldown may be zero.
func New(source RecordSource, cfg Config) (*Surfacer, error) {
	if cfg.HalfLife <= 0 {
		return nil, fmt.Errorf("half-life must be positive, got %s", cfg.HalfLife)
	}
	if cfg.Cooldown < 0 {
		return nil, fmt.Errorf("cooldown must not be negative, got %s", cfg.Cooldown)
	}
	if cfg.RelationWindow < 0 {
		return nil, fmt.Errorf("relation window must not be negative, got %s", cfg.RelationWindow)
	}
	return &Surfacer{source: source, cfg: cfg}, nil
}

// Decay returns 1 − 2^(−elapsed/halfLife). Negative elapsed counts as zero.
func Decay(elapsed, halfLife time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return 1 - math.Exp2(-float64(elapsed)/float64(halfLife))
}

// Rank scores records at now and returns up to maxResults of them (0 for
// all), highest score first. Ties go to the earlier creation time, then the
// lower id. Records recalled within the cooldown and records scoring zero
// are excluded.
func Rank(records []storage.InsightRecord, now time.Time, cfg Config, maxResults int) []Scored {
	out := make([]Scored, 0, len(records))
	for _, r := range records {
		if r.LastRecalledAt != nil && now.Sub(*r.LastRecalledAt) < cfg.Cooldown {
			continue
		}
		idle := now.Sub(r.LastSeen())
		if idle < 0 {
			idle = 0
		}
		score := r.Importance * Decay(idle, cfg.HalfLife)
		if score <= 0 {
			continue
		}
		out = append(out, Scored{
			InsightRecord: r,
			Score:         score,
			IdleDays:      idle.Hours() / 24,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})

	if maxResults > 0 && len(out) > maxResults {
		out = out[:maxResults]
	}
	return out
}

// SurfaceForgotten ranks the stored records selected by q and marks the
// returned ones as recalled at now, so the cooldown keeps them from
// resurfacing immediately. The returned records carry the new recall stamp.
func (s *Surfacer) SurfaceForgotten(ctx context.Context, now time.Time, q Query) ([]Scored, error) {
	if q.MaxResults < 0 {
		return nil, fmt.Errorf("max results must not be negative, got %d", q.MaxResults)
	}

	records, err := s.source.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list insights: %w", err)
	}

	candidates := records
	var via map[string]string
	if len(q.Concepts) > 0 {
		via = RelatedConcepts(records, q.Concepts, s.cfg.RelationWindow)
		candidates = make([]storage.InsightRecord, 0, len(records))
		for _, r := range records {
			if _, ok := via[r.ConceptNorm]; ok {
				candidates = append(candidates, r)
			}
		}
	}

	ranked := Rank(candidates, now, s.cfg, q.MaxResults)
	if len(ranked) == 0 {
		return ranked, nil
	}

	ids := make([]int64, len(ranked))
	for i := range ranked {
		ids[i] = ranked[i].ID
	}
	if err := s.source.MarkRecalled(ctx, ids, now); err != nil {
		return nil, fmt.Errorf("failed to mark surfaced insights: %w", err)
	}

	stamp := now.UTC()
	for i := range ranked {
		t := stamp
		ranked[i].LastRecalledAt = &t
		ranked[i].RecallCount++
		ranked[i].RelatedTo = via[ranked[i].ConceptNorm]
	}

	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "insights surfaced",
		"candidates", len(candidates),
		"surfaced", len(ranked),
		"top_score", ranked[0].Score,
	)
	return ranked, nil
}

// RelatedConcepts returns the normalized concepts reachable from current:
// every stored concept containing one of them maps to "", and every concept
// related to such a match within window maps to the strongest match it is
// related to.
func RelatedConcepts(records []storage.InsightRecord, current []string, window time.Duration) map[string]string {
	var fragments []string
	for _, c := range current {
		if n := memory.NormalizeConcept(c); n != "" {
			fragments = append(fragments, n)
		}
	}

	direct := make(map[string]bool)
	for _, r := range records {
		for _, f := range fragments {
			if strings.Contains(r.ConceptNorm, f) {
				direct[r.ConceptNorm] = true
				break
			}
		}
	}

	out := make(map[string]string, len(direct))
	for c := range direct {
		out[c] = ""
	}
	if len(direct) == 0 {
		return out
	}

	// Relationships come strongest first, so the first match wins.
	for _, rel := range memory.Relationships(records, window) {
		a, b := rel.Concepts[0], rel.Concepts[1]
		if direct[a] == direct[b] {
			continue
		}
		if direct[b] {
			a, b = b, a
		}
		if _, seen := out[b]; !seen {
			out[b] = a
		}
	}
	return out
}
