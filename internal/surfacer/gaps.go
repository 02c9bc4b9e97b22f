package surfacer

import (
	"context"
	"fmt"
	"sort"
	"time"

	"vaultmind/internal/storage"
)

// Gap kinds.
const (
	GapShallowExploration    = "shallow_exploration"
	GapDisconnectedKnowledge = "disconnected_knowledge"
)

const (
	// DefaultShallowRecalls is how often a concept must have been recalled
	// before a thin record of it counts as a gap.
	DefaultShallowRecalls = 5
	// ShallowInsightLimit is the insight count below which a concept is thin.
	ShallowInsightLimit = 3
	// DefaultReviewImportance is the peak importance a concept must exceed to
	// be scheduled for review.
	DefaultReviewImportance = 0.5
)

// Gap is one hole in the knowledge base: a concept recalled often but barely
// written about, or a note nothing links to.
type Gap struct {
	Type       string `json:"type"`
	Concept    string `json:"concept,omitempty"`
	Path       string `json:"path,omitempty"`
	Title      string `json:"title,omitempty"`
	Insights   int    `json:"insights,omitempty"`
	Recalls    int    `json:"recalls,omitempty"`
	Priority   string `json:"priority"`
	Suggestion string `json:"suggestion"`
}

// ShallowConcepts flags concepts recalled at least minRecalls times that hold
// fewer than ShallowInsightLimit insights. Concepts recalled twice as often
// get high priority. Most recalled first, then by concept.
func ShallowConcepts(activity []storage.ConceptActivity, minRecalls int) []Gap {
	if minRecalls <= 0 {
		minRecalls = DefaultShallowRecalls
	}

	var hits []storage.ConceptActivity
	for _, a := range activity {
		if a.Recalls >= minRecalls && a.Insights < ShallowInsightLimit {
			hits = append(hits, a)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Recalls != hits[j].Recalls {
			return hits[i].Recalls > hits[j].Recalls
		}
		return hits[i].Concept < hits[j].Concept
	})

	gaps := make([]Gap, 0, len(hits))
	for _, a := range hits {
		priority := "medium"
		if a.Recalls >= 2*minRecalls {
			priority = "high"
		}
		gaps = append(gaps, Gap{
			Type:       GapShallowExploration,
			Concept:    a.Concept,
			Insights:   a.Insights,
			Recalls:    a.Recalls,
			Priority:   priority,
			Suggestion: fmt.Sprintf("%q is recalled often but has only %d insight(s); consider a deep-dive note", a.Concept, a.Insights),
		})
	}
	return gaps
}

// DisconnectedNote builds the gap entry for a note with no links in or out.
func DisconnectedNote(path, title string) Gap {
	if title == "" {
		title = path
	}
	return Gap{
		Type:       GapDisconnectedKnowledge,
		Path:       path,
		Title:      title,
		Priority:   "medium",
		Suggestion: fmt.Sprintf("Connect %q to related notes", title),
	}
}

// Review is a concept worth revisiting.
type Review struct {
	Concept       string    `json:"concept"`
	MaxImportance float64   `json:"max_importance"`
	Insights      int       `json:"insights"`
	Recalls       int       `json:"recalls"`
	LastSeen      time.Time `json:"last_seen"`
	IdleDays      float64   `json:"idle_days"`
	Priority      float64   `json:"priority"`
}

// ReviewSchedule ranks concepts whose peak importance exceeds minImportance
// by importance × decay(idle). Concepts seen within the cooldown are left
// out. Highest priority first, then by concept; limit 0 returns all.
func ReviewSchedule(activity []storage.ConceptActivity, now time.Time, cfg Config, minImportance float64, limit int) []Review {
	out := make([]Review, 0, len(activity))
	for _, a := range activity {
		if a.MaxImportance <= minImportance {
			continue
		}
		idle := now.Sub(a.LastSeen)
		if idle < cfg.Cooldown {
			continue
		}
		priority := a.MaxImportance * Decay(idle, cfg.HalfLife)
		if priority <= 0 {
			continue
		}
		out = append(out, Review{
			Concept:       a.Concept,
			MaxImportance: a.MaxImportance,
			Insights:      a.Insights,
			Recalls:       a.Recalls,
			LastSeen:      a.LastSeen,
			IdleDays:      idle.Hours() / 24,
			Priority:      priority,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].Concept < out[j].Concept
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// KnowledgeGaps reports the shallow concepts in the store.
func (s *Surfacer) KnowledgeGaps(ctx context.Context, minRecalls int) ([]Gap, error) {
	activity, err := s.source.ConceptActivity(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read concept activity: %w", err)
	}
	return ShallowConcepts(activity, minRecalls), nil
}

// ReviewSchedule ranks the stored concepts for review at now. It has no side
// effects.
func (s *Surfacer) ReviewSchedule(ctx context.Context, now time.Time, minImportance float64, limit int) ([]Review, error) {
	activity, err := s.source.ConceptActivity(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read concept activity: %w", err)
	}
	return ReviewSchedule(activity, now, s.cfg, minImportance, limit), nil
}
