package storage

import "time"

// InsightRecord is one stored insight tied to a concept.
type InsightRecord struct {
	ID             int64      `json:"id"`
	Concept        string     `json:"concept"`      // As given by the caller
	ConceptNorm    string     `json:"concept_norm"` // Lowercase, trimmed, single-spaced
	Content        string     `json:"content"`
	Category       string     `json:"category"`
	Importance     float64    `json:"importance"` // In [0, 1]
	CreatedAt      time.Time  `json:"created_at"`
	LastRecalledAt *time.Time `json:"last_recalled_at,omitempty"`
	RecallCount    int        `json:"recall_count"`
}

// LastSeen returns the last recall time, or the creation time if the record
// was never recalled.
func (r InsightRecord) LastSeen() time.Time {
	if r.LastRecalledAt != nil {
		return *r.LastRecalledAt
	}
	return r.CreatedAt
}

// InsightQuery selects records. Zero fields do not filter.
type InsightQuery struct {
	ConceptContains string // Matched against the normalized concept
	Category        string
	Since           time.Time
	Until           time.Time
	MinImportance   *float64
	MaxImportance   *float64
	Limit           int
}

// ConceptCount is the number of insights stored under one concept.
type ConceptCount struct {
	Concept  string `json:"concept"`
	Insights int    `json:"insights"`
	Recalls  int    `json:"recalls"`
}

// ConceptActivity summarizes how one normalized concept has been used.
type ConceptActivity struct {
	Concept  string `json:"concept"`
	Insights int    `json:"insights"`
	// Recalls is the recall count of the concept's most recalled insight.
	Recalls       int       `json:"recalls"`
	MaxImportance float64   `json:"max_importance"`
	LastSeen      time.Time `json:"last_seen"`
}

// InsightStats aggregates the whole store.
type InsightStats struct {
	TotalInsights    int            `json:"total_insights"`
	DistinctConcepts int            `json:"distinct_concepts"`
	RecalledInsights int            `json:"recalled_insights"`
	TotalRecalls     int            `json:"total_recalls"`
	ByCategory       map[string]int `json:"by_category"`
	TopConcepts      []ConceptCount `json:"top_concepts"`
	Oldest           *time.Time     `json:"oldest,omitempty"`
	Newest           *time.Time     `json:"newest,omitempty"`
}
