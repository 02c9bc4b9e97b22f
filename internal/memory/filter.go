package memory

import (
	"fmt"
	"math"
	"strings"
	"time"

	"vaultmind/internal/storage"
)

// MaxSearchLimit caps the number of records one search returns.
const MaxSearchLimit = 500

// Filter is a structured insight search. Zero fields do not filter.
type Filter struct {
	Concept       string     `json:"concept,omitempty"`
	Category      string     `json:"category,omitempty"`
	Since         *time.Time `json:"since,omitempty"`
	Until         *time.Time `json:"until,omitempty"`
	MinImportance *float64   `json:"min_importance,omitempty"`
	MaxImportance *float64   `json:"max_importance,omitempty"`
	Limit         int        `json:"limit,omitempty"`
}

// Validate checks ranges and ordering of the filter fields.
func (f Filter) Validate() error {
	for name, v := range map[string]*float64{"min_importance": f.MinImportance, "max_importance": f.MaxImportance} {
		if v != nil && (math.IsNaN(*v) || *v < 0 || *v > 1) {
			return fmt.Errorf("%w: %s must be within [0, 1]", ErrInvalidQuery, name)
		}
	}
	if f.MinImportance != nil && f.MaxImportance != nil && *f.MinImportance > *f.MaxImportance {
		return fmt.Errorf("%w: min_importance exceeds max_importance", ErrInvalidQuery)
	}
	if f.Since != nil && f.Until != nil && f.Since.After(*f.Until) {
		return fmt.Errorf("%w: since is after until", ErrInvalidQuery)
	}
	if f.Limit < 0 || f.Limit > MaxSearchLimit {
		return fmt.Errorf("%w: limit must be within [0, %d]", ErrInvalidQuery, MaxSearchLimit)
	}
	return nil
}

func (f Filter) query() storage.InsightQuery {
	q := storage.InsightQuery{
		ConceptContains: NormalizeConcept(f.Concept),
		Category:        strings.TrimSpace(f.Category),
		MinImportance:   f.MinImportance,
		MaxImportance:   f.MaxImportance,
		Limit:           f.Limit,
	}
	if f.Since != nil {
		q.Since = *f.Since
	}
	if f.Until != nil {
		q.Until = *f.Until
	}
	if q.Limit == 0 {
		q.Limit = MaxSearchLimit
	}
	return q
}
