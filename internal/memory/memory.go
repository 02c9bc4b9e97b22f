// Package memory is the concept memory service: it validates, stores,
// recalls and summarizes insights tied to named concepts.
package memory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"vaultmind/internal/contextutil"
	"vaultmind/internal/storage"
)

const (
	// DefaultCategory is used when an insight is stored without one.
	DefaultCategory = "general"
	day             = 24 * time.Hour
	topConcepts     = 10
)

var (
	// ErrInvalidRecord is returned when an insight fails validation.
	ErrInvalidRecord = errors.New("invalid insight")
	// ErrInvalidQuery is returned when a recall or search request is malformed.
	ErrInvalidQuery = errors.New("invalid insight query")
)

// Service implements concept memory on top of an InsightStore.
type Service struct {
	store          storage.InsightStore
	now            func() time.Time
	relationWindow time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRelationWindow sets how close in time two records must be created to
// relate their concepts.
func WithRelationWindow(d time.Duration) Option {
	return func(s *Service) { s.relationWindow = d }
}

// NewService creates a new Service.
func NewService(store storage.InsightStore, opts ...Option) *Service {
	s := &Service{
		store:          store,
		now:            time.Now,
		relationWindow: time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecallResult is the outcome of a concept recall.
type RecallResult struct {
	Query         string                  `json:"query"`
	DaysBack      int                     `json:"days_back"`
	Insights      []storage.InsightRecord `json:"insights"`
	Relationships []Relationship          `json:"relationships"`
}

// Remember validates and stores one insight. A blank concept is derived from
// the content; a blank category becomes DefaultCategory.
func (s *Service) Remember(ctx context.Context, concept, content, category string, importance float64) (int64, error) {
	logger := contextutil.LoggerFromContext(ctx)

	content = strings.TrimSpace(content)
	if content == "" {
		return 0, fmt.Errorf("%w: content must not be empty", ErrInvalidRecord)
	}
	if math.IsNaN(importance) || importance < 0 || importance > 1 {
		return 0, fmt.Errorf("%w: importance must be within [0, 1], got %v", ErrInvalidRecord, importance)
	}

	concept = strings.TrimSpace(concept)
	if concept == "" {
		concept = DeriveConcept(content)
		logger.DebugContext(ctx, "derived concept from content", "concept", concept)
	}
	category = strings.TrimSpace(category)
	if category == "" {
		category = DefaultCategory
	}

	rec := &storage.InsightRecord{
		Concept:     concept,
		ConceptNorm: NormalizeConcept(concept),
		Content:     content,
		Category:    category,
		Importance:  importance,
		CreatedAt:   s.now().UTC(),
	}
	id, err := s.store.Insert(ctx, rec)
	if err != nil {
		return 0, fmt.Errorf("failed to store insight: %w", err)
	}

	logger.InfoContext(ctx, "insight remembered",
		"insight_id", id,
		"concept", rec.ConceptNorm,
		"category", category,
		"importance", importance,
	)
	return id, nil
}

// Recall returns records whose normalized concept contains the normalized
// query, created within daysBack days (0 means no limit), newest first. Every
// returned record is stamped as recalled. A query that matches no record at
// any time returns storage.ErrNotFound; a known concept with nothing inside
// the window returns an empty result.
func (s *Service) Recall(ctx context.Context, query string, daysBack int) (*RecallResult, error) {
	norm := NormalizeConcept(query)
	if norm == "" {
		return nil, fmt.Errorf("%w: concept must not be empty", ErrInvalidQuery)
	}
	if daysBack < 0 {
		return nil, fmt.Errorf("%w: days_back must not be negative, got %d", ErrInvalidQuery, daysBack)
	}

	now := s.now().UTC()
	q := storage.InsightQuery{ConceptContains: norm}
	if daysBack > 0 {
		q.Since = now.Add(-time.Duration(daysBack) * day)
	}

	records, err := s.store.Recall(ctx, q, now)
	if err != nil {
		return nil, fmt.Errorf("failed to recall insights: %w", err)
	}

	if len(records) == 0 {
		n, err := s.store.CountMatching(ctx, norm)
		if err != nil {
			return nil, fmt.Errorf("failed to count insights: %w", err)
		}
		if n == 0 {
			return nil, fmt.Errorf("no insights for concept %q: %w", query, storage.ErrNotFound)
		}
	}

	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "concept recalled",
		"concept", norm,
		"days_back", daysBack,
		"results", len(records),
	)

	return &RecallResult{
		Query:         norm,
		DaysBack:      daysBack,
		Insights:      records,
		Relationships: Relationships(records, s.relationWindow),
	}, nil
}

// Search returns records matching f without recall bookkeeping.
func (s *Service) Search(ctx context.Context, f Filter) ([]storage.InsightRecord, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	records, err := s.store.Query(ctx, f.query())
	if err != nil {
		return nil, fmt.Errorf("failed to search insights: %w", err)
	}
	return records, nil
}

// Summary aggregates the whole store.
func (s *Service) Summary(ctx context.Context) (*storage.InsightStats, error) {
	stats, err := s.store.Stats(ctx, topConcepts)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize insights: %w", err)
	}
	return stats, nil
}

// Forget deletes one record. Unknown ids return storage.ErrNotFound.
func (s *Service) Forget(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: id must be positive, got %d", ErrInvalidQuery, id)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to forget insight %d: %w", id, err)
	}
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "insight forgotten", "insight_id", id)
	return nil
}

// RelationWindow returns the configured relation window.
func (s *Service) RelationWindow() time.Duration {
	return s.relationWindow
}

// Ping checks that the underlying store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// NormalizeConcept lowercases c, trims it and collapses inner whitespace.
func NormalizeConcept(c string) string {
	return strings.Join(strings.Fields(strings.ToLower(c)), " ")
}
