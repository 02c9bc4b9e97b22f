package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_engine.go -package=mocks -mock_names=Engine=MockEngine vaultmind/internal/service Engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sony/gobreaker"

	"vaultmind/internal/contextutil"
	"vaultmind/internal/detect"
	"vaultmind/internal/health"
	"vaultmind/internal/indexer"
	"vaultmind/internal/linkgraph"
	"vaultmind/internal/memory"
	"vaultmind/internal/metrics"
	"vaultmind/internal/storage"
	"vaultmind/internal/surfacer"
	"vaultmind/internal/vault"
)

// Engine exposes the vault intelligence and memory operations.
type Engine interface {
	RememberInsight(ctx context.Context, req RememberRequest) (*RememberResponse, error)
	RecallConceptMemory(ctx context.Context, req RecallRequest) (*memory.RecallResult, error)
	FindSimilarNotes(ctx context.Context, req SimilarRequest) (*SimilarResponse, error)
	DetectDuplicateContent(ctx context.Context, req DuplicatesRequest) (*detect.Report, error)
	SuggestMissingBacklinks(ctx context.Context, req BacklinksRequest) (*BacklinksResponse, error)
	AnalyzeVaultHealth(ctx context.Context) (*health.Report, error)
	SurfaceForgottenInsights(ctx context.Context, req SurfaceRequest) (*SurfaceResponse, error)
	GetKnowledgeSummary(ctx context.Context) (*storage.InsightStats, error)
	SearchInsights(ctx context.Context, filter memory.Filter) (*SearchResponse, error)
	ForgetInsight(ctx context.Context, id int64) error
	IdentifyKnowledgeGaps(ctx context.Context, req GapsRequest) (*GapsResponse, error)
	SuggestReviewSchedule(ctx context.Context, req ReviewRequest) (*ReviewResponse, error)

	// Capabilities reports which feature groups are enabled.
	Capabilities() Capabilities
	// Status checks the collaborators without failing.
	Status(ctx context.Context) StatusReport
}

// Capabilities are resolved once at construction.
type Capabilities struct {
	Vault  bool `json:"vault"`
	Memory bool `json:"memory"`
}

// StatusReport describes collaborator liveness.
type StatusReport struct {
	Capabilities Capabilities      `json:"capabilities"`
	Components   map[string]string `json:"components"`
	Healthy      bool              `json:"healthy"`
}

// Options tunes the engine. Zero values fall back to the defaults below,
// except the similarity and suggestion thresholds: nil selects the default
// and an explicit 0 is kept.
type Options struct {
	OperationTimeout    time.Duration
	SimilarityThreshold *float64
	SimilarLimit        int
	DuplicateThreshold  float64
	SuggestThreshold    *float64
	SuggestLimit        int
	SurfaceMaxResults   int
	Health              health.Options
}

// Deps are the collaborators. A nil Notes disables vault operations; a nil
// Memory or Surfacer disables memory operations.
type Deps struct {
	Notes    *indexer.Pipeline
	Memory   *memory.Service
	Surfacer *surfacer.Surfacer
	Metrics  *metrics.Collector
	Now      func() time.Time
}

// Defaults used when Options leaves a field at zero.
const (
	DefaultSimilarityThreshold = 0.3
	DefaultSimilarLimit        = 10
	DefaultDuplicateThreshold  = 0.8
	DefaultSuggestThreshold    = 0.2
	DefaultSuggestLimit        = 10
	DefaultSurfaceMaxResults   = 50
	DefaultImportance          = 0.5
	DefaultGapLimit            = 10
	DefaultReviewLimit         = 8
	// MaxDisconnectedGaps caps the orphan notes listed among knowledge gaps.
	MaxDisconnectedGaps = 5
)

type engine struct {
	opts Options
	caps Capabilities

	similarityThreshold float64
	suggestThreshold    float64

	notes    *indexer.Pipeline
	memory   *memory.Service
	surfacer *surfacer.Surfacer
	metrics  *metrics.Collector
	now      func() time.Time
	validate *validator.Validate
	logger   *slog.Logger

	vaultBreaker  *gobreaker.CircuitBreaker
	memoryBreaker *gobreaker.CircuitBreaker

	graphMu      sync.Mutex
	graphBuildID string
	graph        *linkgraph.Graph
}

func thresholdOption(field string, v *float64, def float64) (float64, error) {
	if v == nil {
		return def, nil
	}
	if *v < 0 || *v > 1 {
		return 0, &ValidationError{Field: field, Message: "must be between 0 and 1"}
	}
	return *v, nil
}

// New creates an Engine. Health weights are validated here so a bad
// configuration fails at startup rather than on the first analysis.
func New(opts Options, deps Deps) (Engine, error) {
	similarityThreshold, err := thresholdOption("similarity_threshold", opts.SimilarityThreshold, DefaultSimilarityThreshold)
	if err != nil {
		return nil, err
	}
	suggestThreshold, err := thresholdOption("suggest_threshold", opts.SuggestThreshold, DefaultSuggestThreshold)
	if err != nil {
		return nil, err
	}
	if opts.SimilarLimit == 0 {
		opts.SimilarLimit = DefaultSimilarLimit
	}
	if opts.DuplicateThreshold == 0 {
		opts.DuplicateThreshold = DefaultDuplicateThreshold
	}
	if opts.SuggestLimit == 0 {
		opts.SuggestLimit = DefaultSuggestLimit
	}
	if opts.SurfaceMaxResults == 0 {
		opts.SurfaceMaxResults = DefaultSurfaceMaxResults
	}
	if opts.Health.Weights == (health.Weights{}) {
		opts.Health.Weights = health.DefaultWeights()
	}
	if err := opts.Health.Weights.Validate(); err != nil {
		return nil, mapError(err)
	}

	now := deps.Now
	if now == nil {
		now = time.Now
	}

	e := &engine{
		opts: opts,
		caps: Capabilities{
			Vault:  deps.Notes != nil,
			Memory: deps.Memory != nil && deps.Surfacer != nil,
		},
		similarityThreshold: similarityThreshold,
		suggestThreshold:    suggestThreshold,
		notes:               deps.Notes,
		memory:              deps.Memory,
		surfacer:            deps.Surfacer,
		metrics:             deps.Metrics,
		now:                 now,
		validate:            newValidator(),
		logger:              slog.Default(),
	}
	e.vaultBreaker = e.newBreaker("vault")
	e.memoryBreaker = e.newBreaker("memory")

	e.logger.Info("engine initialized",
		"vault_enabled", e.caps.Vault,
		"memory_enabled", e.caps.Memory,
		"operation_timeout", opts.OperationTimeout.String(),
	)
	return e, nil
}

func (e *engine) newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return !isCollaboratorFailure(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			e.logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
}

// guarded runs fn through the breaker. Failures the breaker counts are
// reported as an unavailable store.
func guarded[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	var zero T
	res, err := cb.Execute(func() (any, error) {
		v, err := fn()
		return v, err
	})
	if err != nil {
		if isCollaboratorFailure(err) &&
			!errors.Is(err, context.DeadlineExceeded) &&
			!errors.Is(err, gobreaker.ErrOpenState) &&
			!errors.Is(err, gobreaker.ErrTooManyRequests) &&
			!errors.Is(err, storage.ErrUnavailable) {
			err = fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, cb.Name(), err)
		}
		return zero, err
	}
	return res.(T), nil
}

// call runs one operation under the operation timeout, then logs and records it.
func call[T any](ctx context.Context, e *engine, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	if e.opts.OperationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.OperationTimeout)
		defer cancel()
	}
	logger := contextutil.LoggerFromContext(ctx).With("operation", op)
	ctx = contextutil.WithLogger(ctx, logger)

	start := time.Now()
	res, err := fn(ctx)
	err = mapError(err)
	elapsed := time.Since(start)

	if e.metrics != nil {
		e.metrics.ObserveOperation(op, outcome(err), elapsed)
	}
	switch {
	case err == nil:
		logger.DebugContext(ctx, "operation completed", "duration_ms", elapsed.Milliseconds())
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrNotFound), errors.Is(err, ErrFeatureDisabled):
		logger.InfoContext(ctx, "operation rejected", "error", err)
	default:
		logger.ErrorContext(ctx, "operation failed", "error", err, "duration_ms", elapsed.Milliseconds())
	}
	return res, err
}

func (e *engine) Capabilities() Capabilities {
	return e.caps
}

func (e *engine) requireVault() error {
	if !e.caps.Vault {
		return fmt.Errorf("%w: vault features are disabled (no vault configured)", ErrFeatureDisabled)
	}
	return nil
}

func (e *engine) requireMemory() error {
	if !e.caps.Memory {
		return fmt.Errorf("%w: memory features are disabled", ErrFeatureDisabled)
	}
	return nil
}

// snapshot loads the vault through the breaker and updates index metrics.
func (e *engine) snapshot(ctx context.Context) (*indexer.Snapshot, error) {
	snap, err := guarded(e.vaultBreaker, func() (*indexer.Snapshot, error) {
		return e.notes.Snapshot(ctx)
	})
	if err != nil {
		return nil, err
	}
	if e.metrics != nil {
		if snap.Rebuilt {
			e.metrics.IndexRebuilds.Inc()
		}
		e.metrics.IndexedDocuments.Set(float64(snap.Index.N))
	}
	return snap, nil
}

// graphFor returns the link graph for a snapshot, reusing the last one while
// the index build is unchanged.
func (e *engine) graphFor(snap *indexer.Snapshot) *linkgraph.Graph {
	e.graphMu.Lock()
	defer e.graphMu.Unlock()
	if e.graph == nil || e.graphBuildID != snap.Index.BuildID {
		e.graph = linkgraph.Build(snap.Docs)
		e.graphBuildID = snap.Index.BuildID
	}
	return e.graph
}

// targetDocument resolves a vault-relative path inside a snapshot.
func targetDocument(snap *indexer.Snapshot, path string) (vault.Document, error) {
	doc, ok := snap.Document(path)
	if !ok {
		return vault.Document{}, fmt.Errorf("%w: %s", vault.ErrNotFound, path)
	}
	return doc, nil
}

func cleanPath(field, raw string) (string, error) {
	p, err := vault.CleanRelPath(strings.TrimSpace(raw))
	if err != nil {
		return "", &ValidationError{Field: field, Message: err.Error(), Err: err}
	}
	return p, nil
}

func (e *engine) Status(ctx context.Context) StatusReport {
	report := StatusReport{
		Capabilities: e.caps,
		Components:   make(map[string]string, 2),
		Healthy:      true,
	}

	switch {
	case !e.caps.Vault:
		report.Components["vault"] = "disabled"
	case e.vaultBreaker.State() == gobreaker.StateOpen:
		report.Components["vault"] = "unavailable: circuit open"
		report.Healthy = false
	default:
		report.Components["vault"] = "ok"
	}

	switch {
	case !e.caps.Memory:
		report.Components["memory"] = "disabled"
	default:
		if err := e.memory.Ping(ctx); err != nil {
			report.Components["memory"] = "unavailable: " + err.Error()
			report.Healthy = false
		} else {
			report.Components["memory"] = "ok"
		}
	}
	return report
}
