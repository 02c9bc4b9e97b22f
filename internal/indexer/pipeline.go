package indexer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vaultmind/internal/contextutil"
	"vaultmind/internal/vault"
)

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_source.go -package=mocks vaultmind/internal/indexer DocumentSource

// ErrCorpusTooLarge is returned when the vault exceeds the configured document ceiling.
var ErrCorpusTooLarge = errors.New("corpus too large")

// DocumentSource supplies the documents of a vault.
type DocumentSource interface {
	// ListDocuments returns every document currently in the vault.
	ListDocuments(ctx context.Context) ([]vault.Document, error)
	// GetDocument returns one document by vault-relative path or vault.ErrNotFound.
	GetDocument(ctx context.Context, path string) (vault.Document, error)
}

// Snapshot is a consistent view of the vault and its index for one operation.
type Snapshot struct {
	Docs    []vault.Document
	Index   *CorpusIndex
	Rebuilt bool

	byPath map[string]int
}

// Document returns the document at path within the snapshot.
func (s *Snapshot) Document(path string) (vault.Document, bool) {
	i, ok := s.byPath[path]
	if !ok {
		return vault.Document{}, false
	}
	return s.Docs[i], true
}

// Pipeline loads documents from a source and keeps the index current.
type Pipeline struct {
	source       DocumentSource
	cache        *Cache
	maxDocuments int
}

// NewPipeline creates an indexing pipeline. maxDocuments of 0 disables the ceiling.
func NewPipeline(source DocumentSource, cache *Cache, maxDocuments int) *Pipeline {
	if cache == nil {
		cache = NewCache()
	}
	return &Pipeline{
		source:       source,
		cache:        cache,
		maxDocuments: maxDocuments,
	}
}

// Snapshot lists the vault, enforces the document ceiling, and returns the
// documents together with an up-to-date index.
func (p *Pipeline) Snapshot(ctx context.Context) (*Snapshot, error) {
	logger := contextutil.LoggerFromContext(ctx)

	docs, err := p.source.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	if err := p.CheckSize(len(docs)); err != nil {
		return nil, err
	}

	start := time.Now()
	idx, rebuilt, err := p.cache.Get(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("failed to build index: %w", err)
	}
	if rebuilt {
		logger.InfoContext(ctx, "rebuilt corpus index",
			"documents", idx.N,
			"vocabulary", len(idx.DocFreq),
			"build_id", idx.BuildID,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}

	byPath := make(map[string]int, len(docs))
	for i, d := range docs {
		byPath[d.Path] = i
	}
	return &Snapshot{Docs: docs, Index: idx, Rebuilt: rebuilt, byPath: byPath}, nil
}

// CheckSize returns ErrCorpusTooLarge when n exceeds the configured ceiling.
func (p *Pipeline) CheckSize(n int) error {
	if p.maxDocuments > 0 && n > p.maxDocuments {
		return fmt.Errorf("%w: %d documents exceeds limit of %d", ErrCorpusTooLarge, n, p.maxDocuments)
	}
	return nil
}
