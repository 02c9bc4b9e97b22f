package indexer

import (
	"context"
	"sync"
	"time"

	"vaultmind/internal/vault"
)

// Cache holds the most recently built index and rebuilds it, whole, when the
// document set or any modification timestamp has changed.
type Cache struct {
	mu      sync.Mutex
	current *CorpusIndex
	now     func() time.Time
}

// NewCache creates an empty index cache.
func NewCache() *Cache {
	return &Cache{now: func() time.Time { return time.Now().UTC() }}
}

// Current returns the last published index, or nil before the first build.
func (c *Cache) Current() *CorpusIndex {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Get returns an index consistent with docs, rebuilding when stale. The
// second return value reports whether a rebuild happened. A failed rebuild
// leaves the previously published index untouched.
func (c *Cache) Get(ctx context.Context, docs []vault.Document) (*CorpusIndex, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil && !Stale(c.current, docs) {
		return c.current, false, nil
	}

	idx, err := buildIndex(ctx, docs, c.now())
	if err != nil {
		return nil, false, err
	}
	c.current = idx
	return idx, true, nil
}

// Stale reports whether idx no longer reflects docs: a document was added or
// removed, a timestamp changed, or a timestamp is newer than the build.
func Stale(idx *CorpusIndex, docs []vault.Document) bool {
	if idx == nil {
		return true
	}
	seen := make(map[string]struct{}, len(docs))
	for _, d := range docs {
		seen[d.Path] = struct{}{}
		built, ok := idx.fingerprint[d.Path]
		if !ok || !built.Equal(d.ModifiedAt) || d.ModifiedAt.After(idx.BuiltAt) {
			return true
		}
	}
	return len(seen) != len(idx.fingerprint)
}
