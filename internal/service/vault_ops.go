package service

import (
	"context"

	"vaultmind/internal/contextutil"
	"vaultmind/internal/detect"
	"vaultmind/internal/health"
	"vaultmind/internal/indexer"
	"vaultmind/internal/similarity"
)

func (e *engine) FindSimilarNotes(ctx context.Context, req SimilarRequest) (*SimilarResponse, error) {
	return call(ctx, e, "find_similar_notes", func(ctx context.Context) (*SimilarResponse, error) {
		if err := e.requireVault(); err != nil {
			return nil, err
		}
		if err := e.validateRequest(req); err != nil {
			return nil, err
		}
		path, err := cleanPath("path", req.Path)
		if err != nil {
			return nil, err
		}
		threshold := e.similarityThreshold
		if req.Threshold != nil {
			threshold = *req.Threshold
		}
		limit := e.opts.SimilarLimit
		if req.Limit > 0 {
			limit = req.Limit
		}

		snap, err := e.snapshot(ctx)
		if err != nil {
			return nil, err
		}
		if _, err := targetDocument(snap, path); err != nil {
			return nil, err
		}

		matches := similarity.TopKSimilar(path, snap.Index, limit, threshold)
		resp := &SimilarResponse{
			Path:      path,
			Threshold: threshold,
			Matches:   make([]SimilarNote, 0, len(matches)),
		}
		for _, m := range matches {
			note := SimilarNote{Path: m.Path, Score: m.Score}
			if doc, ok := snap.Document(m.Path); ok {
				note.Title = doc.Title
			}
			resp.Matches = append(resp.Matches, note)
		}

		contextutil.LoggerFromContext(ctx).InfoContext(ctx, "similar notes found",
			"path", path,
			"threshold", threshold,
			"matches", len(resp.Matches),
		)
		return resp, nil
	})
}

func (e *engine) DetectDuplicateContent(ctx context.Context, req DuplicatesRequest) (*detect.Report, error) {
	return call(ctx, e, "detect_duplicate_content", func(ctx context.Context) (*detect.Report, error) {
		if err := e.requireVault(); err != nil {
			return nil, err
		}
		if err := e.validateRequest(req); err != nil {
			return nil, err
		}
		threshold := e.opts.DuplicateThreshold
		if req.Threshold != nil {
			threshold = *req.Threshold
		}

		snap, err := e.snapshot(ctx)
		if err != nil {
			return nil, err
		}
		report, err := detect.FindDuplicateClusters(ctx, snap.Index, threshold)
		if err != nil {
			return nil, err
		}

		contextutil.LoggerFromContext(ctx).InfoContext(ctx, "duplicate scan completed",
			"threshold", threshold,
			"clusters", len(report.Clusters),
			"pairs", len(report.Pairs),
		)
		return &report, nil
	})
}

func (e *engine) SuggestMissingBacklinks(ctx context.Context, req BacklinksRequest) (*BacklinksResponse, error) {
	return call(ctx, e, "suggest_missing_backlinks", func(ctx context.Context) (*BacklinksResponse, error) {
		if err := e.requireVault(); err != nil {
			return nil, err
		}
		if err := e.validateRequest(req); err != nil {
			return nil, err
		}
		path, err := cleanPath("path", req.Path)
		if err != nil {
			return nil, err
		}
		threshold := e.suggestThreshold
		if req.Threshold != nil {
			threshold = *req.Threshold
		}
		limit := e.opts.SuggestLimit
		if req.Limit > 0 {
			limit = req.Limit
		}

		snap, err := e.snapshot(ctx)
		if err != nil {
			return nil, err
		}
		target, err := targetDocument(snap, path)
		if err != nil {
			return nil, err
		}
		graph := e.graphFor(snap)

		suggestions := detect.SuggestMissingLinks(path, snap.Index, graph, threshold, limit)
		detect.Annotate(target, suggestions, snap.Document)

		mentions, err := detect.FindUnlinkedMentions(target, snap.Docs, graph)
		if err != nil {
			return nil, err
		}

		contextutil.LoggerFromContext(ctx).InfoContext(ctx, "backlink suggestions computed",
			"path", path,
			"suggestions", len(suggestions),
			"mentions", len(mentions),
		)
		return &BacklinksResponse{Path: path, Suggestions: suggestions, Mentions: mentions}, nil
	})
}

func (e *engine) AnalyzeVaultHealth(ctx context.Context) (*health.Report, error) {
	return call(ctx, e, "analyze_vault_health", func(ctx context.Context) (*health.Report, error) {
		if err := e.requireVault(); err != nil {
			return nil, err
		}

		snap, err := e.snapshot(ctx)
		if err != nil {
			return nil, err
		}
		dupes, err := detect.FindDuplicateClusters(ctx, snap.Index, e.opts.DuplicateThreshold)
		if err != nil {
			return nil, err
		}

		report := health.ScoreHealth(snap.Docs, e.graphFor(snap), dupes, e.now(), e.opts.Health)
		stats := indexer.Stats(snap.Index)
		report.Index = &stats

		contextutil.LoggerFromContext(ctx).InfoContext(ctx, "vault health analyzed",
			"documents", report.TotalDocuments,
			"score", report.Score,
			"orphans", report.OrphanCount,
			"stale", report.StaleCount,
		)
		return &report, nil
	})
}
