package service

import (
	"context"
	"fmt"

	"vaultmind/internal/contextutil"
	"vaultmind/internal/memory"
	"vaultmind/internal/storage"
	"vaultmind/internal/surfacer"
)

func (e *engine) RememberInsight(ctx context.Context, req RememberRequest) (*RememberResponse, error) {
	return call(ctx, e, "remember_insight", func(ctx context.Context) (*RememberResponse, error) {
		if err := e.requireMemory(); err != nil {
			return nil, err
		}
		if err := e.validateRequest(req); err != nil {
			return nil, err
		}
		importance := DefaultImportance
		if req.Importance != nil {
			importance = *req.Importance
		}

		id, err := guarded(e.memoryBreaker, func() (int64, error) {
			return e.memory.Remember(ctx, req.Concept, req.Content, req.Category, importance)
		})
		if err != nil {
			return nil, err
		}
		if e.metrics != nil {
			e.metrics.InsightsRemembered.Inc()
		}
		return &RememberResponse{ID: id}, nil
	})
}

func (e *engine) RecallConceptMemory(ctx context.Context, req RecallRequest) (*memory.RecallResult, error) {
	return call(ctx, e, "recall_concept_memory", func(ctx context.Context) (*memory.RecallResult, error) {
		if err := e.requireMemory(); err != nil {
			return nil, err
		}
		if err := e.validateRequest(req); err != nil {
			return nil, err
		}
		return guarded(e.memoryBreaker, func() (*memory.RecallResult, error) {
			return e.memory.Recall(ctx, req.Concept, req.DaysBack)
		})
	})
}

func (e *engine) SurfaceForgottenInsights(ctx context.Context, req SurfaceRequest) (*SurfaceResponse, error) {
	return call(ctx, e, "surface_forgotten_insights", func(ctx context.Context) (*SurfaceResponse, error) {
		if err := e.requireMemory(); err != nil {
			return nil, err
		}
		if err := e.validateRequest(req); err != nil {
			return nil, err
		}
		maxResults := e.opts.SurfaceMaxResults
		if req.MaxResults > 0 {
			maxResults = req.MaxResults
		}

		scored, err := guarded(e.memoryBreaker, func() ([]surfacer.Scored, error) {
			return e.surfacer.SurfaceForgotten(ctx, e.now(), surfacer.Query{
				MaxResults: maxResults,
				Concepts:   req.Concepts,
			})
		})
		if err != nil {
			return nil, err
		}

		records := make([]storage.InsightRecord, len(scored))
		for i := range scored {
			records[i] = scored[i].InsightRecord
		}
		return &SurfaceResponse{
			Insights:      scored,
			Relationships: memory.Relationships(records, e.memory.RelationWindow()),
		}, nil
	})
}

func (e *engine) GetKnowledgeSummary(ctx context.Context) (*storage.InsightStats, error) {
	return call(ctx, e, "get_knowledge_summary", func(ctx context.Context) (*storage.InsightStats, error) {
		if err := e.requireMemory(); err != nil {
			return nil, err
		}
		return guarded(e.memoryBreaker, func() (*storage.InsightStats, error) {
			return e.memory.Summary(ctx)
		})
	})
}

func (e *engine) SearchInsights(ctx context.Context, filter memory.Filter) (*SearchResponse, error) {
	return call(ctx, e, "search_insights", func(ctx context.Context) (*SearchResponse, error) {
		if err := e.requireMemory(); err != nil {
			return nil, err
		}
		if err := filter.Validate(); err != nil {
			return nil, err
		}
		records, err := guarded(e.memoryBreaker, func() ([]storage.InsightRecord, error) {
			return e.memory.Search(ctx, filter)
		})
		if err != nil {
			return nil, err
		}
		return &SearchResponse{Insights: records, Count: len(records)}, nil
	})
}

func (e *engine) ForgetInsight(ctx context.Context, id int64) error {
	_, err := call(ctx, e, "forget_insight", func(ctx context.Context) (struct{}, error) {
		if err := e.requireMemory(); err != nil {
			return struct{}{}, err
		}
		return guarded(e.memoryBreaker, func() (struct{}, error) {
			return struct{}{}, e.memory.Forget(ctx, id)
		})
	})
	return err
}

// IdentifyKnowledgeGaps reports concepts recalled often but barely written
// about and, when a vault is configured, notes that nothing links to. Either
// capability is enough.
func (e *engine) IdentifyKnowledgeGaps(ctx context.Context, req GapsRequest) (*GapsResponse, error) {
	return call(ctx, e, "identify_knowledge_gaps", func(ctx context.Context) (*GapsResponse, error) {
		if !e.caps.Memory && !e.caps.Vault {
			return nil, fmt.Errorf("%w: knowledge gaps need memory or a vault", ErrFeatureDisabled)
		}
		if err := e.validateRequest(req); err != nil {
			return nil, err
		}
		limit := DefaultGapLimit
		if req.Limit > 0 {
			limit = req.Limit
		}

		gaps := []surfacer.Gap{}
		if e.caps.Memory {
			shallow, err := guarded(e.memoryBreaker, func() ([]surfacer.Gap, error) {
				return e.surfacer.KnowledgeGaps(ctx, req.MinRecalls)
			})
			if err != nil {
				return nil, err
			}
			gaps = append(gaps, shallow...)
		}
		if e.caps.Vault {
			snap, err := e.snapshot(ctx)
			if err != nil {
				return nil, err
			}
			orphans := e.graphFor(snap).Orphans()
			if len(orphans) > MaxDisconnectedGaps {
				orphans = orphans[:MaxDisconnectedGaps]
			}
			for _, path := range orphans {
				doc, _ := snap.Document(path)
				gaps = append(gaps, surfacer.DisconnectedNote(path, doc.Title))
			}
		}
		if len(gaps) > limit {
			gaps = gaps[:limit]
		}

		contextutil.LoggerFromContext(ctx).InfoContext(ctx, "knowledge gaps identified", "gaps", len(gaps))
		return &GapsResponse{Gaps: gaps, Count: len(gaps)}, nil
	})
}

func (e *engine) SuggestReviewSchedule(ctx context.Context, req ReviewRequest) (*ReviewResponse, error) {
	return call(ctx, e, "suggest_review_schedule", func(ctx context.Context) (*ReviewResponse, error) {
		if err := e.requireMemory(); err != nil {
			return nil, err
		}
		if err := e.validateRequest(req); err != nil {
			return nil, err
		}
		minImportance := surfacer.DefaultReviewImportance
		if req.MinImportance != nil {
			minImportance = *req.MinImportance
		}
		limit := DefaultReviewLimit
		if req.Limit > 0 {
			limit = req.Limit
		}

		reviews, err := guarded(e.memoryBreaker, func() ([]surfacer.Review, error) {
			return e.surfacer.ReviewSchedule(ctx, e.now(), minImportance, limit)
		})
		if err != nil {
			return nil, err
		}
		return &ReviewResponse{Reviews: reviews}, nil
	})
}
