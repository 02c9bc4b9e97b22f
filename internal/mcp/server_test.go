package mcp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"vaultmind/internal/memory"
	"vaultmind/internal/service"
	"vaultmind/internal/service/mocks"
	"vaultmind/internal/storage"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func f64(v float64) *float64 { return &v }

func newTestServer(t *testing.T, caps service.Capabilities) (*Server, *mocks.MockEngine) {
	t.Helper()
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)
	engine.EXPECT().Capabilities().Return(caps)
	return NewServer(engine, "test"), engine
}

func connect(t *testing.T, s *Server) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	ss, err := s.Connect(ctx, serverTransport)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func toolNames(t *testing.T, cs *mcp.ClientSession) []string {
	t.Helper()
	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)
	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	return names
}

func TestNewServer_RegistersByCapability(t *testing.T) {
	memoryTools := []string{
		"forget_insight", "get_knowledge_summary", "identify_knowledge_gaps", "recall_concept_memory",
		"remember_insight", "search_insights", "suggest_review_schedule", "surface_forgotten_insights",
	}
	vaultTools := []string{
		"analyze_vault_health", "detect_duplicate_content", "find_similar_notes",
		"identify_knowledge_gaps", "suggest_missing_backlinks",
	}
	all := append(append([]string{}, memoryTools...), vaultTools[:3]...)
	all = append(all, "suggest_missing_backlinks")
	sort.Strings(all)

	tests := []struct {
		name string
		caps service.Capabilities
		want []string
	}{
		{name: "everything", caps: service.Capabilities{Vault: true, Memory: true}, want: all},
		{name: "memory only", caps: service.Capabilities{Memory: true}, want: memoryTools},
		{name: "vault only", caps: service.Capabilities{Vault: true}, want: vaultTools},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t, tt.caps)
			assert.Equal(t, tt.want, toolNames(t, connect(t, s)))
		})
	}
}

func TestServer_CallTool(t *testing.T) {
	s, engine := newTestServer(t, service.Capabilities{Vault: true, Memory: true})
	cs := connect(t, s)
	ctx := context.Background()

	engine.EXPECT().
		RememberInsight(gomock.Any(), service.RememberRequest{Content: "Attention reduces compute", Concept: "transformers"}).
		Return(&service.RememberResponse{ID: 3}, nil)

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      "remember_insight",
		Arguments: map[string]any{"content": "Attention reduces compute", "concept": "transformers"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)

	engine.EXPECT().
		FindSimilarNotes(gomock.Any(), gomock.Any()).
		Return(nil, service.ErrNotFound)

	res, err = cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      "find_similar_notes",
		Arguments: map[string]any{"path": "missing.md"},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestServer_Handlers(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	t.Run("recall passes arguments", func(t *testing.T) {
		s, engine := newTestServer(t, service.Capabilities{Memory: true})
		want := &memory.RecallResult{Query: "kafka", DaysBack: 7}
		engine.EXPECT().
			RecallConceptMemory(gomock.Any(), service.RecallRequest{Concept: "kafka", DaysBack: 7}).
			Return(want, nil)

		_, out, err := s.handleRecall(ctx, nil, RecallArgs{Concept: "kafka", DaysBack: 7})
		require.NoError(t, err)
		assert.Equal(t, want, out)
	})

	t.Run("errors propagate", func(t *testing.T) {
		s, engine := newTestServer(t, service.Capabilities{Memory: true})
		engine.EXPECT().GetKnowledgeSummary(gomock.Any()).Return(nil, boom)

		_, out, err := s.handleSummary(ctx, nil, SummaryArgs{})
		assert.ErrorIs(t, err, boom)
		assert.Nil(t, out)
	})

	t.Run("search parses times", func(t *testing.T) {
		s, engine := newTestServer(t, service.Capabilities{Memory: true})
		since := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		engine.EXPECT().
			SearchInsights(gomock.Any(), memory.Filter{Category: "research", Since: &since, MinImportance: f64(0.5)}).
			Return(&service.SearchResponse{Insights: []storage.InsightRecord{}}, nil)

		_, _, err := s.handleSearch(ctx, nil, SearchArgs{
			Category:      "research",
			Since:         "2026-01-02T03:04:05Z",
			MinImportance: f64(0.5),
		})
		require.NoError(t, err)
	})

	t.Run("search rejects bad time", func(t *testing.T) {
		s, _ := newTestServer(t, service.Capabilities{Memory: true})

		_, _, err := s.handleSearch(ctx, nil, SearchArgs{Until: "last week"})
		var ve *service.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "until", ve.Field)
	})

	t.Run("forget confirms", func(t *testing.T) {
		s, engine := newTestServer(t, service.Capabilities{Memory: true})
		engine.EXPECT().ForgetInsight(gomock.Any(), int64(9)).Return(nil)

		_, out, err := s.handleForget(ctx, nil, ForgetArgs{ID: 9})
		require.NoError(t, err)
		assert.Equal(t, ForgetResult{ID: 9, Deleted: true}, out)
	})

	t.Run("surface passes concepts", func(t *testing.T) {
		s, engine := newTestServer(t, service.Capabilities{Memory: true})
		engine.EXPECT().
			SurfaceForgottenInsights(gomock.Any(), service.SurfaceRequest{MaxResults: 3, Concepts: []string{"kafka"}}).
			Return(&service.SurfaceResponse{}, nil)

		_, _, err := s.handleSurface(ctx, nil, SurfaceArgs{MaxResults: 3, Concepts: []string{"kafka"}})
		require.NoError(t, err)
	})

	t.Run("gaps and review", func(t *testing.T) {
		s, engine := newTestServer(t, service.Capabilities{Memory: true})
		gaps := &service.GapsResponse{Count: 0}
		engine.EXPECT().IdentifyKnowledgeGaps(gomock.Any(), service.GapsRequest{MinRecalls: 3, Limit: 4}).Return(gaps, nil)
		engine.EXPECT().SuggestReviewSchedule(gomock.Any(), service.ReviewRequest{MinImportance: f64(0), Limit: 2}).Return(nil, boom)

		_, out, err := s.handleGaps(ctx, nil, GapsArgs{MinRecalls: 3, Limit: 4})
		require.NoError(t, err)
		assert.Equal(t, gaps, out)

		_, _, err = s.handleReview(ctx, nil, ReviewArgs{MinImportance: f64(0), Limit: 2})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("duplicates threshold", func(t *testing.T) {
		s, engine := newTestServer(t, service.Capabilities{Vault: true})
		engine.EXPECT().
			DetectDuplicateContent(gomock.Any(), service.DuplicatesRequest{Threshold: f64(0.9)}).
			Return(nil, service.ErrCorpusTooLarge)

		_, _, err := s.handleDuplicates(ctx, nil, DuplicatesArgs{Threshold: f64(0.9)})
		assert.ErrorIs(t, err, service.ErrCorpusTooLarge)
	})
}
