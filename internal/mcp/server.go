// Package mcp exposes the engine operations as Model Context Protocol tools.
package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"vaultmind/internal/contextutil"
	"vaultmind/internal/memory"
	"vaultmind/internal/service"
)

// Server wraps the MCP server around the engine.
type Server struct {
	engine service.Engine
	server *mcp.Server
}

// NewServer creates a new MCP server. Only the tools of enabled capabilities
// are registered, so clients never see operations that would always fail.
func NewServer(engine service.Engine, version string) *Server {
	s := &Server{engine: engine}

	impl := &mcp.Implementation{
		Name:    "vaultmind",
		Version: version,
	}

	s.server = mcp.NewServer(impl, nil)
	caps := engine.Capabilities()
	if caps.Memory {
		s.registerMemoryTools()
	}
	if caps.Vault {
		s.registerVaultTools()
	}
	if caps.Memory || caps.Vault {
		mcp.AddTool(s.server, &mcp.Tool{
			Name: "identify_knowledge_gaps",
			Description: "List knowledge gaps: concepts recalled often but backed by fewer than three insights, " +
				"and vault notes with no links in or out.",
		}, s.handleGaps)
	}

	return s
}

// Run starts the MCP server on stdio.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Connect serves one session over the given transport.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.server.Connect(ctx, t, nil)
}

func (s *Server) registerMemoryTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "remember_insight",
		Description: "Store an insight in persistent memory. Concept is derived from the content when omitted; " +
			"category defaults to 'general' and importance (0 to 1) to 0.5. Returns the new insight id.",
	}, s.handleRemember)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "recall_concept_memory",
		Description: "Recall insights whose concept contains the given text, newest first, created within " +
			"days_back days (0 or omitted for all time). Also returns concepts recorded close together in time. " +
			"Fails with not found only when the concept was never recorded.",
	}, s.handleRecall)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "surface_forgotten_insights",
		Description: "Resurface important insights that have not been seen for a long time, optionally only those " +
			"about the given concepts or concepts recorded close to them. " +
			"Returned insights are marked as recalled and will not resurface again immediately.",
	}, s.handleSurface)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_knowledge_summary",
		Description: "Summarize persistent memory: total insights, distinct concepts, counts by category and the most frequent concepts.",
	}, s.handleSummary)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_insights",
		Description: "Search insights by concept fragment, category, creation time range and importance range.",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "suggest_review_schedule",
		Description: "Suggest concepts to review, ranked by peak importance and how long since they were last seen. " +
			"Read-only: nothing is marked as recalled.",
	}, s.handleReview)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "forget_insight",
		Description: "Permanently delete one insight by id.",
	}, s.handleForget)
}

func (s *Server) registerVaultTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "find_similar_notes",
		Description: "Find notes whose content is similar to the given note (vault-relative path). " +
			"Scores are cosine similarity of TF-IDF vectors in [0, 1], most similar first.",
	}, s.handleSimilar)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "detect_duplicate_content",
		Description: "Group notes whose pairwise similarity reaches the threshold into duplicate clusters. " +
			"Similarity is transitive within a cluster.",
	}, s.handleDuplicates)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "suggest_missing_backlinks",
		Description: "Suggest notes related to the given note that are not yet linked in either direction, " +
			"plus notes whose titles are mentioned in its text without a link.",
	}, s.handleBacklinks)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "analyze_vault_health",
		Description: "Score the structural health of the vault from connectivity, uniqueness and freshness, " +
			"with orphans, hubs, tag clusters, stale notes and recommendations.",
	}, s.handleHealth)
}

// logged attaches a tool-scoped logger to ctx.
func logged(ctx context.Context, tool string) context.Context {
	logger := contextutil.LoggerFromContext(ctx).With("tool", tool)
	return contextutil.WithLogger(ctx, logger)
}

// RememberArgs defines the input for remember_insight.
type RememberArgs struct {
	Content    string   `json:"content" jsonschema:"The insight text to store"`
	Concept    string   `json:"concept,omitempty" jsonschema:"Concept the insight belongs to (derived from the content when omitted)"`
	Category   string   `json:"category,omitempty" jsonschema:"Free-form category, e.g. research or decision (default general)"`
	Importance *float64 `json:"importance,omitempty" jsonschema:"Importance between 0 and 1 (default 0.5)"`
}

func (s *Server) handleRemember(ctx context.Context, req *mcp.CallToolRequest, args RememberArgs) (*mcp.CallToolResult, any, error) {
	out, err := s.engine.RememberInsight(logged(ctx, "remember_insight"), service.RememberRequest{
		Content:    args.Content,
		Concept:    args.Concept,
		Category:   args.Category,
		Importance: args.Importance,
	})
	if err != nil {
		return nil, nil, err
	}
	return nil, out, nil
}

// RecallArgs defines the input for recall_concept_memory.
type RecallArgs struct {
	Concept  string `json:"concept" jsonschema:"Concept text to look up (case-insensitive substring match)"`
	DaysBack int    `json:"days_back,omitempty" jsonschema:"Only return insights from the last N days (0 for all time)"`
}

func (s *Server) handleRecall(ctx context.Context, req *mcp.CallToolRequest, args RecallArgs) (*mcp.CallToolResult, any, error) {
	out, err := s.engine.RecallConceptMemory(logged(ctx, "recall_concept_memory"), service.RecallRequest{
		Concept:  args.Concept,
		DaysBack: args.DaysBack,
	})
	if err != nil {
		return nil, nil, err
	}
	return nil, out, nil
}

// SurfaceArgs defines the input for surface_forgotten_insights.
type SurfaceArgs struct {
	MaxResults int      `json:"max_results,omitempty" jsonschema:"Maximum number of insights to return (default 50)"`
	Concepts   []string `json:"concepts,omitempty" jsonschema:"Concepts currently being worked on; limits results to them and related concepts"`
}

func (s *Server) handleSurface(ctx context.Context, req *mcp.CallToolRequest, args SurfaceArgs) (*mcp.CallToolResult, any, error) {
	out, err := s.engine.SurfaceForgottenInsights(logged(ctx, "surface_forgotten_insights"), service.SurfaceRequest{
		MaxResults: args.MaxResults,
		Concepts:   args.Concepts,
	})
	if err != nil {
		return nil, nil, err
	}
	return nil, out, nil
}

// GapsArgs defines the input for identify_knowledge_gaps.
type GapsArgs struct {
	MinRecalls int `json:"min_recalls,omitempty" jsonschema:"Recalls after which a thin concept counts as a gap (default 5)"`
	Limit      int `json:"limit,omitempty" jsonschema:"Maximum number of gaps (default 10)"`
}

func (s *Server) handleGaps(ctx context.Context, req *mcp.CallToolRequest, args GapsArgs) (*mcp.CallToolResult, any, error) {
	out, err := s.engine.IdentifyKnowledgeGaps(logged(ctx, "identify_knowledge_gaps"), service.GapsRequest{
		MinRecalls: args.MinRecalls,
		Limit:      args.Limit,
	})
	if err != nil {
		return nil, nil, err
	}
	return nil, out, nil
}

// ReviewArgs defines the input for suggest_review_schedule.
type ReviewArgs struct {
	MinImportance *float64 `json:"min_importance,omitempty" jsonschema:"Peak importance a concept must exceed (default 0.5)"`
	Limit         int      `json:"limit,omitempty" jsonschema:"Maximum number of concepts (default 8)"`
}

func (s *Server) handleReview(ctx context.Context, req *mcp.CallToolRequest, args ReviewArgs) (*mcp.CallToolResult, any, error) {
	out, err := s.engine.SuggestReviewSchedule(logged(ctx, "suggest_review_schedule"), service.ReviewRequest{
		MinImportance: args.MinImportance,
		Limit:         args.Limit,
	})
	if err != nil {
		return nil, nil, err
	}
	return nil, out, nil
}

// SummaryArgs defines the input for get_knowledge_summary.
type SummaryArgs struct{}

func (s *Server) handleSummary(ctx context.Context, req *mcp.CallToolRequest, args SummaryArgs) (*mcp.CallToolResult, any, error) {
	out, err := s.engine.GetKnowledgeSummary(logged(ctx, "get_knowledge_summary"))
	if err != nil {
		return nil, nil, err
	}
	return nil, out, nil
}

// SearchArgs defines the input for search_insights. Times are RFC 3339.
type SearchArgs struct {
	Concept       string   `json:"concept,omitempty" jsonschema:"Concept fragment to match"`
	Category      string   `json:"category,omitempty" jsonschema:"Exact category"`
	Since         string   `json:"since,omitempty" jsonschema:"Earliest creation time (RFC 3339)"`
	Until         string   `json:"until,omitempty" jsonschema:"Latest creation time (RFC 3339)"`
	MinImportance *float64 `json:"min_importance,omitempty" jsonschema:"Minimum importance"`
	MaxImportance *float64 `json:"max_importance,omitempty" jsonschema:"Maximum importance"`
	Limit         int      `json:"limit,omitempty" jsonschema:"Maximum number of results (default and cap 500)"`
}

func parseTime(field, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, &service.ValidationError{Field: field, Message: "must be an RFC 3339 timestamp", Err: err}
	}
	return &t, nil
}

func (s *Server) handleSearch(ctx context.Context, req *mcp.CallToolRequest, args SearchArgs) (*mcp.CallToolResult, any, error) {
	since, err := parseTime("since", args.Since)
	if err != nil {
		return nil, nil, err
	}
	until, err := parseTime("until", args.Until)
	if err != nil {
		return nil, nil, err
	}

	out, err := s.engine.SearchInsights(logged(ctx, "search_insights"), memory.Filter{
		Concept:       args.Concept,
		Category:      args.Category,
		Since:         since,
		Until:         until,
		MinImportance: args.MinImportance,
		MaxImportance: args.MaxImportance,
		Limit:         args.Limit,
	})
	if err != nil {
		return nil, nil, err
	}
	return nil, out, nil
}

// ForgetArgs defines the input for forget_insight.
type ForgetArgs struct {
	ID int64 `json:"id" jsonschema:"Id of the insight to delete"`
}

// ForgetResult confirms a deletion.
type ForgetResult struct {
	ID      int64 `json:"id"`
	Deleted bool  `json:"deleted"`
}

func (s *Server) handleForget(ctx context.Context, req *mcp.CallToolRequest, args ForgetArgs) (*mcp.CallToolResult, any, error) {
	if err := s.engine.ForgetInsight(logged(ctx, "forget_insight"), args.ID); err != nil {
		return nil, nil, err
	}
	return nil, ForgetResult{ID: args.ID, Deleted: true}, nil
}

// SimilarArgs defines the input for find_similar_notes.
type SimilarArgs struct {
	Path      string   `json:"path" jsonschema:"Vault-relative note path, e.g. projects/kafka.md (.md optional)"`
	Threshold *float64 `json:"threshold,omitempty" jsonschema:"Minimum similarity between 0 and 1"`
	Limit     int      `json:"limit,omitempty" jsonschema:"Maximum number of matches"`
}

func (s *Server) handleSimilar(ctx context.Context, req *mcp.CallToolRequest, args SimilarArgs) (*mcp.CallToolResult, any, error) {
	out, err := s.engine.FindSimilarNotes(logged(ctx, "find_similar_notes"), service.SimilarRequest{
		Path:      args.Path,
		Threshold: args.Threshold,
		Limit:     args.Limit,
	})
	if err != nil {
		return nil, nil, err
	}
	return nil, out, nil
}

// DuplicatesArgs defines the input for detect_duplicate_content.
type DuplicatesArgs struct {
	Threshold *float64 `json:"threshold,omitempty" jsonschema:"Similarity at which two notes count as duplicates, above 0 and at most 1"`
}

func (s *Server) handleDuplicates(ctx context.Context, req *mcp.CallToolRequest, args DuplicatesArgs) (*mcp.CallToolResult, any, error) {
	out, err := s.engine.DetectDuplicateContent(logged(ctx, "detect_duplicate_content"), service.DuplicatesRequest{
		Threshold: args.Threshold,
	})
	if err != nil {
		return nil, nil, err
	}
	return nil, out, nil
}

// BacklinksArgs defines the input for suggest_missing_backlinks.
type BacklinksArgs struct {
	Path      string   `json:"path" jsonschema:"Vault-relative note path"`
	Threshold *float64 `json:"threshold,omitempty" jsonschema:"Minimum similarity for a suggestion"`
	Limit     int      `json:"limit,omitempty" jsonschema:"Maximum number of suggestions"`
}

func (s *Server) handleBacklinks(ctx context.Context, req *mcp.CallToolRequest, args BacklinksArgs) (*mcp.CallToolResult, any, error) {
	out, err := s.engine.SuggestMissingBacklinks(logged(ctx, "suggest_missing_backlinks"), service.BacklinksRequest{
		Path:      args.Path,
		Threshold: args.Threshold,
		Limit:     args.Limit,
	})
	if err != nil {
		return nil, nil, err
	}
	return nil, out, nil
}

// HealthArgs defines the input for analyze_vault_health.
type HealthArgs struct{}

func (s *Server) handleHealth(ctx context.Context, req *mcp.CallToolRequest, args HealthArgs) (*mcp.CallToolResult, any, error) {
	out, err := s.engine.AnalyzeVaultHealth(logged(ctx, "analyze_vault_health"))
	if err != nil {
		return nil, nil, err
	}
	return nil, out, nil
}
