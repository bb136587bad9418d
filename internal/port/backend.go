package port

import (
	"context"
	"encoding/json"

	"github.com/bmp-ai/brandhub/internal/domain"
)

// AnalysisProvider abstracts the external analysis backend that computes
// scorecards, citation reports, and compliance findings. All operations are
// idempotent reads; concurrent requests for the same resource may race and
// the later response wins.
type AnalysisProvider interface {
	// ListHubs returns the public hub directory.
	ListHubs(ctx context.Context) ([]domain.HubSummary, error)

	// HubData returns the branding config and client cards for a partner.
	HubData(ctx context.Context, slug string) (*domain.HubData, error)

	// EEAT returns the full analysis payload for a client.
	EEAT(ctx context.Context, slug string) (*domain.EEATData, error)

	// EEATReport returns the report-format analysis as raw JSON.
	EEATReport(ctx context.Context, slug string) (json.RawMessage, error)

	// MoatReport returns the AI-citation report as rendered HTML.
	MoatReport(ctx context.Context, slug string) (string, error)

	// SOM returns the share-of-model payload as raw JSON.
	SOM(ctx context.Context, slug string) (json.RawMessage, error)
}

// ContentGenerator abstracts the external content-generation backend.
type ContentGenerator interface {
	// Generate produces content of the given type with the given model.
	Generate(ctx context.Context, slug, contentType, llm string) (*domain.Generation, error)
}

// KnowledgeHub abstracts the external chat/RAG backend.
type KnowledgeHub interface {
	// Query answers a question scoped to one tenant's knowledge base.
	Query(ctx context.Context, tenantCode, query string, includeSources bool) (*domain.ChatAnswer, error)
}
