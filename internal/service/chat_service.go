package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bmp-ai/brandhub/internal/domain"
	"github.com/bmp-ai/brandhub/internal/port"
)

// ChatService proxies assistant queries to the knowledge-hub backend.
type ChatService struct {
	khub port.KnowledgeHub
}

// NewChatService creates a new chat service.
func NewChatService(khub port.KnowledgeHub) *ChatService {
	return &ChatService{khub: khub}
}

// Ask answers a question scoped to one partner's knowledge base.
// Upstream failures surface as port.ErrUpstream so callers can render the
// "answer unavailable" state instead of a raw error.
func (s *ChatService) Ask(ctx context.Context, tenantCode, query string, includeSources bool) (*domain.ChatAnswer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("chat: empty query")
	}

	answer, err := s.khub.Query(ctx, tenantCode, query, includeSources)
	if err != nil {
		slog.Warn("khub query failed", "tenant", tenantCode, "error", err)
		return nil, fmt.Errorf("chat: %w", port.ErrUpstream)
	}

	slog.Info("chat answered", "tenant", tenantCode, "sources", len(answer.Sources))
	return answer, nil
}
