package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bmp-ai/brandhub/internal/domain"
	"github.com/bmp-ai/brandhub/internal/port"
)

// KHubClient talks to the knowledge-hub chat/RAG function.
type KHubClient struct {
	url        string
	httpClient *http.Client
}

// NewKHubClient creates a client for the given query endpoint URL.
func NewKHubClient(url string) *KHubClient {
	return &KHubClient{
		url:        url,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Query answers a question scoped to one tenant's knowledge base.
func (k *KHubClient) Query(ctx context.Context, tenantCode, query string, includeSources bool) (*domain.ChatAnswer, error) {
	payload := map[string]any{
		"tenant_code":     tenantCode,
		"query":           query,
		"include_sources": includeSources,
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, k.url, bytes.NewReader(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := k.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("khub query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("khub API error (%d): %s: %w", resp.StatusCode, string(body), port.ErrUpstream)
	}

	var result struct {
		Success bool                `json:"success"`
		Answer  string              `json:"answer"`
		Sources []domain.ChatSource `json:"sources"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("khub decode: %w", err)
	}
	if !result.Success {
		return nil, fmt.Errorf("khub query failed: %w", port.ErrUpstream)
	}

	return &domain.ChatAnswer{Answer: result.Answer, Sources: result.Sources}, nil
}
