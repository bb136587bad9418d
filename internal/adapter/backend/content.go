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
	"github.com/google/uuid"
)

// ContentClient talks to the content-generation function.
type ContentClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewContentClient creates a client for the given functions base URL.
// Generation can take a while; the timeout is sized accordingly.
func NewContentClient(baseURL string) *ContentClient {
	return &ContentClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}
}

// Generate asks the backend to produce content of the given type with the
// given model. The backend reports its own generation time; the round-trip
// time is used when it does not.
func (c *ContentClient) Generate(ctx context.Context, slug, contentType, llm string) (*domain.Generation, error) {
	payload := map[string]string{
		"slug":         slug,
		"content_type": contentType,
		"llm":          llm,
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/geobh-content-gen", bytes.NewReader(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("content gen: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("content gen API error (%d): %s: %w", resp.StatusCode, string(body), port.ErrUpstream)
	}

	var result struct {
		Success    bool   `json:"success"`
		Content    string `json:"content"`
		Model      string `json:"model"`
		DurationMS int64  `json:"duration_ms"`
		Error      string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("content gen decode: %w", err)
	}
	if !result.Success {
		return nil, fmt.Errorf("content gen failed: %s: %w", result.Error, port.ErrUpstream)
	}

	duration := result.DurationMS
	if duration == 0 {
		duration = time.Since(start).Milliseconds()
	}

	return &domain.Generation{
		ID:          uuid.NewString(),
		Slug:        slug,
		ContentType: contentType,
		LLM:         llm,
		Content:     result.Content,
		Model:       result.Model,
		DurationMS:  duration,
		CreatedAt:   time.Now(),
	}, nil
}
