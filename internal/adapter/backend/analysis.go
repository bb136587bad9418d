// Package backend implements HTTP clients for the external serverless
// functions: the analysis backend, the content-generation backend, and the
// knowledge-hub chat backend. All calls are idempotent reads or stateless
// generations; nothing here holds cross-request state.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bmp-ai/brandhub/internal/domain"
	"github.com/bmp-ai/brandhub/internal/port"
)

// AnalysisClient talks to the analysis functions (scorecards, citation
// reports, compliance, share-of-model).
type AnalysisClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAnalysisClient creates a client for the given functions base URL.
func NewAnalysisClient(baseURL string) *AnalysisClient {
	return &AnalysisClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// ListHubs returns the public hub directory.
func (a *AnalysisClient) ListHubs(ctx context.Context) ([]domain.HubSummary, error) {
	body, err := a.get(ctx, "/geobh-data?list=all")
	if err != nil {
		return nil, fmt.Errorf("list hubs: %w", err)
	}

	var resp struct {
		Success bool                `json:"success"`
		Hubs    []domain.HubSummary `json:"hubs"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("list hubs decode: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("list hubs: %w", port.ErrUpstream)
	}
	return resp.Hubs, nil
}

// HubData returns the branding config and client cards for one partner.
// An unknown slug surfaces as port.ErrNotFound.
func (a *AnalysisClient) HubData(ctx context.Context, slug string) (*domain.HubData, error) {
	body, err := a.get(ctx, "/geobh-data?slug="+url.QueryEscape(slug))
	if err != nil {
		return nil, fmt.Errorf("hub data: %w", err)
	}

	var resp struct {
		Success *bool               `json:"success"`
		Config  *domain.HubConfig   `json:"config"`
		Clients []domain.ClientInfo `json:"clients"`
		HubType string              `json:"hub_type"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("hub data decode: %w", err)
	}
	if (resp.Success != nil && !*resp.Success) || resp.Config == nil {
		return nil, fmt.Errorf("hub data %q: %w", slug, port.ErrNotFound)
	}
	return &domain.HubData{Config: resp.Config, Clients: resp.Clients, HubType: resp.HubType}, nil
}

// EEAT returns the full analysis payload for one client.
func (a *AnalysisClient) EEAT(ctx context.Context, slug string) (*domain.EEATData, error) {
	body, err := a.get(ctx, "/geobh-eeat?slug="+url.QueryEscape(slug))
	if err != nil {
		return nil, fmt.Errorf("eeat: %w", err)
	}

	var resp struct {
		Success    bool                 `json:"success"`
		Analysis   *domain.EEATAnalysis `json:"analysis"`
		PageScores []domain.PageScore   `json:"page_scores"`
		Compliance *domain.Compliance   `json:"compliance"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("eeat decode: %w", err)
	}
	if !resp.Success || resp.Analysis == nil {
		return nil, fmt.Errorf("eeat %q: %w", slug, port.ErrNotFound)
	}
	return &domain.EEATData{
		Analysis:   resp.Analysis,
		PageScores: resp.PageScores,
		Compliance: resp.Compliance,
	}, nil
}

// EEATReport returns the report-format analysis as raw JSON.
func (a *AnalysisClient) EEATReport(ctx context.Context, slug string) (json.RawMessage, error) {
	body, err := a.get(ctx, "/geobh-eeat-report?slug="+url.QueryEscape(slug)+"&format=json")
	if err != nil {
		return nil, fmt.Errorf("eeat report: %w", err)
	}
	return json.RawMessage(body), nil
}

// MoatReport returns the AI-citation report as rendered HTML, passed through
// verbatim to the view layer.
func (a *AnalysisClient) MoatReport(ctx context.Context, slug string) (string, error) {
	body, err := a.get(ctx, "/geobh-moat-report?slug="+url.QueryEscape(slug))
	if err != nil {
		return "", fmt.Errorf("moat report: %w", err)
	}
	return string(body), nil
}

// SOM returns the share-of-model payload as raw JSON.
func (a *AnalysisClient) SOM(ctx context.Context, slug string) (json.RawMessage, error) {
	body, err := a.get(ctx, "/geobh-som?slug="+url.QueryEscape(slug))
	if err != nil {
		return nil, fmt.Errorf("som: %w", err)
	}
	return json.RawMessage(body), nil
}

// get is a helper for GET requests against the functions base URL.
func (a *AnalysisClient) get(ctx context.Context, pathAndQuery string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+pathAndQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("analysis API error (%d): %s: %w", resp.StatusCode, string(body), port.ErrUpstream)
	}

	return io.ReadAll(resp.Body)
}
