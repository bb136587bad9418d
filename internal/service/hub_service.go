package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bmp-ai/brandhub/internal/domain"
	"github.com/bmp-ai/brandhub/internal/port"
)

// ClientRegistry is the relational registry of (partner, client) pairs.
type ClientRegistry interface {
	ListPartnerClients(ctx context.Context, partner string) ([]domain.ClientAccess, error)
	GetPartnerClient(ctx context.Context, partner, client string) (*domain.ClientAccess, error)
}

// HubService composes partner hubs and client dashboards from the analysis
// backend and the client registry.
type HubService struct {
	analysis port.AnalysisProvider
	registry ClientRegistry
}

// NewHubService creates a new hub service.
func NewHubService(analysis port.AnalysisProvider, registry ClientRegistry) *HubService {
	return &HubService{analysis: analysis, registry: registry}
}

// ListHubs returns the public hub directory.
func (s *HubService) ListHubs(ctx context.Context) ([]domain.HubSummary, error) {
	hubs, err := s.analysis.ListHubs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list hubs: %w", err)
	}
	return hubs, nil
}

// PartnerHub returns the hub data for one partner. Unknown partners surface
// as port.ErrNotFound.
func (s *HubService) PartnerHub(ctx context.Context, partner string) (*domain.HubData, error) {
	hub, err := s.analysis.HubData(ctx, partner)
	if err != nil {
		return nil, err
	}
	return hub, nil
}

// ClientDashboard composes the dashboard for a (partner, client) pair.
// The pair must exist in the registry; the hub config and the analysis
// payload are then fetched in parallel with all-settled semantics: a
// failed analysis fetch still yields a partial dashboard, while a missing
// hub config does not (the page cannot render without branding).
func (s *HubService) ClientDashboard(ctx context.Context, partner, client string) (*domain.ClientDashboard, error) {
	if _, err := s.registry.GetPartnerClient(ctx, partner, client); err != nil {
		return nil, err
	}

	var (
		wg      sync.WaitGroup
		hub     *domain.HubData
		hubErr  error
		eeat    *domain.EEATData
		eeatErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		hub, hubErr = s.analysis.HubData(ctx, partner)
	}()
	go func() {
		defer wg.Done()
		eeat, eeatErr = s.analysis.EEAT(ctx, client)
	}()
	wg.Wait()

	if hubErr != nil {
		return nil, hubErr
	}
	if eeatErr != nil {
		slog.Warn("eeat fetch failed, rendering partial dashboard", "client", client, "error", eeatErr)
		eeat = nil
	}

	return &domain.ClientDashboard{
		Partner: partner,
		Client:  client,
		Config:  hub.Config,
		EEAT:    eeat,
	}, nil
}

// ClientMoatReport returns the citation report HTML for one client.
func (s *HubService) ClientMoatReport(ctx context.Context, partner, client string) (string, error) {
	if _, err := s.registry.GetPartnerClient(ctx, partner, client); err != nil {
		return "", err
	}
	return s.analysis.MoatReport(ctx, client)
}

// Clients returns the registered clients of a partner.
func (s *HubService) Clients(ctx context.Context, partner string) ([]domain.ClientAccess, error) {
	return s.registry.ListPartnerClients(ctx, partner)
}
