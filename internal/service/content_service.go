package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bmp-ai/brandhub/internal/domain"
	"github.com/bmp-ai/brandhub/internal/port"
)

// ContentService drives the content lab: brand diagnosis and content
// generation through the external backends.
type ContentService struct {
	analysis  port.AnalysisProvider
	generator port.ContentGenerator
}

// NewContentService creates a new content service.
func NewContentService(analysis port.AnalysisProvider, generator port.ContentGenerator) *ContentService {
	return &ContentService{analysis: analysis, generator: generator}
}

// Diagnose fetches the three diagnostic reports for a brand concurrently.
// Each fetch settles independently; a failed report leaves its field empty.
// Only when all three fail is the diagnosis itself an error.
func (s *ContentService) Diagnose(ctx context.Context, slug string) (*domain.Diagnosis, error) {
	if slug == "" {
		return nil, fmt.Errorf("diagnose: empty slug")
	}

	diag := &domain.Diagnosis{Slug: slug}
	var (
		wg                       sync.WaitGroup
		eeatErr, moatErr, somErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		diag.EEAT, eeatErr = s.analysis.EEATReport(ctx, slug)
	}()
	go func() {
		defer wg.Done()
		diag.Moat, moatErr = s.analysis.MoatReport(ctx, slug)
	}()
	go func() {
		defer wg.Done()
		diag.SOM, somErr = s.analysis.SOM(ctx, slug)
	}()
	wg.Wait()

	if eeatErr != nil && moatErr != nil && somErr != nil {
		return nil, fmt.Errorf("diagnose %q: %w", slug, port.ErrUpstream)
	}
	for _, err := range []error{eeatErr, moatErr, somErr} {
		if err != nil {
			slog.Warn("diagnosis report unavailable", "slug", slug, "error", err)
		}
	}

	return diag, nil
}

// Generate validates the requested content type and model against the
// catalog and runs the generation.
func (s *ContentService) Generate(ctx context.Context, slug, contentType, llm string) (*domain.Generation, error) {
	if slug == "" {
		return nil, fmt.Errorf("generate: empty slug")
	}
	if domain.ContentTypeByKey(contentType) == nil {
		return nil, fmt.Errorf("generate: %q: %w", contentType, port.ErrUnknownContentType)
	}
	if domain.LLMByKey(llm) == nil {
		return nil, fmt.Errorf("generate: %q: %w", llm, port.ErrUnknownLLM)
	}

	gen, err := s.generator.Generate(ctx, slug, contentType, llm)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	slog.Info("content generated",
		"slug", slug, "content_type", contentType, "llm", llm, "duration_ms", gen.DurationMS)
	return gen, nil
}
