package summarizer

import (
	"context"
	"log/slog"
	"strings"

	"github.com/localrivet/textsummary/internal/summarizer/providers"
)

// AbstractiveStrategy delegates summarization to a model service that writes
// new text. The summary is a single element.
type AbstractiveStrategy struct {
	service providers.ModelService
	logger  *slog.Logger
}

// NewAbstractiveStrategy creates an AbstractiveStrategy backed by service.
func NewAbstractiveStrategy(service providers.ModelService, logger *slog.Logger) *AbstractiveStrategy {
	if logger == nil {
		logger = slog.Default()
	}
	return &AbstractiveStrategy{
		service: service,
		logger:  logger.With("method", MethodAbstractive, "provider", service.Name()),
	}
}

// Name returns the canonical method identifier.
func (s *AbstractiveStrategy) Name() string { return MethodAbstractive }

// Family returns FamilyGeneration.
func (s *AbstractiveStrategy) Family() Family { return FamilyGeneration }

// Summarize asks the model service for a summary within the generation bounds.
func (s *AbstractiveStrategy) Summarize(ctx context.Context, doc Document, opts Options) ([]string, error) {
	if strings.TrimSpace(doc.Text) == "" {
		s.logger.Warn("Empty input text, returning an empty summary")
		return []string{}, nil
	}

	g := opts.Generation
	s.logger.Info("Starting abstractive summarization", "max_length", g.MaxLength, "min_length", g.MinLength)

	return guard(s.logger, MethodAbstractive, func() ([]string, error) {
		summary, err := s.service.GenerateSummary(ctx, doc.Text, g.MaxLength, g.MinLength)
		if err != nil {
			return nil, externalError(err, s.service, MethodAbstractive)
		}
		return []string{summary}, nil
	})
}
