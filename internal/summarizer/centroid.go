package summarizer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/localrivet/textsummary/internal/errortypes"
	"github.com/localrivet/textsummary/internal/summarizer/providers"
	"github.com/localrivet/textsummary/internal/vector"
)

// CentroidStrategy embeds every sentence with a model service and selects the
// sentences closest to the mean embedding.
type CentroidStrategy struct {
	service providers.ModelService
	logger  *slog.Logger
}

// NewCentroidStrategy creates a CentroidStrategy backed by service.
func NewCentroidStrategy(service providers.ModelService, logger *slog.Logger) *CentroidStrategy {
	if logger == nil {
		logger = slog.Default()
	}
	return &CentroidStrategy{
		service: service,
		logger:  logger.With("method", MethodCentroid, "provider", service.Name()),
	}
}

// Name returns the canonical method identifier.
func (s *CentroidStrategy) Name() string { return MethodCentroid }

// Family returns FamilyRanking.
func (s *CentroidStrategy) Family() Family { return FamilyRanking }

// Summarize returns the NumSentences sentences most similar to the centroid,
// in document order.
func (s *CentroidStrategy) Summarize(ctx context.Context, doc Document, opts Options) ([]string, error) {
	c := doc.Sentences
	n := opts.NumSentences
	if len(c) == 0 {
		s.logger.Warn("No sentences found in the input text, returning an empty summary")
		return []string{}, nil
	}
	if len(c) <= n {
		return c.Texts(), nil
	}

	var embeddings [][]float32
	for _, batch := range vector.Batches(c.Texts(), vector.DefaultBatchSize) {
		e, err := s.service.EmbedSentences(ctx, batch)
		if err != nil {
			return nil, externalError(err, s.service, MethodCentroid)
		}
		embeddings = append(embeddings, e...)
	}
	if len(embeddings) != len(c) {
		return nil, externalError(fmt.Errorf("expected %d embeddings, got %d", len(c), len(embeddings)), s.service, MethodCentroid)
	}

	return guard(s.logger, MethodCentroid, func() ([]string, error) {
		centroid, err := vector.Centroid(embeddings)
		if err != nil {
			return nil, errortypes.ComputationError(err, "failed to compute centroid").
				WithField("method", MethodCentroid)
		}

		scores := make([]float64, len(c))
		for i, e := range embeddings {
			sim, err := vector.CosineSimilarity(e, centroid)
			if err != nil {
				// Zero-magnitude embeddings carry no signal.
				continue
			}
			scores[i] = sim
		}

		summary := topInOrder(c, scores, n)
		s.logger.Debug("Centroid summarization complete", "selected", len(summary))
		return summary, nil
	})
}
