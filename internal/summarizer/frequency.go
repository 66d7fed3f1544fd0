package summarizer

import (
	"context"
	"log/slog"
)

// FrequencyStrategy scores each sentence by the normalized corpus frequency
// of its filtered tokens.
type FrequencyStrategy struct {
	logger *slog.Logger
}

// NewFrequencyStrategy creates a FrequencyStrategy.
func NewFrequencyStrategy(logger *slog.Logger) *FrequencyStrategy {
	if logger == nil {
		logger = slog.Default()
	}
	return &FrequencyStrategy{logger: logger.With("method", MethodFrequency)}
}

// Name returns the canonical method identifier.
func (s *FrequencyStrategy) Name() string { return MethodFrequency }

// Family returns FamilyRanking.
func (s *FrequencyStrategy) Family() Family { return FamilyRanking }

// Summarize returns the NumSentences highest-scoring sentences in document order.
func (s *FrequencyStrategy) Summarize(_ context.Context, doc Document, opts Options) ([]string, error) {
	return guard(s.logger, MethodFrequency, func() ([]string, error) {
		c := doc.Sentences
		n := opts.NumSentences
		if len(c) == 0 {
			s.logger.Warn("No sentences found in the input text, returning an empty summary")
			return []string{}, nil
		}
		if len(c) <= n {
			return c.Texts(), nil
		}

		frequencies := make(map[string]float64)
		var maxFreq float64
		for _, sentence := range c {
			for _, token := range sentence.Tokens {
				frequencies[token]++
				if frequencies[token] > maxFreq {
					maxFreq = frequencies[token]
				}
			}
		}
		if maxFreq == 0 {
			maxFreq = 1
		}
		s.logger.Debug("Calculated word frequencies", "unique_words", len(frequencies))

		scores := make([]float64, len(c))
		for i, sentence := range c {
			for _, token := range sentence.Tokens {
				scores[i] += frequencies[token] / maxFreq
			}
		}

		summary := topInOrder(c, scores, n)
		s.logger.Debug("Frequency summarization complete", "selected", len(summary))
		return summary, nil
	})
}
