package providers

import (
	"context"
	"strings"

	"github.com/localrivet/textsummary/internal/vector"
)

// MockService is an offline ModelService. Summaries are the leading words of
// the input and embeddings come from vector.MockEmbedder, so results are
// deterministic and need no network.
type MockService struct {
	embedder vector.Embedder
}

// NewMockService creates a MockService producing embeddings of the given size.
func NewMockService(dimensions int) *MockService {
	return &MockService{embedder: vector.NewMockEmbedder(dimensions)}
}

// Name returns the provider name
func (s *MockService) Name() string {
	return ProviderMock
}

// GenerateSummary returns at most maxLength leading words of text.
func (s *MockService) GenerateSummary(ctx context.Context, text string, maxLength, _ int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	words := strings.Fields(text)
	if maxLength > 0 && len(words) > maxLength {
		words = words[:maxLength]
	}
	return strings.Join(words, " "), nil
}

// EmbedSentences embeds each sentence with the mock embedder.
func (s *MockService) EmbedSentences(ctx context.Context, sentences []string) ([][]float32, error) {
	embeddings := make([][]float32, len(sentences))
	for i, sentence := range sentences {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e, err := s.embedder.CreateEmbedding(sentence)
		if err != nil {
			return nil, err
		}
		embeddings[i] = e
	}
	return embeddings, nil
}
