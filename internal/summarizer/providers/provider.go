// Package providers contains the external model services that back the
// abstractive and embedding-based summarization methods.
package providers

import (
	"context"
	"fmt"
	"time"
)

const (
	// Provider constants
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
	ProviderMock   = "mock"

	// Default settings
	DefaultTimeout        = 30 * time.Second
	DefaultMaxInputLength = 8000
	DefaultCacheTTL       = 24 * time.Hour

	// DefaultMaxLength and DefaultMinLength bound generated summaries, in words.
	DefaultMaxLength = 150
	DefaultMinLength = 30
)

// ModelService is the capability interface for neural summarization backends.
// Implementations must be safe for concurrent use.
type ModelService interface {
	// GenerateSummary writes an abstractive summary of text whose length lies
	// between minLength and maxLength words.
	GenerateSummary(ctx context.Context, text string, maxLength, minLength int) (string, error)

	// EmbedSentences returns one embedding per sentence, in input order.
	EmbedSentences(ctx context.Context, sentences []string) ([][]float32, error)

	// Name returns the provider name
	Name() string
}

// Config holds common configuration for model services
type Config struct {
	APIKey         string
	ModelID        string
	EmbeddingModel string
	// BaseURL points the client at a compatible endpoint instead of the default.
	BaseURL string
	Timeout time.Duration
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

// summaryPrompt builds the user prompt shared by chat-based services.
func summaryPrompt(text string, maxLength, minLength int) string {
	if len(text) > DefaultMaxInputLength {
		text = text[:DefaultMaxInputLength]
	}
	return fmt.Sprintf(
		"Summarize the following text in your own words, keeping the most important points. "+
			"The summary must be between %d and %d words long. Reply with the summary only.\n\n%s",
		minLength, maxLength, text)
}

const systemPrompt = "You are a precise summarizer that writes concise abstractive summaries."

func checkEmbeddingCount(got, want int) error {
	if got != want {
		return fmt.Errorf("expected %d embeddings, got %d", want, got)
	}
	return nil
}
