package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	ollama "github.com/ollama/ollama/api"
)

const (
	defaultOllamaModel          = "llama3.2"
	defaultOllamaEmbeddingModel = "nomic-embed-text"
)

// OllamaService implements ModelService against a local Ollama server.
type OllamaService struct {
	client *ollama.Client
	config Config
}

// NewOllamaService creates an Ollama model service. Without a BaseURL the
// client is configured from OLLAMA_HOST.
func NewOllamaService(config Config) (*OllamaService, error) {
	var client *ollama.Client
	if config.BaseURL != "" {
		base, err := url.Parse(config.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid ollama base URL %q: %w", config.BaseURL, err)
		}
		client = ollama.NewClient(base, http.DefaultClient)
	} else {
		var err error
		client, err = ollama.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("could not create ollama client: %w", err)
		}
	}

	return &OllamaService{client: client, config: config}, nil
}

// Name returns the provider name
func (s *OllamaService) Name() string {
	return ProviderOllama
}

// GenerateSummary implements ModelService with a non-streaming chat request
func (s *OllamaService) GenerateSummary(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	model := s.config.ModelID
	if model == "" {
		model = defaultOllamaModel
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.timeout())
	defer cancel()

	stream := false
	req := &ollama.ChatRequest{
		Model: model,
		Messages: []ollama.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: summaryPrompt(text, maxLength, minLength)},
		},
		Stream: &stream,
		Options: map[string]interface{}{
			"temperature": 0,
			"num_predict": maxLength * 2,
		},
	}

	var b strings.Builder
	respFunc := func(res ollama.ChatResponse) error {
		b.WriteString(res.Message.Content)
		return nil
	}

	if err := s.client.Chat(ctx, req, respFunc); err != nil {
		return "", fmt.Errorf("ollama chat failed: %w", err)
	}

	summary := strings.TrimSpace(b.String())
	if summary == "" {
		return "", fmt.Errorf("empty response from ollama")
	}
	return summary, nil
}

// EmbedSentences implements ModelService with the batch embed endpoint
func (s *OllamaService) EmbedSentences(ctx context.Context, sentences []string) ([][]float32, error) {
	if len(sentences) == 0 {
		return [][]float32{}, nil
	}

	model := s.config.EmbeddingModel
	if model == "" {
		model = defaultOllamaEmbeddingModel
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.timeout())
	defer cancel()

	resp, err := s.client.Embed(ctx, &ollama.EmbedRequest{
		Model: model,
		Input: sentences,
	})
	if err != nil {
		return nil, fmt.Errorf("ollama embed failed: %w", err)
	}
	if err := checkEmbeddingCount(len(resp.Embeddings), len(sentences)); err != nil {
		return nil, err
	}
	return resp.Embeddings, nil
}
