package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIService implements ModelService with OpenAI's chat and embedding APIs.
// Any OpenAI-compatible endpoint can be used by setting Config.BaseURL.
type OpenAIService struct {
	client *openai.Client
	config Config
}

// NewOpenAIService creates a new OpenAI model service
func NewOpenAIService(config Config) (*OpenAIService, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIService{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name
func (s *OpenAIService) Name() string {
	return ProviderOpenAI
}

// GenerateSummary implements ModelService using the Chat Completions API
func (s *OpenAIService) GenerateSummary(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	model := s.config.ModelID
	if model == "" {
		model = openai.GPT4oMini
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.timeout())
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: summaryPrompt(text, maxLength, minLength),
			},
		},
		// Words run a little over one token each.
		MaxTokens:   maxLength * 2,
		Temperature: 0,
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", fmt.Errorf("empty response from OpenAI")
	}
	return summary, nil
}

// EmbedSentences implements ModelService using the Embeddings API
func (s *OpenAIService) EmbedSentences(ctx context.Context, sentences []string) ([][]float32, error) {
	if len(sentences) == 0 {
		return [][]float32{}, nil
	}

	model := openai.EmbeddingModel(s.config.EmbeddingModel)
	if model == "" {
		model = openai.SmallEmbedding3
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.timeout())
	defer cancel()

	resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: sentences,
		Model: model,
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI embeddings error: %w", err)
	}
	if err := checkEmbeddingCount(len(resp.Data), len(sentences)); err != nil {
		return nil, err
	}

	embeddings := make([][]float32, len(sentences))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(sentences) {
			return nil, fmt.Errorf("embedding index %d out of range", d.Index)
		}
		embeddings[d.Index] = d.Embedding
	}
	return embeddings, nil
}
