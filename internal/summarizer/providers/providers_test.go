package providers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/localrivet/textsummary/internal/telemetry"
	"github.com/sashabaranov/go-openai"
)

func TestOpenAIServiceGenerateSummary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Unexpected Authorization header %q", r.Header.Get("Authorization"))
		}

		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 2 || !strings.Contains(req.Messages[1].Content, "between 20 and 60 words") {
			t.Errorf("prompt does not carry length bounds: %+v", req.Messages)
		}

		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: "assistant", Content: "  The Moon hid the Sun.  "}},
			},
		})
	}))
	defer server.Close()

	svc, err := NewOpenAIService(Config{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewOpenAIService() error = %v", err)
	}

	got, err := svc.GenerateSummary(context.Background(), "A long text about eclipses.", 60, 20)
	if err != nil {
		t.Fatalf("GenerateSummary() error = %v", err)
	}
	if got != "The Moon hid the Sun." {
		t.Errorf("GenerateSummary() = %q", got)
	}
}

func TestOpenAIServiceEmbedSentences(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("Expected path /embeddings, got %s", r.URL.Path)
		}
		// Returned out of order on purpose.
		_ = json.NewEncoder(w).Encode(openai.EmbeddingResponse{
			Data: []openai.Embedding{
				{Index: 1, Embedding: []float32{0, 1}},
				{Index: 0, Embedding: []float32{1, 0}},
			},
		})
	}))
	defer server.Close()

	svc, err := NewOpenAIService(Config{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewOpenAIService() error = %v", err)
	}

	got, err := svc.EmbedSentences(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("EmbedSentences() error = %v", err)
	}
	want := [][]float32{{1, 0}, {0, 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("EmbedSentences() = %v, want %v", got, want)
	}
}

func TestOpenAIServiceErrors(t *testing.T) {
	if _, err := NewOpenAIService(Config{}); err == nil {
		t.Errorf("NewOpenAIService() without key should fail")
	}

	server := MockServer(t, MockResponseConfig{
		StatusCode:   http.StatusUnauthorized,
		ResponseBody: `{"error":{"message":"bad key","type":"invalid_request_error"}}`,
	})
	defer server.Close()

	svc, _ := NewOpenAIService(Config{APIKey: "bad", BaseURL: server.URL})
	if _, err := svc.GenerateSummary(context.Background(), "text", 10, 1); err == nil {
		t.Errorf("GenerateSummary() expected error on 401")
	}
}

func TestOllamaService(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/chat":
			_, _ = w.Write([]byte(`{"model":"llama3.2","message":{"role":"assistant","content":"Eclipse summary."},"done":true}`))
		case "/api/embed":
			_, _ = w.Write([]byte(`{"model":"nomic-embed-text","embeddings":[[1,0],[0,1]]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	svc, err := NewOllamaService(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewOllamaService() error = %v", err)
	}
	if svc.Name() != ProviderOllama {
		t.Errorf("Name() = %q", svc.Name())
	}

	summary, err := svc.GenerateSummary(context.Background(), "text", 60, 20)
	if err != nil {
		t.Fatalf("GenerateSummary() error = %v", err)
	}
	if summary != "Eclipse summary." {
		t.Errorf("GenerateSummary() = %q", summary)
	}

	embeddings, err := svc.EmbedSentences(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("EmbedSentences() error = %v", err)
	}
	if len(embeddings) != 2 {
		t.Errorf("len(EmbedSentences()) = %d, want 2", len(embeddings))
	}

	if _, err := svc.EmbedSentences(context.Background(), []string{"only one expected"}); err == nil {
		t.Errorf("EmbedSentences() should fail on count mismatch")
	}
}

func TestMockService(t *testing.T) {
	svc := NewMockService(16)

	tests := []struct {
		name      string
		text      string
		maxLength int
		want      string
	}{
		{name: "truncates", text: "one two three four", maxLength: 2, want: "one two"},
		{name: "short text", text: "one two", maxLength: 5, want: "one two"},
		{name: "collapses whitespace", text: " one\n two ", maxLength: 5, want: "one two"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := svc.GenerateSummary(context.Background(), test.text, test.maxLength, 1)
			if err != nil {
				t.Fatalf("GenerateSummary() error = %v", err)
			}
			if got != test.want {
				t.Errorf("GenerateSummary() = %q, want %q", got, test.want)
			}
		})
	}

	embeddings, err := svc.EmbedSentences(context.Background(), []string{"a b", "c d"})
	if err != nil || len(embeddings) != 2 || len(embeddings[0]) != 16 {
		t.Errorf("EmbedSentences() = %v, %v", embeddings, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.GenerateSummary(ctx, "text", 5, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("GenerateSummary() with canceled context error = %v", err)
	}
}

func TestCachedService(t *testing.T) {
	inner := NewCapturingService("capture", "summary", [][]float32{{1}}, nil)
	metrics := telemetry.NewMetricsCollector()
	svc := NewCachedService(inner, CacheOptions{Metrics: metrics, RequestsPerSecond: 1000})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if got, err := svc.GenerateSummary(ctx, "text", 60, 20); err != nil || got != "summary" {
			t.Fatalf("GenerateSummary() = %q, %v", got, err)
		}
	}
	if inner.Calls() != 1 {
		t.Errorf("inner calls = %d, want 1", inner.Calls())
	}
	if maxLen, minLen := inner.GetCapturedLengths(); maxLen != 60 || minLen != 20 {
		t.Errorf("captured lengths = %d, %d", maxLen, minLen)
	}

	// Different bounds are a different request.
	if _, err := svc.GenerateSummary(ctx, "text", 30, 10); err != nil {
		t.Fatalf("GenerateSummary() error = %v", err)
	}
	if inner.Calls() != 2 {
		t.Errorf("inner calls = %d, want 2", inner.Calls())
	}

	if _, err := svc.EmbedSentences(ctx, []string{"a"}); err != nil {
		t.Fatalf("EmbedSentences() error = %v", err)
	}
	if _, err := svc.EmbedSentences(ctx, []string{"a"}); err != nil {
		t.Fatalf("EmbedSentences() error = %v", err)
	}

	if got := metrics.GetCounter(telemetry.MetricModelCacheHits); got != 3 {
		t.Errorf("cache hits = %d, want 3", got)
	}
	if got := metrics.GetCounter(telemetry.MetricModelCalls); got != 3 {
		t.Errorf("model calls = %d, want 3", got)
	}
	if svc.ItemCount() != 3 {
		t.Errorf("ItemCount() = %d, want 3", svc.ItemCount())
	}
}

func TestCachedServiceDoesNotCacheErrors(t *testing.T) {
	inner := NewCapturingService("capture", "", nil, errors.New("unavailable"))
	metrics := telemetry.NewMetricsCollector()
	svc := NewCachedService(inner, CacheOptions{Metrics: metrics})

	for i := 0; i < 2; i++ {
		if _, err := svc.GenerateSummary(context.Background(), "text", 10, 1); err == nil {
			t.Fatalf("expected error")
		}
	}
	if inner.Calls() != 2 {
		t.Errorf("inner calls = %d, want 2", inner.Calls())
	}
	if got := metrics.GetCounter(telemetry.MetricModelFailures); got != 2 {
		t.Errorf("failures = %d, want 2", got)
	}
}

func TestServiceFactory(t *testing.T) {
	factory := NewServiceFactory(map[string]Config{
		ProviderOpenAI: {APIKey: "key"},
	}, CacheOptions{})

	tests := []struct {
		name     string
		provider string
		wantErr  bool
	}{
		{name: "mock", provider: "mock"},
		{name: "openai", provider: "OpenAI"},
		{name: "ollama", provider: "ollama"},
		{name: "unknown", provider: "t5-local", wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			svc, err := factory.GetService(test.provider)
			if (err != nil) != test.wantErr {
				t.Fatalf("GetService(%q) error = %v, wantErr %v", test.provider, err, test.wantErr)
			}
			if err == nil {
				if _, ok := svc.(*CachedService); !ok {
					t.Errorf("GetService() = %T, want *CachedService", svc)
				}
			}
		})
	}

	missingKey := NewServiceFactory(nil, CacheOptions{})
	if _, err := missingKey.GetService(ProviderOpenAI); err == nil {
		t.Errorf("GetService(openai) without key should fail")
	}
}
