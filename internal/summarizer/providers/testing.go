package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// MockResponseConfig holds configuration for mock API responses
type MockResponseConfig struct {
	StatusCode   int
	ResponseBody interface{}
	Headers      map[string]string
}

// MockServer creates a test server that returns the configured response
func MockServer(t *testing.T, config MockResponseConfig) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range config.Headers {
			w.Header().Set(k, v)
		}

		// Always set content type if not explicitly set
		if _, exists := config.Headers["Content-Type"]; !exists {
			w.Header().Set("Content-Type", "application/json")
		}

		w.WriteHeader(config.StatusCode)

		if config.ResponseBody != nil {
			var respBytes []byte
			var err error

			switch body := config.ResponseBody.(type) {
			case string:
				respBytes = []byte(body)
			case []byte:
				respBytes = body
			default:
				respBytes, err = json.Marshal(body)
				if err != nil {
					t.Errorf("Failed to marshal mock response: %v", err)
					return
				}
			}

			if _, err := w.Write(respBytes); err != nil {
				t.Errorf("Failed to write response body: %v", err)
			}
		}
	}))
}

// TestService is a simple implementation of ModelService for testing
type TestService struct {
	name        string
	summary     string
	embeddings  [][]float32
	returnError error
}

// NewTestService creates a TestService returning the given summary,
// embeddings and error from every call.
func NewTestService(name, summary string, embeddings [][]float32, returnError error) *TestService {
	return &TestService{
		name:        name,
		summary:     summary,
		embeddings:  embeddings,
		returnError: returnError,
	}
}

// Name returns the provider name
func (s *TestService) Name() string {
	return s.name
}

// GenerateSummary returns the configured summary or error
func (s *TestService) GenerateSummary(_ context.Context, _ string, _, _ int) (string, error) {
	return s.summary, s.returnError
}

// EmbedSentences returns the configured embeddings or error
func (s *TestService) EmbedSentences(_ context.Context, _ []string) ([][]float32, error) {
	return s.embeddings, s.returnError
}

// CapturingService records its inputs and counts calls
type CapturingService struct {
	TestService

	mu                sync.Mutex
	capturedText      string
	capturedMax       int
	capturedMin       int
	capturedSentences []string
	calls             int
}

// NewCapturingService creates a new CapturingService
func NewCapturingService(name, summary string, embeddings [][]float32, returnError error) *CapturingService {
	return &CapturingService{TestService: *NewTestService(name, summary, embeddings, returnError)}
}

// GenerateSummary captures inputs and returns the configured response
func (s *CapturingService) GenerateSummary(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	s.mu.Lock()
	s.capturedText = text
	s.capturedMax = maxLength
	s.capturedMin = minLength
	s.calls++
	s.mu.Unlock()
	return s.TestService.GenerateSummary(ctx, text, maxLength, minLength)
}

// EmbedSentences captures inputs and returns the configured response
func (s *CapturingService) EmbedSentences(ctx context.Context, sentences []string) ([][]float32, error) {
	s.mu.Lock()
	s.capturedSentences = append([]string(nil), sentences...)
	s.calls++
	s.mu.Unlock()
	return s.TestService.EmbedSentences(ctx, sentences)
}

// GetCapturedText returns the text that was passed to GenerateSummary
func (s *CapturingService) GetCapturedText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capturedText
}

// GetCapturedLengths returns the max and min lengths passed to GenerateSummary
func (s *CapturingService) GetCapturedLengths() (maxLength, minLength int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capturedMax, s.capturedMin
}

// GetCapturedSentences returns the sentences passed to EmbedSentences
func (s *CapturingService) GetCapturedSentences() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capturedSentences
}

// Calls returns how many times the service was invoked
func (s *CapturingService) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
