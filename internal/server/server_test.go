package server

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/localrivet/textsummary/internal/errortypes"
	"github.com/localrivet/textsummary/internal/evaluate"
	"github.com/localrivet/textsummary/internal/summarizer"
	"github.com/localrivet/textsummary/internal/tools"
)

// MockEngine implements the Engine interface for testing
type MockEngine struct {
	Requests    []summarizer.Request
	Summary     []string
	Metrics     evaluate.Metrics
	Report      *summarizer.HealthReport
	ReturnError error
}

func (m *MockEngine) Summarize(_ context.Context, req summarizer.Request) ([]string, error) {
	m.Requests = append(m.Requests, req)
	if m.ReturnError != nil {
		return nil, m.ReturnError
	}
	return m.Summary, nil
}

func (m *MockEngine) Evaluate(candidate, reference string) evaluate.Metrics {
	return m.Metrics
}

func (m *MockEngine) Methods() []summarizer.MethodStatus {
	var out []summarizer.MethodStatus
	for _, info := range summarizer.Methods() {
		out = append(out, summarizer.MethodStatus{MethodInfo: info, Available: !info.External})
	}
	return out
}

func (m *MockEngine) Health() (*summarizer.HealthReport, error) {
	if m.ReturnError != nil {
		return nil, m.ReturnError
	}
	return m.Report, nil
}

func newTestServer(t *testing.T, engine *MockEngine) *MCPToolServer {
	t.Helper()
	server := NewToolServer(engine, nil)
	if err := server.Initialize(); err != nil {
		t.Fatalf("Failed to initialize server: %v", err)
	}
	return server
}

func TestInitializeRequiresEngine(t *testing.T) {
	err := NewToolServer(nil, nil).Initialize()
	if !errortypes.IsConfigError(err) {
		t.Errorf("Expected config error, got %v", err)
	}
	if err := NewToolServer(nil, nil).Start(); !errortypes.IsConfigError(err) {
		t.Errorf("Expected config error from Start before Initialize, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name        string
		req         tools.SummarizeRequest
		wantMethod  string
		wantOptions summarizer.Options
	}{
		{
			name:        "defaults",
			req:         tools.SummarizeRequest{Text: "A cat sat."},
			wantMethod:  summarizer.MethodFrequency,
			wantOptions: summarizer.OptionsFromInput(0, 0, 0),
		},
		{
			name:        "alias and sentence count",
			req:         tools.SummarizeRequest{Text: "A cat sat.", Method: "textrank", NumSentences: 2},
			wantMethod:  summarizer.MethodGraph,
			wantOptions: summarizer.OptionsFromInput(2, 0, 0),
		},
		{
			name:        "generation bounds",
			req:         tools.SummarizeRequest{Text: "A cat sat.", Method: "t5", MaxLength: 60, MinLength: 20},
			wantMethod:  summarizer.MethodAbstractive,
			wantOptions: summarizer.OptionsFromInput(0, 60, 20),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			engine := &MockEngine{Summary: []string{"A cat sat."}}
			server := newTestServer(t, engine)

			response, err := server.handleSummarize(nil, test.req)
			if err != nil {
				t.Fatalf("Handler returned error: %v", err)
			}
			if response.Status != tools.StatusSuccess {
				t.Errorf("Expected status 'success', got '%s'", response.Status)
			}
			if response.Method != test.wantMethod {
				t.Errorf("Expected method %s, got %s", test.wantMethod, response.Method)
			}
			if len(engine.Requests) != 1 {
				t.Fatalf("Expected 1 engine call, got %d", len(engine.Requests))
			}
			if engine.Requests[0].Options != test.wantOptions {
				t.Errorf("Expected options %+v, got %+v", test.wantOptions, engine.Requests[0].Options)
			}
		})
	}
}

func TestSummarizeErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{name: "unsupported method", err: errortypes.UnsupportedMethodError("foobar"), wantCode: StatusCodeUnsupportedMethod},
		{name: "validation", err: errortypes.ValidationError(errors.New("bad"), "invalid"), wantCode: StatusCodeValidationError},
		{name: "computation", err: errortypes.ComputationError(errors.New("nan"), ""), wantCode: StatusCodeComputationError},
		{name: "unknown", err: errors.New("plain"), wantCode: StatusCodeUnknownError},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			server := newTestServer(t, &MockEngine{ReturnError: test.err})

			response, err := server.handleSummarize(nil, tools.SummarizeRequest{Text: "x", Method: "foobar"})

			// We expect no direct error from handler
			if err != nil {
				t.Fatalf("Handler should not return error: %v", err)
			}
			if response.Status != tools.StatusError {
				t.Errorf("Expected status 'error', got '%s'", response.Status)
			}
			if response.Code != test.wantCode {
				t.Errorf("Expected code %s, got %s", test.wantCode, response.Code)
			}
			if response.Error == "" {
				t.Error("Expected non-empty error message")
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name       string
		metrics    evaluate.Metrics
		wantStatus string
		wantScores bool
	}{
		{
			name:       "success",
			metrics:    evaluate.Metrics{ROUGE1: 0.5, BLEU: 0.1, Status: evaluate.StatusSuccess},
			wantStatus: tools.StatusSuccess,
			wantScores: true,
		},
		{
			name:       "skipped is not an error",
			metrics:    evaluate.Metrics{Status: evaluate.StatusSkipped, Message: "no stemmer"},
			wantStatus: tools.StatusSuccess,
		},
		{
			name:       "evaluation error",
			metrics:    evaluate.Metrics{Status: evaluate.StatusError, Message: "evaluation failed"},
			wantStatus: tools.StatusError,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			server := newTestServer(t, &MockEngine{Metrics: test.metrics})

			response, err := server.handleEvaluate(nil, tools.EvaluateRequest{Candidate: "a", Reference: "b"})
			if err != nil {
				t.Fatalf("Handler returned error: %v", err)
			}
			if response.Status != test.wantStatus {
				t.Errorf("Expected status %s, got %s", test.wantStatus, response.Status)
			}
			if response.EvaluationStatus != string(test.metrics.Status) {
				t.Errorf("Expected evaluation status %s, got %s", test.metrics.Status, response.EvaluationStatus)
			}
			if (response.Metrics != nil) != test.wantScores {
				t.Errorf("Unexpected metrics %v", response.Metrics)
			}
		})
	}
}

func TestListMethods(t *testing.T) {
	server := newTestServer(t, &MockEngine{})

	response, err := server.handleListMethods(nil, tools.ListMethodsRequest{})
	if err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}
	if len(response.Methods) != len(summarizer.Methods()) {
		t.Fatalf("Expected %d methods, got %d", len(summarizer.Methods()), len(response.Methods))
	}
	first := response.Methods[0]
	if first.Name != summarizer.MethodFrequency || first.Family != string(summarizer.FamilyRanking) || !first.Available {
		t.Errorf("Unexpected first method: %+v", first)
	}
}

func TestHealth(t *testing.T) {
	report := &summarizer.HealthReport{Status: summarizer.StatusDegraded, Version: "test"}
	server := newTestServer(t, &MockEngine{Report: report})

	response, err := server.handleHealth(nil, tools.HealthRequest{})
	if err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}
	if response.Status != tools.StatusSuccess || response.Health != string(summarizer.StatusDegraded) {
		t.Errorf("Unexpected response: %+v", response)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(response.Report), &decoded); err != nil {
		t.Fatalf("Report is not valid JSON: %v", err)
	}
	if decoded["version"] != "test" {
		t.Errorf("Expected version 'test', got %v", decoded["version"])
	}

	failing := newTestServer(t, &MockEngine{ReturnError: errors.New("registry is nil")})
	response, _ = failing.handleHealth(nil, tools.HealthRequest{})
	if response.Status != tools.StatusError || response.Error == "" {
		t.Errorf("Expected error response, got %+v", response)
	}
}
