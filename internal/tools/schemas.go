// Package tools defines the MCP tool names and the request and response
// schemas of the summarization tool server.
package tools

const (
	// ToolSummarize is the name of the summarize MCP tool
	ToolSummarize = "summarize"

	// ToolEvaluate is the name of the evaluate MCP tool
	ToolEvaluate = "evaluate"

	// ToolListMethods is the name of the list_methods MCP tool
	ToolListMethods = "list_methods"

	// ToolHealth is the name of the health MCP tool
	ToolHealth = "health"

	// DefaultMethod is used when a summarize request names no method
	DefaultMethod = "frequency"
)

// Response statuses
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// SummarizeRequest defines the input schema for summarize tool
type SummarizeRequest struct {
	// Text is the document to summarize
	Text string `json:"text"`

	// Method is a method identifier or alias. Defaults to DefaultMethod.
	Method string `json:"method,omitempty"`

	// NumSentences is the summary length of ranking methods. Defaults to 3.
	NumSentences int `json:"num_sentences,omitempty"`

	// MaxLength and MinLength bound generation methods, in words. When
	// MaxLength is zero both derive from NumSentences.
	MaxLength int `json:"max_length,omitempty"`
	MinLength int `json:"min_length,omitempty"`
}

// SummarizeResponse defines the output schema for summarize tool
type SummarizeResponse struct {
	// Status indicates the result of the operation ("success" or "error")
	Status string `json:"status"`

	// Method is the canonical name of the method that ran
	Method string `json:"method,omitempty"`

	// Summary holds the selected sentences in document order, or the single
	// generated text
	Summary []string `json:"summary"`

	// Error contains an error message if Status is "error"
	Error string `json:"error,omitempty"`

	// Code classifies the error, for example UNSUPPORTED_METHOD
	Code string `json:"code,omitempty"`
}

// EvaluateRequest defines the input schema for evaluate tool
type EvaluateRequest struct {
	// Candidate is the summary to score
	Candidate string `json:"candidate"`

	// Reference is the summary to score against
	Reference string `json:"reference"`
}

// EvaluateResponse defines the output schema for evaluate tool
type EvaluateResponse struct {
	// Status indicates the result of the operation ("success" or "error")
	Status string `json:"status"`

	// EvaluationStatus is "success", "skipped" or "error"
	EvaluationStatus string `json:"evaluation_status"`

	// Metrics maps rouge1, rouge2, rougeL and bleu to their scores
	Metrics map[string]float64 `json:"metrics,omitempty"`

	// Message explains a skipped or failed evaluation
	Message string `json:"message,omitempty"`

	// Error contains an error message if Status is "error"
	Error string `json:"error,omitempty"`
}

// ListMethodsRequest defines the input schema for list_methods tool
type ListMethodsRequest struct{}

// MethodDescription describes one summarization method
type MethodDescription struct {
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases"`
	Family      string   `json:"family"`
	External    bool     `json:"external"`
	Available   bool     `json:"available"`
	Description string   `json:"description"`
}

// ListMethodsResponse defines the output schema for list_methods tool
type ListMethodsResponse struct {
	// Status indicates the result of the operation ("success" or "error")
	Status string `json:"status"`

	// Methods lists every known method
	Methods []MethodDescription `json:"methods"`

	// Error contains an error message if Status is "error"
	Error string `json:"error,omitempty"`
}

// HealthRequest defines the input schema for health tool
type HealthRequest struct{}

// HealthResponse defines the output schema for health tool
type HealthResponse struct {
	// Status indicates the result of the operation ("success" or "error")
	Status string `json:"status"`

	// Health is "healthy", "degraded" or "unhealthy"
	Health string `json:"health,omitempty"`

	// Report is the full health report as JSON
	Report string `json:"report,omitempty"`

	// Error contains an error message if Status is "error"
	Error string `json:"error,omitempty"`
}
