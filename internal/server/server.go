package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/localrivet/gomcp/server"
	"github.com/localrivet/textsummary/internal/errortypes"
	"github.com/localrivet/textsummary/internal/evaluate"
	"github.com/localrivet/textsummary/internal/summarizer"
	"github.com/localrivet/textsummary/internal/tools"
)

// Engine is the summarization surface exposed as MCP tools.
type Engine interface {
	Summarize(ctx context.Context, req summarizer.Request) ([]string, error)
	Evaluate(candidate, reference string) evaluate.Metrics
	Methods() []summarizer.MethodStatus
	Health() (*summarizer.HealthReport, error)
}

// MCPToolServer implements the ToolServer interface for the summarization
// tools.
type MCPToolServer struct {
	engine    Engine
	logger    *slog.Logger
	mcpServer server.Server
}

// NewToolServer creates a new MCPToolServer instance. A nil logger uses
// slog.Default().
func NewToolServer(engine Engine, logger *slog.Logger) *MCPToolServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &MCPToolServer{
		engine: engine,
		logger: logger.With("component", "mcp_server"),
	}
}

// Initialize initializes the server with dependencies and configurations.
func (s *MCPToolServer) Initialize() error {
	s.logger.Info("Initializing MCP summarization tool server")

	if s.engine == nil {
		return errortypes.ConfigError(errors.New("missing dependencies"), "server initialization failed")
	}

	srv := server.NewServer("textsummary")

	srv = srv.Tool(tools.ToolSummarize, "Summarize a text with an extractive or abstractive method",
		s.handleSummarize)

	srv = srv.Tool(tools.ToolEvaluate, "Score a candidate summary against a reference with ROUGE and BLEU",
		s.handleEvaluate)

	srv = srv.Tool(tools.ToolListMethods, "List the available summarization methods",
		s.handleListMethods)

	srv = srv.Tool(tools.ToolHealth, "Report the health of the summarization engine",
		s.handleHealth)

	s.mcpServer = srv
	s.logger.Info("MCP summarization tool server initialized successfully", "tool_count", 4)
	return nil
}

// Start starts the MCP server on the stdio transport.
func (s *MCPToolServer) Start() error {
	if s.mcpServer == nil {
		return errortypes.ConfigError(errors.New("server not initialized"), "cannot start server")
	}

	s.logger.Info("Starting MCP summarization tool server")
	return s.mcpServer.AsStdio().Run()
}

// Stop gracefully shuts down the MCP server.
func (s *MCPToolServer) Stop() error {
	s.logger.Info("Stopping MCP summarization tool server")
	// The server will exit when stdin is closed
	return nil
}

// handleSummarize handles the summarize MCP tool call.
func (s *MCPToolServer) handleSummarize(ctx *server.Context, req tools.SummarizeRequest) (tools.SummarizeResponse, error) {
	method := strings.TrimSpace(req.Method)
	if method == "" {
		method = tools.DefaultMethod
	}
	s.logger.Info("Processing summarize request", "method", method, "text_length", len(req.Text))

	response := tools.SummarizeResponse{
		Status:  tools.StatusSuccess,
		Summary: []string{},
	}

	summary, err := s.engine.Summarize(context.Background(), summarizer.Request{
		Text:    req.Text,
		Method:  method,
		Options: summarizer.OptionsFromInput(req.NumSentences, req.MaxLength, req.MinLength),
	})
	if err != nil {
		errortypes.LogError(s.logger, err)
		response.Status = tools.StatusError
		response.Error = err.Error()
		response.Code = ErrorCode(err)
		return response, nil
	}

	if info, err := summarizer.Lookup(method); err == nil {
		response.Method = info.Name
	}
	response.Summary = summary
	s.logger.Info("Successfully summarized text", "method", response.Method, "sentences", len(summary))
	return response, nil
}

// handleEvaluate handles the evaluate MCP tool call.
func (s *MCPToolServer) handleEvaluate(ctx *server.Context, req tools.EvaluateRequest) (tools.EvaluateResponse, error) {
	s.logger.Info("Processing evaluate request",
		"candidate_length", len(req.Candidate), "reference_length", len(req.Reference))

	metrics := s.engine.Evaluate(req.Candidate, req.Reference)
	response := tools.EvaluateResponse{
		Status:           tools.StatusSuccess,
		EvaluationStatus: string(metrics.Status),
		Metrics:          metrics.Scores(),
		Message:          metrics.Message,
	}
	if metrics.Status == evaluate.StatusError {
		response.Status = tools.StatusError
		response.Error = metrics.Message
	}
	return response, nil
}

// handleListMethods handles the list_methods MCP tool call.
func (s *MCPToolServer) handleListMethods(ctx *server.Context, req tools.ListMethodsRequest) (tools.ListMethodsResponse, error) {
	s.logger.Debug("Processing list_methods request")

	methods := s.engine.Methods()
	response := tools.ListMethodsResponse{
		Status:  tools.StatusSuccess,
		Methods: make([]tools.MethodDescription, 0, len(methods)),
	}
	for _, m := range methods {
		response.Methods = append(response.Methods, tools.MethodDescription{
			Name:        m.Name,
			Aliases:     m.Aliases,
			Family:      string(m.Family),
			External:    m.External,
			Available:   m.Available,
			Description: m.Description,
		})
	}
	return response, nil
}

// handleHealth handles the health MCP tool call.
func (s *MCPToolServer) handleHealth(ctx *server.Context, req tools.HealthRequest) (tools.HealthResponse, error) {
	s.logger.Debug("Processing health request")

	report, err := s.engine.Health()
	if err == nil {
		var data []byte
		data, err = json.MarshalIndent(report, "", "  ")
		if err == nil {
			return tools.HealthResponse{
				Status: tools.StatusSuccess,
				Health: string(report.Status),
				Report: string(data),
			}, nil
		}
	}

	err = errortypes.InternalError(err, "failed to create health report")
	errortypes.LogError(s.logger, err)
	return tools.HealthResponse{Status: tools.StatusError, Error: err.Error()}, nil
}
