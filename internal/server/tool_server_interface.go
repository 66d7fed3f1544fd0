// Package server provides the MCP tool server of the summarization service.
package server

// ToolServer defines the interface for the MCP server that handles
// summarization tool calls from MCP clients.
type ToolServer interface {
	// Initialize registers the tools.
	Initialize() error

	// Start serves MCP requests on stdio until stdin is closed.
	Start() error

	// Stop gracefully shuts down the MCP server.
	Stop() error
}
