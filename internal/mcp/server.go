// Package mcp exposes the per-user document index over the Model Context
// Protocol on stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/linkbase/internal/bot"
	"github.com/ziadkadry99/linkbase/internal/rag"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes document search and ingestion
// tools.
type Server struct {
	registry *rag.Registry
	bot      *bot.Router
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(registry *rag.Registry, botRouter *bot.Router) *Server {
	s := &Server{
		registry: registry,
		bot:      botRouter,
	}

	s.mcp = server.NewMCPServer(
		"linkbase",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchDocumentsTool, s.handleSearchDocuments)
	s.mcp.AddTool(listDocumentsTool, s.handleListDocuments)
	s.mcp.AddTool(addLinkTool, s.handleAddLink)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
