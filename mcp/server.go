// Package mcp exposes the agent client as a set of Model Context Protocol
// tools over the stdio transport. Responses go to stdout and logs to stderr,
// so the two streams never mix.
package mcp

import (
	"context"
	"io"

	"github.com/mark3labs/mcp-go/server"
)

// NewServer builds the MCP server with the full tool set bound to client.
func NewServer(client Client) *server.MCPServer {
	srv := server.NewMCPServer("twitter-agent", "1.0.0",
		server.WithToolCapabilities(false),
	)
	registerTools(srv, client)
	return srv
}

// Serve reads requests from in until EOF or ctx cancellation. Tool calls run
// sequentially; the underlying browser session is single-threaded anyway.
func Serve(ctx context.Context, srv *server.MCPServer, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(srv).Listen(ctx, in, out)
}
