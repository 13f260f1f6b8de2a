// Command pagemapmcp exposes the page-map builder as an MCP server
// over stdio, so an agent runtime can call build_page_map/get_page_map
// directly instead of going through HTTP.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"pagemap"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	impl := &mcp.Implementation{Name: "pagemap", Version: "0.1.0"}
	srv := mcp.NewServer(impl, nil)

	builder := pagemap.New(pagemap.WithLogger(logger))
	builder.RegisterMCP(srv)

	if err := srv.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		logger.Error("mcp server exited", "error", err)
		os.Exit(1)
	}
}
