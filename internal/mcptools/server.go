package mcptools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer creates an MCP server with the read-only metadata tools
// registered. version is reported to clients as the server version.
func NewServer(svc *Service, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "mdagg",
		Version: version,
	}, nil)

	readOnly := &mcp.ToolAnnotations{ReadOnlyHint: true}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_discovery_names",
		Description: "Find identity providers whose discovery names collide, ignoring case and surrounding whitespace. Returns the clash messages per entity.",
		Annotations: readOnly,
	}, svc.CheckNames)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "preview_discovery_renames",
		Description: "List the discovery names that collision avoidance would rewrite, without writing any output. Reports an abort if the home federation's own names are not unique.",
		Annotations: readOnly,
	}, svc.PreviewRenames)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "summarize_run",
		Description: "Dry-run the configured pipeline and return its plain-text summary and totals.",
		Annotations: readOnly,
	}, svc.SummarizeRun)

	return server
}

// RunStdio runs the server on stdio, blocking until stdin is closed or the
// context is cancelled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}
