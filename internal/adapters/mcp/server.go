package mcpadapter

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/kirillkom/framework-progress/internal/core/ports"
)

const serverName = "framework-progress"

// NewServer registers the dashboard tools on a fresh MCP server.
func NewServer(version string, dashboards ports.DashboardService) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	progressTool := NewProgressTool(dashboards)
	s.AddTool(progressTool.Definition(), progressTool.Handle)

	return s
}
