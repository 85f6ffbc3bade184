package mcpadapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kirillkom/framework-progress/internal/core/domain"
	"github.com/kirillkom/framework-progress/internal/core/ports"
	"github.com/kirillkom/framework-progress/internal/core/progress"
)

// ProgressTool handles the framework_progress MCP tool.
type ProgressTool struct {
	dashboards ports.DashboardService
}

func NewProgressTool(dashboards ports.DashboardService) *ProgressTool {
	return &ProgressTool{dashboards: dashboards}
}

func (t *ProgressTool) Definition() mcp.Tool {
	return mcp.NewTool("framework_progress",
		mcp.WithDescription(
			"Summarize compliance framework progress for a project: completion and assignment "+
				"percentages for clauses and annexes, plus the status breakdown of every framework attached to it.",
		),
		mcp.WithNumber("project_id",
			mcp.Required(),
			mcp.Description("Numeric id of the project whose frameworks should be summarized."),
		),
	)
}

func (t *ProgressTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := req.GetFloat("project_id", 0)
	projectID := int(raw)
	if projectID <= 0 || float64(projectID) != raw {
		return mcp.NewToolResultError("project_id must be a positive integer"), nil
	}

	dashboard, err := t.dashboards.BuildDashboard(ctx, projectID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build dashboard: %v", err)), nil
	}

	return mcp.NewToolResultText(renderDashboard(dashboard)), nil
}

func renderDashboard(d *domain.Dashboard) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Framework progress for project %d\n", d.ProjectID))

	if len(d.Cards) == 0 {
		sb.WriteString("\nNo frameworks are attached to this project.\n")
		return sb.String()
	}

	for _, card := range d.Cards {
		p := card.Progress
		sb.WriteString(fmt.Sprintf("\n### %s\n\n", frameworkTitle(p.Framework)))

		if card.State.Rendered() != domain.CardPopulated {
			sb.WriteString("No data available.\n")
			continue
		}

		sb.WriteString(fmt.Sprintf("- **%s**: %d/%d done (%d%%), %d%% assigned\n",
			card.Terminology.Clauses, p.ClauseProgress.Done, p.ClauseProgress.Total,
			p.ClauseRatios.CompletionPct, p.ClauseRatios.AssignmentPct))
		for _, fn := range p.Functions {
			sb.WriteString(fmt.Sprintf("  - %s: %d/%d done (%d%%), %d assigned\n",
				fn.Function, fn.Done, fn.Total, progress.Percent(fn.Done, fn.Total), fn.Assigned))
		}

		// Families without annexes (NIST AI RMF) carry no annex label.
		if card.Terminology.Annexes != "" {
			sb.WriteString(fmt.Sprintf("- **%s**: %d/%d done (%d%%), %d%% assigned\n",
				card.Terminology.Annexes, p.AnnexProgress.Done, p.AnnexProgress.Total,
				p.AnnexRatios.CompletionPct, p.AnnexRatios.AssignmentPct))
		}

		parts := make([]string, 0, len(domain.StatusBuckets))
		for _, bucket := range domain.StatusBuckets {
			parts = append(parts, fmt.Sprintf("%s %d", bucket, p.StatusBreakdown[bucket]))
		}
		label := "Status"
		if p.BreakdownApproximated {
			label = "Status (approximated)"
		}
		sb.WriteString(fmt.Sprintf("- **%s**: %s\n", label, strings.Join(parts, ", ")))
	}

	return sb.String()
}

func frameworkTitle(f domain.FrameworkInstance) string {
	name := strings.TrimSpace(f.FrameworkName)
	if name == "" {
		name = fmt.Sprintf("Framework %d", f.FrameworkID)
	}
	return name
}
