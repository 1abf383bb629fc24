package main

import (
	"cloudwatch-mcp/internal/analysis"
	"cloudwatch-mcp/internal/client"
	"cloudwatch-mcp/internal/correlation"
	"cloudwatch-mcp/internal/discovery"
	"cloudwatch-mcp/internal/models"
	"cloudwatch-mcp/internal/search"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// registerAllTools registers all tools with the MCP server
func registerAllTools(server *mcp.Server, p *client.Provider, cfg models.Config, log *zap.Logger) {
	// Discovery tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_log_groups",
		Description: discovery.ListLogGroupsDescription,
	}, discovery.NewListLogGroupsHandler(p, log))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "describe_log_group",
		Description: discovery.DescribeLogGroupDescription,
	}, discovery.NewDescribeLogGroupHandler(p, log))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_log_streams",
		Description: discovery.ListLogStreamsDescription,
	}, discovery.NewListLogStreamsHandler(p, log))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_log_events",
		Description: discovery.GetLogEventsDescription,
	}, discovery.NewGetLogEventsHandler(p, log))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_log_sample",
		Description: discovery.GetLogSampleDescription,
	}, discovery.NewGetLogSampleHandler(p, log))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_recent_errors",
		Description: discovery.GetRecentErrorsDescription,
	}, discovery.NewGetRecentErrorsHandler(p, log))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_log_metrics",
		Description: discovery.GetLogMetricsDescription,
	}, discovery.NewGetLogMetricsHandler(p, log))

	// Search tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_logs",
		Description: search.SearchLogsDescription,
	}, search.NewSearchLogsHandler(p, cfg, log))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_logs_multi",
		Description: search.SearchLogsMultiDescription,
	}, search.NewSearchLogsMultiHandler(p, cfg, log))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "filter_log_events",
		Description: search.FilterLogEventsDescription,
	}, search.NewFilterLogEventsHandler(p, cfg, log))

	// Correlation tool
	mcp.AddTool(server, &mcp.Tool{
		Name:        "correlate_logs",
		Description: correlation.CorrelateLogsDescription,
	}, correlation.NewCorrelateLogsHandler(p, cfg, log))

	// Analysis tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "summarize_log_activity",
		Description: analysis.SummarizeLogActivityDescription,
	}, analysis.NewSummarizeLogActivityHandler(p, cfg, log))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_error_patterns",
		Description: analysis.FindErrorPatternsDescription,
	}, analysis.NewFindErrorPatternsHandler(p, cfg, log))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_log_structure",
		Description: analysis.AnalyzeLogStructureDescription,
	}, analysis.NewAnalyzeLogStructureHandler(p, cfg, log))
}
