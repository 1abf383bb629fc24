package correlation

import (
	"context"

	"cloudwatch-mcp/internal/client"
	"cloudwatch-mcp/internal/discovery"
	"cloudwatch-mcp/internal/errs"
	"cloudwatch-mcp/internal/models"
	"cloudwatch-mcp/internal/utils"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// CorrelateLogsArgs represents the input arguments for the correlate_logs tool
type CorrelateLogsArgs struct {
	LogGroupNames []string `json:"log_group_names" jsonschema:"Log groups to correlate across; at least 2 distinct groups"`
	SearchTerm    string   `json:"search_term" jsonschema:"Token to correlate on, e.g. a request ID, or a structured condition like requestId: abc-123"`
	Hours         float64  `json:"hours,omitempty" jsonschema:"Number of hours to look back from now (default: 24)"`
	StartTime     string   `json:"start_time,omitempty" jsonschema:"Start time in RFC 3339 format; requires end_time"`
	EndTime       string   `json:"end_time,omitempty" jsonschema:"End time in RFC 3339 format; requires start_time"`
	Region        string   `json:"region,omitempty" jsonschema:"AWS region override for this call"`
	Profile       string   `json:"profile,omitempty" jsonschema:"AWS shared config profile override for this call"`
}

// NewCorrelateLogsHandler creates a handler for the correlate_logs tool.
func NewCorrelateLogsHandler(p *client.Provider, cfg models.Config, log *zap.Logger) func(context.Context, *mcp.CallToolRequest, CorrelateLogsArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args CorrelateLogsArgs) (*mcp.CallToolResult, any, error) {
		rng, err := utils.ResolveRange(args.Hours, args.StartTime, args.EndTime)
		if err != nil {
			return utils.ErrorResult(err), nil, nil
		}
		api, err := p.Logs(ctx, args.Profile, args.Region)
		if err != nil {
			return utils.ErrorResult(errs.Remotef("aws client: %v", err)), nil, nil
		}

		engine := NewEngine(discovery.NewService(api, nil), log, cfg.MaxConcurrency)
		res, err := engine.Correlate(ctx, args.LogGroupNames, args.SearchTerm, rng)
		if err != nil {
			return utils.ErrorResult(err), nil, nil
		}

		timeline := make([]map[string]any, 0, len(res.Matches))
		for _, rec := range res.Matches {
			entry := map[string]any{
				"timestamp": models.FormatTimestamp(rec.Timestamp),
				"logGroup":  rec.LogGroup,
				"message":   rec.Message,
			}
			if rec.LogStream != "" {
				entry["logStreamName"] = rec.LogStream
			}
			timeline = append(timeline, entry)
		}

		result, err := utils.JSONResult(map[string]any{
			"searchTerm":  res.Token,
			"timeRange":   res.Range.Describe(),
			"groupCounts": res.GroupCounts,
			"matchCount":  len(res.Matches),
			"timeline":    timeline,
			"errors":      res.PerGroupErrors,
		})
		if err != nil {
			return utils.ErrorResult(errs.Internalf("%v", err)), nil, nil
		}
		return result, nil, nil
	}
}
