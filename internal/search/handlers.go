package search

import (
	"context"

	"cloudwatch-mcp/internal/client"
	"cloudwatch-mcp/internal/constants"
	"cloudwatch-mcp/internal/discovery"
	"cloudwatch-mcp/internal/errs"
	"cloudwatch-mcp/internal/models"
	"cloudwatch-mcp/internal/query"
	"cloudwatch-mcp/internal/utils"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// SearchLogsArgs represents the input arguments for the search_logs tool
type SearchLogsArgs struct {
	LogGroupName string  `json:"log_group_name" jsonschema:"The log group to search"`
	Query        string  `json:"query" jsonschema:"CloudWatch Logs Insights query syntax"`
	Hours        float64 `json:"hours,omitempty" jsonschema:"Number of hours to look back from now (default: 24)"`
	StartTime    string  `json:"start_time,omitempty" jsonschema:"Start time in RFC 3339 format; requires end_time"`
	EndTime      string  `json:"end_time,omitempty" jsonschema:"End time in RFC 3339 format; requires start_time"`
	Region       string  `json:"region,omitempty" jsonschema:"AWS region override for this call"`
	Profile      string  `json:"profile,omitempty" jsonschema:"AWS shared config profile override for this call"`
}

// NewSearchLogsHandler creates a handler that runs one Insights query
// against a single log group.
func NewSearchLogsHandler(p *client.Provider, cfg models.Config, log *zap.Logger) func(context.Context, *mcp.CallToolRequest, SearchLogsArgs) (*mcp.CallToolResult, any, error) {
	multi := NewSearchLogsMultiHandler(p, cfg, log)
	return func(ctx context.Context, req *mcp.CallToolRequest, args SearchLogsArgs) (*mcp.CallToolResult, any, error) {
		if args.LogGroupName == "" {
			return utils.ErrorResult(errs.Validationf("log_group_name is required")), nil, nil
		}
		return multi(ctx, req, SearchLogsMultiArgs{
			LogGroupNames: []string{args.LogGroupName},
			Query:         args.Query,
			Hours:         args.Hours,
			StartTime:     args.StartTime,
			EndTime:       args.EndTime,
			Region:        args.Region,
			Profile:       args.Profile,
		})
	}
}

// SearchLogsMultiArgs represents the input arguments for the
// search_logs_multi tool
type SearchLogsMultiArgs struct {
	LogGroupNames  []string `json:"log_group_names" jsonschema:"Log groups to search"`
	Query          string   `json:"query" jsonschema:"CloudWatch Logs Insights query syntax"`
	Hours          float64  `json:"hours,omitempty" jsonschema:"Number of hours to look back from now (default: 24)"`
	StartTime      string   `json:"start_time,omitempty" jsonschema:"Start time in RFC 3339 format; requires end_time"`
	EndTime        string   `json:"end_time,omitempty" jsonschema:"End time in RFC 3339 format; requires start_time"`
	MaxConcurrency int      `json:"max_concurrency,omitempty" jsonschema:"Maximum simultaneous in-flight queries (default: server setting)"`
	SortByTime     bool     `json:"sort_by_time,omitempty" jsonschema:"Sort each group's results by timestamp ascending instead of backend order"`
	Region         string   `json:"region,omitempty" jsonschema:"AWS region override for this call"`
	Profile        string   `json:"profile,omitempty" jsonschema:"AWS shared config profile override for this call"`
}

// NewSearchLogsMultiHandler creates a handler that fans one Insights query
// out across several log groups, returning per-group results and errors.
func NewSearchLogsMultiHandler(p *client.Provider, cfg models.Config, log *zap.Logger) func(context.Context, *mcp.CallToolRequest, SearchLogsMultiArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args SearchLogsMultiArgs) (*mcp.CallToolResult, any, error) {
		rng, err := utils.ResolveRange(args.Hours, args.StartTime, args.EndTime)
		if err != nil {
			return utils.ErrorResult(err), nil, nil
		}
		api, err := p.Logs(ctx, args.Profile, args.Region)
		if err != nil {
			return utils.ErrorResult(errs.Remotef("aws client: %v", err)), nil, nil
		}

		maxConcurrency := args.MaxConcurrency
		if maxConcurrency <= 0 {
			maxConcurrency = cfg.MaxConcurrency
		}
		searcher := NewSearcher(query.NewFromConfig(api, cfg, log), log, maxConcurrency)
		res, err := searcher.Search(ctx, args.LogGroupNames, args.Query, rng, args.SortByTime)
		if err != nil {
			return utils.ErrorResult(err), nil, nil
		}

		result, err := utils.JSONResult(map[string]any{
			"timeRange":         rng.Describe(),
			"searchedLogGroups": args.LogGroupNames,
			"results":           res.Results,
			"errors":            res.Errors,
		})
		if err != nil {
			return utils.ErrorResult(errs.Internalf("%v", err)), nil, nil
		}
		return result, nil, nil
	}
}

// FilterLogEventsArgs represents the input arguments for the
// filter_log_events tool
type FilterLogEventsArgs struct {
	LogGroupName  string  `json:"log_group_name" jsonschema:"The log group to filter"`
	FilterPattern string  `json:"filter_pattern" jsonschema:"CloudWatch Logs filter pattern to match"`
	Hours         float64 `json:"hours,omitempty" jsonschema:"Number of hours to look back from now (default: 24)"`
	StartTime     string  `json:"start_time,omitempty" jsonschema:"Start time in RFC 3339 format; requires end_time"`
	EndTime       string  `json:"end_time,omitempty" jsonschema:"End time in RFC 3339 format; requires start_time"`
	Limit         int     `json:"limit,omitempty" jsonschema:"Maximum events to return (default: 100)"`
	Extract       string  `json:"extract,omitempty" jsonschema:"Optional JMESPath expression evaluated against matched events; returns the first non-empty value"`
	Region        string  `json:"region,omitempty" jsonschema:"AWS region override for this call"`
	Profile       string  `json:"profile,omitempty" jsonschema:"AWS shared config profile override for this call"`
}

// NewFilterLogEventsHandler creates a handler for pattern filtering across
// all streams of a log group, with optional JMESPath value extraction.
func NewFilterLogEventsHandler(p *client.Provider, cfg models.Config, log *zap.Logger) func(context.Context, *mcp.CallToolRequest, FilterLogEventsArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args FilterLogEventsArgs) (*mcp.CallToolResult, any, error) {
		if args.LogGroupName == "" {
			return utils.ErrorResult(errs.Validationf("log_group_name is required")), nil, nil
		}
		rng, err := utils.ResolveRange(args.Hours, args.StartTime, args.EndTime)
		if err != nil {
			return utils.ErrorResult(err), nil, nil
		}
		api, err := p.Logs(ctx, args.Profile, args.Region)
		if err != nil {
			return utils.ErrorResult(errs.Remotef("aws client: %v", err)), nil, nil
		}

		limit := int32(args.Limit)
		if limit <= 0 {
			limit = constants.DefaultEventLimit
		}
		svc := discovery.NewService(api, nil)
		records, err := svc.FetchFiltered(ctx, args.LogGroupName, args.FilterPattern, rng, limit)
		if err != nil {
			return utils.ErrorResult(err), nil, nil
		}

		out := map[string]any{
			"timeRange":  rng.Describe(),
			"logGroup":   args.LogGroupName,
			"eventCount": len(records),
			"events":     formatEvents(records),
		}
		if args.Extract != "" {
			value, found, err := utils.ExtractFirstValue(records, args.Extract)
			if err != nil {
				return utils.ErrorResult(errs.Validationf("extract: %v", err)), nil, nil
			}
			out["extracted"] = map[string]any{"found": found, "value": value}
		}

		result, err := utils.JSONResult(out)
		if err != nil {
			return utils.ErrorResult(errs.Internalf("%v", err)), nil, nil
		}
		return result, nil, nil
	}
}

type eventView struct {
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
	LogStream string `json:"logStreamName,omitempty"`
}

func formatEvents(records []models.LogRecord) []eventView {
	views := make([]eventView, 0, len(records))
	for _, r := range records {
		views = append(views, eventView{
			Timestamp: models.FormatTimestamp(r.Timestamp),
			Message:   r.Message,
			LogStream: r.LogStream,
		})
	}
	return views
}

