package discovery

import (
	"context"

	"cloudwatch-mcp/internal/client"
	"cloudwatch-mcp/internal/constants"
	"cloudwatch-mcp/internal/errs"
	"cloudwatch-mcp/internal/models"
	"cloudwatch-mcp/internal/utils"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// ErrorFilterPattern is the coarse server-side prefilter for recent errors.
// CloudWatch filter terms are case-sensitive, hence the spelled-out variants.
const ErrorFilterPattern = `?"ERROR" ?"Error" ?"error" ?"EXCEPTION" ?"Exception" ?"exception" ?"FAIL" ?"Fail" ?"fail" ?"Traceback"`

// ListLogGroupsArgs represents the input arguments for the list_log_groups
// tool
type ListLogGroupsArgs struct {
	Prefix    string `json:"prefix,omitempty" jsonschema:"Only return groups whose name starts with this prefix"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Maximum groups to return (default: 50)"`
	NextToken string `json:"next_token,omitempty" jsonschema:"Pagination token from a previous call"`
	Region    string `json:"region,omitempty" jsonschema:"AWS region override for this call"`
	Profile   string `json:"profile,omitempty" jsonschema:"AWS shared config profile override for this call"`
}

// NewListLogGroupsHandler creates a handler for the list_log_groups tool.
func NewListLogGroupsHandler(p *client.Provider, log *zap.Logger) func(context.Context, *mcp.CallToolRequest, ListLogGroupsArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args ListLogGroupsArgs) (*mcp.CallToolResult, any, error) {
		api, err := p.Logs(ctx, args.Profile, args.Region)
		if err != nil {
			return utils.ErrorResult(errs.Remotef("aws client: %v", err)), nil, nil
		}
		limit := int32(args.Limit)
		if limit <= 0 {
			limit = constants.DefaultGroupLimit
		}
		list, err := NewService(api, nil).ListGroups(ctx, args.Prefix, limit, args.NextToken)
		if err != nil {
			return utils.ErrorResult(err), nil, nil
		}
		result, err := utils.JSONResult(list)
		if err != nil {
			return utils.ErrorResult(errs.Internalf("%v", err)), nil, nil
		}
		return result, nil, nil
	}
}

// DescribeLogGroupArgs represents the input arguments for the
// describe_log_group tool
type DescribeLogGroupArgs struct {
	LogGroupName string `json:"log_group_name" jsonschema:"The log group to describe"`
	Region       string `json:"region,omitempty" jsonschema:"AWS region override for this call"`
	Profile      string `json:"profile,omitempty" jsonschema:"AWS shared config profile override for this call"`
}

// NewDescribeLogGroupHandler creates a handler for the describe_log_group
// tool.
func NewDescribeLogGroupHandler(p *client.Provider, log *zap.Logger) func(context.Context, *mcp.CallToolRequest, DescribeLogGroupArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args DescribeLogGroupArgs) (*mcp.CallToolResult, any, error) {
		if args.LogGroupName == "" {
			return utils.ErrorResult(errs.Validationf("log_group_name is required")), nil, nil
		}
		logs, err := p.Logs(ctx, args.Profile, args.Region)
		if err != nil {
			return utils.ErrorResult(errs.Remotef("aws client: %v", err)), nil, nil
		}
		metrics, err := p.Metrics(ctx, args.Profile, args.Region)
		if err != nil {
			return utils.ErrorResult(errs.Remotef("aws client: %v", err)), nil, nil
		}
		rng, err := utils.ResolveRange(24, "", "")
		if err != nil {
			return utils.ErrorResult(err), nil, nil
		}
		details, err := NewService(logs, metrics).DescribeGroup(ctx, args.LogGroupName, rng)
		if err != nil {
			return utils.ErrorResult(err), nil, nil
		}
		result, err := utils.JSONResult(details)
		if err != nil {
			return utils.ErrorResult(errs.Internalf("%v", err)), nil, nil
		}
		return result, nil, nil
	}
}

// ListLogStreamsArgs represents the input arguments for the list_log_streams
// tool
type ListLogStreamsArgs struct {
	LogGroupName string `json:"log_group_name" jsonschema:"The log group whose streams to list"`
	Limit        int    `json:"limit,omitempty" jsonschema:"Maximum streams to return (default: 20)"`
	Region       string `json:"region,omitempty" jsonschema:"AWS region override for this call"`
	Profile      string `json:"profile,omitempty" jsonschema:"AWS shared config profile override for this call"`
}

// NewListLogStreamsHandler creates a handler for the list_log_streams tool.
func NewListLogStreamsHandler(p *client.Provider, log *zap.Logger) func(context.Context, *mcp.CallToolRequest, ListLogStreamsArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args ListLogStreamsArgs) (*mcp.CallToolResult, any, error) {
		if args.LogGroupName == "" {
			return utils.ErrorResult(errs.Validationf("log_group_name is required")), nil, nil
		}
		api, err := p.Logs(ctx, args.Profile, args.Region)
		if err != nil {
			return utils.ErrorResult(errs.Remotef("aws client: %v", err)), nil, nil
		}
		limit := int32(args.Limit)
		if limit <= 0 {
			limit = constants.DefaultStreamLimit
		}
		streams, err := NewService(api, nil).ListStreams(ctx, args.LogGroupName, limit)
		if err != nil {
			return utils.ErrorResult(err), nil, nil
		}
		result, err := utils.JSONResult(map[string]any{
			"logGroup":   args.LogGroupName,
			"logStreams": streams,
		})
		if err != nil {
			return utils.ErrorResult(errs.Internalf("%v", err)), nil, nil
		}
		return result, nil, nil
	}
}

// GetLogEventsArgs represents the input arguments for the get_log_events tool
type GetLogEventsArgs struct {
	LogGroupName  string `json:"log_group_name" jsonschema:"The log group containing the stream"`
	LogStreamName string `json:"log_stream_name" jsonschema:"The stream to read events from"`
	Limit         int    `json:"limit,omitempty" jsonschema:"Maximum events to return (default: 100)"`
	Region        string `json:"region,omitempty" jsonschema:"AWS region override for this call"`
	Profile       string `json:"profile,omitempty" jsonschema:"AWS shared config profile override for this call"`
}

// NewGetLogEventsHandler creates a handler for the get_log_events tool.
func NewGetLogEventsHandler(p *client.Provider, log *zap.Logger) func(context.Context, *mcp.CallToolRequest, GetLogEventsArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args GetLogEventsArgs) (*mcp.CallToolResult, any, error) {
		if args.LogGroupName == "" || args.LogStreamName == "" {
			return utils.ErrorResult(errs.Validationf("log_group_name and log_stream_name are required")), nil, nil
		}
		api, err := p.Logs(ctx, args.Profile, args.Region)
		if err != nil {
			return utils.ErrorResult(errs.Remotef("aws client: %v", err)), nil, nil
		}
		limit := int32(args.Limit)
		if limit <= 0 {
			limit = constants.DefaultEventLimit
		}
		events, err := NewService(api, nil).StreamEvents(ctx, args.LogGroupName, args.LogStreamName, limit)
		if err != nil {
			return utils.ErrorResult(err), nil, nil
		}
		result, err := utils.JSONResult(map[string]any{
			"logGroup":   args.LogGroupName,
			"logStream":  args.LogStreamName,
			"eventCount": len(events),
			"events":     eventViews(events),
		})
		if err != nil {
			return utils.ErrorResult(errs.Internalf("%v", err)), nil, nil
		}
		return result, nil, nil
	}
}

// GetLogSampleArgs represents the input arguments for the get_log_sample tool
type GetLogSampleArgs struct {
	LogGroupName string `json:"log_group_name" jsonschema:"The log group to sample"`
	Limit        int    `json:"limit,omitempty" jsonschema:"Maximum events to sample (default: 10)"`
	Region       string `json:"region,omitempty" jsonschema:"AWS region override for this call"`
	Profile      string `json:"profile,omitempty" jsonschema:"AWS shared config profile override for this call"`
}

// NewGetLogSampleHandler creates a handler for the get_log_sample tool.
func NewGetLogSampleHandler(p *client.Provider, log *zap.Logger) func(context.Context, *mcp.CallToolRequest, GetLogSampleArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args GetLogSampleArgs) (*mcp.CallToolResult, any, error) {
		if args.LogGroupName == "" {
			return utils.ErrorResult(errs.Validationf("log_group_name is required")), nil, nil
		}
		api, err := p.Logs(ctx, args.Profile, args.Region)
		if err != nil {
			return utils.ErrorResult(errs.Remotef("aws client: %v", err)), nil, nil
		}
		limit := int32(args.Limit)
		if limit <= 0 {
			limit = constants.DefaultSampleEvents
		}
		sample, err := NewService(api, nil).RecentSample(ctx, args.LogGroupName, limit)
		if err != nil {
			return utils.ErrorResult(err), nil, nil
		}
		result, err := utils.JSONResult(map[string]any{
			"logGroup":   sample.LogGroup,
			"logStream":  sample.LogStream,
			"eventCount": len(sample.Events),
			"events":     eventViews(sample.Events),
		})
		if err != nil {
			return utils.ErrorResult(errs.Internalf("%v", err)), nil, nil
		}
		return result, nil, nil
	}
}

// GetRecentErrorsArgs represents the input arguments for the
// get_recent_errors tool
type GetRecentErrorsArgs struct {
	LogGroupName string  `json:"log_group_name" jsonschema:"The log group to scan for errors"`
	Hours        float64 `json:"hours,omitempty" jsonschema:"Number of hours to look back from now (default: 24)"`
	StartTime    string  `json:"start_time,omitempty" jsonschema:"Start time in RFC 3339 format; requires end_time"`
	EndTime      string  `json:"end_time,omitempty" jsonschema:"End time in RFC 3339 format; requires start_time"`
	Limit        int     `json:"limit,omitempty" jsonschema:"Maximum events to return (default: 100)"`
	Region       string  `json:"region,omitempty" jsonschema:"AWS region override for this call"`
	Profile      string  `json:"profile,omitempty" jsonschema:"AWS shared config profile override for this call"`
}

// NewGetRecentErrorsHandler creates a handler for the get_recent_errors tool.
func NewGetRecentErrorsHandler(p *client.Provider, log *zap.Logger) func(context.Context, *mcp.CallToolRequest, GetRecentErrorsArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args GetRecentErrorsArgs) (*mcp.CallToolResult, any, error) {
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
		records, err := NewService(api, nil).FetchFiltered(ctx, args.LogGroupName, ErrorFilterPattern, rng, limit)
		if err != nil {
			return utils.ErrorResult(err), nil, nil
		}
		result, err := utils.JSONResult(map[string]any{
			"logGroup":   args.LogGroupName,
			"timeRange":  rng.Describe(),
			"errorCount": len(records),
			"errors":     eventViews(records),
		})
		if err != nil {
			return utils.ErrorResult(errs.Internalf("%v", err)), nil, nil
		}
		return result, nil, nil
	}
}

// GetLogMetricsArgs represents the input arguments for the get_log_metrics
// tool
type GetLogMetricsArgs struct {
	LogGroupName string  `json:"log_group_name" jsonschema:"The log group whose ingest metrics to fetch"`
	Hours        float64 `json:"hours,omitempty" jsonschema:"Number of hours to look back from now (default: 24)"`
	StartTime    string  `json:"start_time,omitempty" jsonschema:"Start time in RFC 3339 format; requires end_time"`
	EndTime      string  `json:"end_time,omitempty" jsonschema:"End time in RFC 3339 format; requires start_time"`
	Region       string  `json:"region,omitempty" jsonschema:"AWS region override for this call"`
	Profile      string  `json:"profile,omitempty" jsonschema:"AWS shared config profile override for this call"`
}

// NewGetLogMetricsHandler creates a handler for the get_log_metrics tool.
func NewGetLogMetricsHandler(p *client.Provider, log *zap.Logger) func(context.Context, *mcp.CallToolRequest, GetLogMetricsArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args GetLogMetricsArgs) (*mcp.CallToolResult, any, error) {
		if args.LogGroupName == "" {
			return utils.ErrorResult(errs.Validationf("log_group_name is required")), nil, nil
		}
		rng, err := utils.ResolveRange(args.Hours, args.StartTime, args.EndTime)
		if err != nil {
			return utils.ErrorResult(err), nil, nil
		}
		logs, err := p.Logs(ctx, args.Profile, args.Region)
		if err != nil {
			return utils.ErrorResult(errs.Remotef("aws client: %v", err)), nil, nil
		}
		metrics, err := p.Metrics(ctx, args.Profile, args.Region)
		if err != nil {
			return utils.ErrorResult(errs.Remotef("aws client: %v", err)), nil, nil
		}
		vm, err := NewService(logs, metrics).VolumeMetrics(ctx, args.LogGroupName, rng)
		if err != nil {
			return utils.ErrorResult(err), nil, nil
		}
		result, err := utils.JSONResult(map[string]any{
			"timeRange": rng.Describe(),
			"metrics":   vm,
		})
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

func eventViews(records []models.LogRecord) []eventView {
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
