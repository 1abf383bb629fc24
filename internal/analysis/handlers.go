package analysis

import (
	"context"
	"strings"

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

// SummarizeLogActivityArgs represents the input arguments for the
// summarize_log_activity tool
type SummarizeLogActivityArgs struct {
	LogGroupName string  `json:"log_group_name" jsonschema:"The log group to summarize"`
	Hours        float64 `json:"hours,omitempty" jsonschema:"Number of hours to look back from now (default: 24)"`
	StartTime    string  `json:"start_time,omitempty" jsonschema:"Start time in RFC 3339 format; requires end_time"`
	EndTime      string  `json:"end_time,omitempty" jsonschema:"End time in RFC 3339 format; requires start_time"`
	Region       string  `json:"region,omitempty" jsonschema:"AWS region override for this call"`
	Profile      string  `json:"profile,omitempty" jsonschema:"AWS shared config profile override for this call"`
}

// NewSummarizeLogActivityHandler creates a handler for the
// summarize_log_activity tool.
func NewSummarizeLogActivityHandler(p *client.Provider, cfg models.Config, log *zap.Logger) func(context.Context, *mcp.CallToolRequest, SummarizeLogActivityArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args SummarizeLogActivityArgs) (*mcp.CallToolResult, any, error) {
		rng, err := utils.ResolveRange(args.Hours, args.StartTime, args.EndTime)
		if err != nil {
			return utils.ErrorResult(err), nil, nil
		}
		api, err := p.Logs(ctx, args.Profile, args.Region)
		if err != nil {
			return utils.ErrorResult(errs.Remotef("aws client: %v", err)), nil, nil
		}

		summarizer := NewSummarizer(query.NewFromConfig(api, cfg, log))
		summary, err := summarizer.Summarize(ctx, args.LogGroupName, rng)
		if err != nil {
			return utils.ErrorResult(err), nil, nil
		}

		result, err := utils.JSONResult(summary)
		if err != nil {
			return utils.ErrorResult(errs.Internalf("%v", err)), nil, nil
		}
		return result, nil, nil
	}
}

// FindErrorPatternsArgs represents the input arguments for the
// find_error_patterns tool
type FindErrorPatternsArgs struct {
	LogGroupName string   `json:"log_group_name" jsonschema:"The log group to scan for error patterns"`
	Hours        float64  `json:"hours,omitempty" jsonschema:"Number of hours to look back from now (default: 24)"`
	StartTime    string   `json:"start_time,omitempty" jsonschema:"Start time in RFC 3339 format; requires end_time"`
	EndTime      string   `json:"end_time,omitempty" jsonschema:"End time in RFC 3339 format; requires start_time"`
	Markers      []string `json:"markers,omitempty" jsonschema:"Substrings that flag a record as an error (default: error, exception, fail, traceback)"`
	MaxPatterns  int      `json:"max_patterns,omitempty" jsonschema:"Maximum templates to return (default: 20)"`
	Region       string   `json:"region,omitempty" jsonschema:"AWS region override for this call"`
	Profile      string   `json:"profile,omitempty" jsonschema:"AWS shared config profile override for this call"`
}

// NewFindErrorPatternsHandler creates a handler for the find_error_patterns
// tool.
func NewFindErrorPatternsHandler(p *client.Provider, cfg models.Config, log *zap.Logger) func(context.Context, *mcp.CallToolRequest, FindErrorPatternsArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args FindErrorPatternsArgs) (*mcp.CallToolResult, any, error) {
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

		markers := args.Markers
		if len(markers) == 0 {
			markers = DefaultErrorMarkers
		}
		svc := discovery.NewService(api, nil)
		records, err := svc.FetchFiltered(ctx, args.LogGroupName, markerFilterPattern(markers), rng, constants.DefaultQueryLimit)
		if err != nil {
			return utils.ErrorResult(err), nil, nil
		}
		patterns := DetectPatterns(records, markers, args.MaxPatterns)

		result, err := utils.JSONResult(map[string]any{
			"logGroup":     args.LogGroupName,
			"timeRange":    rng.Describe(),
			"scannedCount": len(records),
			"patternCount": len(patterns),
			"patterns":     patterns,
		})
		if err != nil {
			return utils.ErrorResult(errs.Internalf("%v", err)), nil, nil
		}
		return result, nil, nil
	}
}

// markerFilterPattern builds a coarse server-side prefilter from the markers.
// CloudWatch filter terms are case-sensitive, so each marker is expanded to
// its lower, capitalized, and upper spellings; DetectPatterns re-checks the
// fetched records case-insensitively.
func markerFilterPattern(markers []string) string {
	terms := make([]string, 0, len(markers)*3)
	seen := map[string]struct{}{}
	add := func(t string) {
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		terms = append(terms, "?"+discovery.QuoteFilterPattern(t))
	}
	for _, m := range markers {
		if m == "" {
			continue
		}
		lower := strings.ToLower(m)
		add(lower)
		add(strings.ToUpper(lower[:1]) + lower[1:])
		add(strings.ToUpper(lower))
	}
	return strings.Join(terms, " ")
}

// AnalyzeLogStructureArgs represents the input arguments for the
// analyze_log_structure tool
type AnalyzeLogStructureArgs struct {
	LogGroupName string `json:"log_group_name" jsonschema:"The log group to analyze"`
	SampleSize   int    `json:"sample_size,omitempty" jsonschema:"Number of recent records to sample (default: 50)"`
	Region       string `json:"region,omitempty" jsonschema:"AWS region override for this call"`
	Profile      string `json:"profile,omitempty" jsonschema:"AWS shared config profile override for this call"`
}

// NewAnalyzeLogStructureHandler creates a handler for the
// analyze_log_structure tool.
func NewAnalyzeLogStructureHandler(p *client.Provider, cfg models.Config, log *zap.Logger) func(context.Context, *mcp.CallToolRequest, AnalyzeLogStructureArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args AnalyzeLogStructureArgs) (*mcp.CallToolResult, any, error) {
		if args.LogGroupName == "" {
			return utils.ErrorResult(errs.Validationf("log_group_name is required")), nil, nil
		}
		api, err := p.Logs(ctx, args.Profile, args.Region)
		if err != nil {
			return utils.ErrorResult(errs.Remotef("aws client: %v", err)), nil, nil
		}

		sampleSize := int32(args.SampleSize)
		if sampleSize <= 0 {
			sampleSize = constants.DefaultSampleSize
		}
		sample, err := discovery.NewService(api, nil).RecentSample(ctx, args.LogGroupName, sampleSize)
		if err != nil {
			return utils.ErrorResult(err), nil, nil
		}
		report := AnalyzeStructure(sample.Events, 5)

		result, err := utils.JSONResult(map[string]any{
			"logGroup":  args.LogGroupName,
			"logStream": sample.LogStream,
			"structure": report,
		})
		if err != nil {
			return utils.ErrorResult(errs.Internalf("%v", err)), nil, nil
		}
		return result, nil, nil
	}
}
