// Package testutil provides an in-memory CloudWatch backend and small test
// helpers shared across packages.
package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/google/uuid"
)

// QueryScript describes how the fake behaves for one submitted query.
type QueryScript struct {
	// StartErr fails StartQuery outright.
	StartErr error
	// PollErrs are returned by GetQueryResults, one per call, before any
	// status from Statuses is served.
	PollErrs []error
	// Statuses are served one per poll; the last one repeats forever.
	// Empty means Running forever, which exercises the wait budget.
	Statuses []types.QueryStatus
	// Rows are returned once the query reports Complete.
	Rows [][]types.ResultField
	// Stats accompany the Complete response.
	Stats *types.QueryStatistics
}

type queryRun struct {
	script *QueryScript
	polls  int
}

// Fake is an in-memory CloudWatch Logs and metrics backend. Scripts are keyed
// by the first log group of the StartQuery call; Default applies when no
// script matches. The zero value is usable.
type Fake struct {
	mu sync.Mutex

	Scripts map[string]*QueryScript
	Default *QueryScript

	// FilteredEvents feed FilterLogEvents, keyed by log group.
	FilteredEvents map[string][]types.FilteredLogEvent
	// FilterErrs fail FilterLogEvents for a group.
	FilterErrs map[string]error
	// PageSize splits FilterLogEvents responses into pages when positive.
	PageSize int

	LogGroups []types.LogGroup
	// LogStreams is keyed by log group.
	LogStreams map[string][]types.LogStream
	// StreamEvents is keyed by "group/stream".
	StreamEvents map[string][]types.OutputLogEvent
	// Datapoints is keyed by metric name.
	Datapoints map[string][]cwtypes.Datapoint

	// Stopped records query IDs passed to StopQuery.
	Stopped []string

	runs map[string]*queryRun
}

// Row builds one Insights result row from field/value pairs.
func Row(pairs ...string) []types.ResultField {
	row := make([]types.ResultField, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		row = append(row, types.ResultField{
			Field: aws.String(pairs[i]),
			Value: aws.String(pairs[i+1]),
		})
	}
	return row
}

// Event builds one filtered log event.
func Event(stream string, ts int64, msg string) types.FilteredLogEvent {
	return types.FilteredLogEvent{
		LogStreamName: aws.String(stream),
		Timestamp:     aws.Int64(ts),
		Message:       aws.String(msg),
	}
}

func (f *Fake) script(group string) *QueryScript {
	if s, ok := f.Scripts[group]; ok {
		return s
	}
	if f.Default != nil {
		return f.Default
	}
	return &QueryScript{Statuses: []types.QueryStatus{types.QueryStatusComplete}}
}

// StartQuery registers a run for the script matching the first log group.
func (f *Fake) StartQuery(ctx context.Context, params *cloudwatchlogs.StartQueryInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.StartQueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var group string
	if len(params.LogGroupNames) > 0 {
		group = params.LogGroupNames[0]
	}
	s := f.script(group)
	if s.StartErr != nil {
		return nil, s.StartErr
	}
	id := uuid.NewString()
	if f.runs == nil {
		f.runs = map[string]*queryRun{}
	}
	f.runs[id] = &queryRun{script: s}
	return &cloudwatchlogs.StartQueryOutput{QueryId: aws.String(id)}, nil
}

// GetQueryResults serves the run's scripted errors, then statuses.
func (f *Fake) GetQueryResults(ctx context.Context, params *cloudwatchlogs.GetQueryResultsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.GetQueryResultsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	run, ok := f.runs[aws.ToString(params.QueryId)]
	if !ok {
		return nil, &types.ResourceNotFoundException{Message: aws.String("unknown query")}
	}
	poll := run.polls
	run.polls++

	s := run.script
	if poll < len(s.PollErrs) {
		return nil, s.PollErrs[poll]
	}
	poll -= len(s.PollErrs)

	if len(s.Statuses) == 0 {
		return &cloudwatchlogs.GetQueryResultsOutput{Status: types.QueryStatusRunning}, nil
	}
	if poll >= len(s.Statuses) {
		poll = len(s.Statuses) - 1
	}
	status := s.Statuses[poll]
	out := &cloudwatchlogs.GetQueryResultsOutput{Status: status}
	if status == types.QueryStatusComplete {
		out.Results = s.Rows
		out.Statistics = s.Stats
	}
	return out, nil
}

// StopQuery records the cancellation.
func (f *Fake) StopQuery(ctx context.Context, params *cloudwatchlogs.StopQueryInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.StopQueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Stopped = append(f.Stopped, aws.ToString(params.QueryId))
	return &cloudwatchlogs.StopQueryOutput{}, nil
}

// StoppedQueries returns a copy of the recorded StopQuery IDs.
func (f *Fake) StoppedQueries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Stopped...)
}

// FilterLogEvents serves the group's canned events, applying the time range,
// a substring interpretation of the filter pattern, and optional paging.
func (f *Fake) FilterLogEvents(ctx context.Context, params *cloudwatchlogs.FilterLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.FilterLogEventsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	group := aws.ToString(params.LogGroupName)
	if err := f.FilterErrs[group]; err != nil {
		return nil, err
	}

	var matched []types.FilteredLogEvent
	for _, e := range f.FilteredEvents[group] {
		ts := aws.ToInt64(e.Timestamp)
		if params.StartTime != nil && ts < *params.StartTime {
			continue
		}
		if params.EndTime != nil && ts > *params.EndTime {
			continue
		}
		if !matchesPattern(aws.ToString(params.FilterPattern), aws.ToString(e.Message)) {
			continue
		}
		matched = append(matched, e)
	}

	start := 0
	if params.NextToken != nil {
		start = parseOffset(aws.ToString(params.NextToken))
	}
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if f.PageSize > 0 && start+f.PageSize < end {
		end = start + f.PageSize
	}

	out := &cloudwatchlogs.FilterLogEventsOutput{Events: matched[start:end]}
	if end < len(matched) {
		out.NextToken = aws.String(offsetToken(end))
	}
	return out, nil
}

// matchesPattern approximates CloudWatch filter semantics closely enough for
// tests: quoted terms match as substrings, "?" terms OR together, and JSON
// field conditions fall back to matching the raw value.
func matchesPattern(pattern, msg string) bool {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return true
	}
	if strings.HasPrefix(pattern, "{") {
		if i := strings.Index(pattern, `"`); i >= 0 {
			if j := strings.LastIndex(pattern, `"`); j > i {
				return strings.Contains(msg, pattern[i+1:j])
			}
		}
		return false
	}
	terms := strings.Fields(pattern)
	anyOf := false
	for _, term := range terms {
		optional := strings.HasPrefix(term, "?")
		term = strings.Trim(strings.TrimPrefix(term, "?"), `"`)
		if optional {
			anyOf = true
			if strings.Contains(msg, term) {
				return true
			}
			continue
		}
		if !strings.Contains(msg, term) {
			return false
		}
	}
	return !anyOf
}

func offsetToken(n int) string {
	return "offset-" + strings.Repeat("i", n)
}

func parseOffset(token string) int {
	return len(strings.TrimPrefix(token, "offset-"))
}

// DescribeLogGroups serves the canned groups, honoring prefix and limit.
func (f *Fake) DescribeLogGroups(ctx context.Context, params *cloudwatchlogs.DescribeLogGroupsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeLogGroupsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var groups []types.LogGroup
	prefix := aws.ToString(params.LogGroupNamePrefix)
	for _, g := range f.LogGroups {
		if prefix != "" && !strings.HasPrefix(aws.ToString(g.LogGroupName), prefix) {
			continue
		}
		groups = append(groups, g)
	}

	out := &cloudwatchlogs.DescribeLogGroupsOutput{}
	limit := len(groups)
	if params.Limit != nil && int(*params.Limit) < limit {
		limit = int(*params.Limit)
		out.NextToken = aws.String("more")
	}
	out.LogGroups = groups[:limit]
	return out, nil
}

// DescribeLogStreams serves the group's canned streams.
func (f *Fake) DescribeLogStreams(ctx context.Context, params *cloudwatchlogs.DescribeLogStreamsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeLogStreamsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	streams := f.LogStreams[aws.ToString(params.LogGroupName)]
	if params.Limit != nil && int(*params.Limit) < len(streams) {
		streams = streams[:*params.Limit]
	}
	return &cloudwatchlogs.DescribeLogStreamsOutput{LogStreams: streams}, nil
}

// GetLogEvents serves the stream's canned events.
func (f *Fake) GetLogEvents(ctx context.Context, params *cloudwatchlogs.GetLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.GetLogEventsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := aws.ToString(params.LogGroupName) + "/" + aws.ToString(params.LogStreamName)
	events := f.StreamEvents[key]
	if params.Limit != nil && int(*params.Limit) < len(events) {
		events = events[len(events)-int(*params.Limit):]
	}
	return &cloudwatchlogs.GetLogEventsOutput{Events: events}, nil
}

// GetMetricStatistics serves the canned datapoints for the requested metric.
func (f *Fake) GetMetricStatistics(ctx context.Context, params *cloudwatch.GetMetricStatisticsInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.GetMetricStatisticsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return &cloudwatch.GetMetricStatisticsOutput{
		Datapoints: f.Datapoints[aws.ToString(params.MetricName)],
	}, nil
}
