package client

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"golang.org/x/time/rate"
)

// throttledLogs wraps a LogsAPI with a shared client-side rate limiter so
// fan-out calls don't trip backend per-account throttling.
type throttledLogs struct {
	api     LogsAPI
	limiter *rate.Limiter
}

// ThrottleLogs returns a rate-limited view of api. A nil limiter returns api
// unchanged.
func ThrottleLogs(api LogsAPI, limiter *rate.Limiter) LogsAPI {
	if limiter == nil {
		return api
	}
	return &throttledLogs{api: api, limiter: limiter}
}

func (t *throttledLogs) StartQuery(ctx context.Context, params *cloudwatchlogs.StartQueryInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.StartQueryOutput, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return t.api.StartQuery(ctx, params, optFns...)
}

func (t *throttledLogs) GetQueryResults(ctx context.Context, params *cloudwatchlogs.GetQueryResultsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.GetQueryResultsOutput, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return t.api.GetQueryResults(ctx, params, optFns...)
}

func (t *throttledLogs) StopQuery(ctx context.Context, params *cloudwatchlogs.StopQueryInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.StopQueryOutput, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return t.api.StopQuery(ctx, params, optFns...)
}

func (t *throttledLogs) FilterLogEvents(ctx context.Context, params *cloudwatchlogs.FilterLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.FilterLogEventsOutput, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return t.api.FilterLogEvents(ctx, params, optFns...)
}

func (t *throttledLogs) DescribeLogGroups(ctx context.Context, params *cloudwatchlogs.DescribeLogGroupsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeLogGroupsOutput, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return t.api.DescribeLogGroups(ctx, params, optFns...)
}

func (t *throttledLogs) DescribeLogStreams(ctx context.Context, params *cloudwatchlogs.DescribeLogStreamsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeLogStreamsOutput, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return t.api.DescribeLogStreams(ctx, params, optFns...)
}

func (t *throttledLogs) GetLogEvents(ctx context.Context, params *cloudwatchlogs.GetLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.GetLogEventsOutput, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return t.api.GetLogEvents(ctx, params, optFns...)
}

type throttledMetrics struct {
	api     MetricsAPI
	limiter *rate.Limiter
}

// ThrottleMetrics returns a rate-limited view of api.
func ThrottleMetrics(api MetricsAPI, limiter *rate.Limiter) MetricsAPI {
	if limiter == nil {
		return api
	}
	return &throttledMetrics{api: api, limiter: limiter}
}

func (t *throttledMetrics) GetMetricStatistics(ctx context.Context, params *cloudwatch.GetMetricStatisticsInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.GetMetricStatisticsOutput, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return t.api.GetMetricStatistics(ctx, params, optFns...)
}
