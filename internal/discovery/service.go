// Package discovery exposes the CloudWatch Logs catalog: log groups,
// streams, raw events, and log-volume metrics. It is also the direct
// record-fetch path the analysis and correlation engines use when a full
// Insights query would be overkill.
package discovery

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cloudwatch-mcp/internal/client"
	"cloudwatch-mcp/internal/constants"
	"cloudwatch-mcp/internal/errs"
	"cloudwatch-mcp/internal/models"
	"cloudwatch-mcp/internal/timerange"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
)

// Service answers catalog and record-fetch requests against one pair of AWS
// clients.
type Service struct {
	logs    client.LogsAPI
	metrics client.MetricsAPI
}

// NewService creates a discovery service. metrics may be nil when the caller
// never asks for volume metrics or group details.
func NewService(logs client.LogsAPI, metrics client.MetricsAPI) *Service {
	return &Service{logs: logs, metrics: metrics}
}

// GroupInfo is one log group summary.
type GroupInfo struct {
	Name         string `json:"name"`
	ARN          string `json:"arn,omitempty"`
	StoredBytes  int64  `json:"storedBytes"`
	CreationTime string `json:"creationTime"`
}

// GroupList is a single page of log groups.
type GroupList struct {
	LogGroups []GroupInfo `json:"logGroups"`
	NextToken string      `json:"nextToken,omitempty"`
}

// ListGroups returns up to limit log groups, optionally filtered by name
// prefix, with a pagination token when more are available.
func (s *Service) ListGroups(ctx context.Context, prefix string, limit int32, nextToken string) (*GroupList, error) {
	input := &cloudwatchlogs.DescribeLogGroupsInput{Limit: aws.Int32(limit)}
	if prefix != "" {
		input.LogGroupNamePrefix = aws.String(prefix)
	}
	if nextToken != "" {
		input.NextToken = aws.String(nextToken)
	}
	out, err := s.logs.DescribeLogGroups(ctx, input)
	if err != nil {
		return nil, errs.Remotef("describe log groups: %v", err)
	}

	list := &GroupList{LogGroups: make([]GroupInfo, 0, len(out.LogGroups))}
	for _, g := range out.LogGroups {
		list.LogGroups = append(list.LogGroups, GroupInfo{
			Name:         aws.ToString(g.LogGroupName),
			ARN:          aws.ToString(g.Arn),
			StoredBytes:  aws.ToInt64(g.StoredBytes),
			CreationTime: models.FormatTimestamp(aws.ToInt64(g.CreationTime)),
		})
	}
	list.NextToken = aws.ToString(out.NextToken)
	return list, nil
}

// MetricPoint is one datapoint of a log-volume metric.
type MetricPoint struct {
	Timestamp string  `json:"timestamp"`
	Value     float64 `json:"value"`
}

// GroupDetails extends GroupInfo with retention and ingest-volume data.
type GroupDetails struct {
	GroupInfo
	RetentionPolicy    string        `json:"retentionPolicy"`
	MetricFilterCount  int32         `json:"metricFilterCount"`
	KMSKeyID           string        `json:"kmsKeyId,omitempty"`
	DailyIncomingBytes []MetricPoint `json:"dailyIncomingBytes"`
}

// DescribeGroup returns detailed information about one log group, including
// its incoming-bytes datapoints over the last day.
func (s *Service) DescribeGroup(ctx context.Context, name string, rng timerange.Range) (*GroupDetails, error) {
	out, err := s.logs.DescribeLogGroups(ctx, &cloudwatchlogs.DescribeLogGroupsInput{
		LogGroupNamePrefix: aws.String(name),
		Limit:              aws.Int32(1),
	})
	if err != nil {
		return nil, errs.Remotef("describe log group %s: %v", name, err)
	}
	if len(out.LogGroups) == 0 || aws.ToString(out.LogGroups[0].LogGroupName) != name {
		return nil, errs.Validationf("log group %q not found", name)
	}
	g := out.LogGroups[0]

	details := &GroupDetails{
		GroupInfo: GroupInfo{
			Name:         aws.ToString(g.LogGroupName),
			ARN:          aws.ToString(g.Arn),
			StoredBytes:  aws.ToInt64(g.StoredBytes),
			CreationTime: models.FormatTimestamp(aws.ToInt64(g.CreationTime)),
		},
		RetentionPolicy:   "Never Expire",
		MetricFilterCount: aws.ToInt32(g.MetricFilterCount),
		KMSKeyID:          aws.ToString(g.KmsKeyId),
	}
	if g.RetentionInDays != nil {
		details.RetentionPolicy = fmt.Sprintf("%d days", aws.ToInt32(g.RetentionInDays))
	}

	points, err := s.metricSums(ctx, name, "IncomingBytes", rng)
	if err != nil {
		return nil, err
	}
	details.DailyIncomingBytes = points
	return details, nil
}

// StreamInfo is one log stream summary.
type StreamInfo struct {
	Name           string `json:"name"`
	FirstEventTime string `json:"firstEventTime,omitempty"`
	LastEventTime  string `json:"lastEventTime,omitempty"`
	StoredBytes    int64  `json:"storedBytes"`
}

// ListStreams returns up to limit streams of a group, most recent first.
func (s *Service) ListStreams(ctx context.Context, logGroup string, limit int32) ([]StreamInfo, error) {
	out, err := s.logs.DescribeLogStreams(ctx, &cloudwatchlogs.DescribeLogStreamsInput{
		LogGroupName: aws.String(logGroup),
		OrderBy:      types.OrderByLastEventTime,
		Descending:   aws.Bool(true),
		Limit:        aws.Int32(limit),
	})
	if err != nil {
		return nil, errs.WithGroup(logGroup, errs.Remotef("describe log streams: %v", err))
	}

	streams := make([]StreamInfo, 0, len(out.LogStreams))
	for _, st := range out.LogStreams {
		info := StreamInfo{
			Name:        aws.ToString(st.LogStreamName),
			StoredBytes: aws.ToInt64(st.StoredBytes),
		}
		if st.FirstEventTimestamp != nil {
			info.FirstEventTime = models.FormatTimestamp(*st.FirstEventTimestamp)
		}
		if st.LastEventTimestamp != nil {
			info.LastEventTime = models.FormatTimestamp(*st.LastEventTimestamp)
		}
		streams = append(streams, info)
	}
	return streams, nil
}

// StreamEvents returns the most recent events of one stream.
func (s *Service) StreamEvents(ctx context.Context, logGroup, logStream string, limit int32) ([]models.LogRecord, error) {
	out, err := s.logs.GetLogEvents(ctx, &cloudwatchlogs.GetLogEventsInput{
		LogGroupName:  aws.String(logGroup),
		LogStreamName: aws.String(logStream),
		Limit:         aws.Int32(limit),
		StartFromHead: aws.Bool(false),
	})
	if err != nil {
		return nil, errs.WithGroup(logGroup, errs.Remotef("get log events from %s: %v", logStream, err))
	}

	records := make([]models.LogRecord, 0, len(out.Events))
	for i, e := range out.Events {
		records = append(records, models.LogRecord{
			LogGroup:  logGroup,
			LogStream: logStream,
			Timestamp: aws.ToInt64(e.Timestamp),
			Message:   aws.ToString(e.Message),
			Order:     i,
		})
	}
	return records, nil
}

// Sample is a slice of recent records pulled from a group's freshest stream.
type Sample struct {
	LogGroup  string             `json:"logGroup"`
	LogStream string             `json:"logStream,omitempty"`
	Events    []models.LogRecord `json:"events"`
}

// RecentSample fetches up to limit records from the most recently active
// stream. A group with no streams yields an empty sample, not an error.
func (s *Service) RecentSample(ctx context.Context, logGroup string, limit int32) (*Sample, error) {
	streams, err := s.ListStreams(ctx, logGroup, 1)
	if err != nil {
		return nil, err
	}
	if len(streams) == 0 {
		return &Sample{LogGroup: logGroup, Events: []models.LogRecord{}}, nil
	}
	events, err := s.StreamEvents(ctx, logGroup, streams[0].Name, limit)
	if err != nil {
		return nil, err
	}
	return &Sample{LogGroup: logGroup, LogStream: streams[0].Name, Events: events}, nil
}

// FetchFiltered returns records matching a CloudWatch filter pattern within
// the range, following pagination until limit records are collected. An
// empty pattern matches everything.
func (s *Service) FetchFiltered(ctx context.Context, logGroup, pattern string, rng timerange.Range, limit int32) ([]models.LogRecord, error) {
	var records []models.LogRecord
	var next *string
	for {
		input := &cloudwatchlogs.FilterLogEventsInput{
			LogGroupName: aws.String(logGroup),
			StartTime:    aws.Int64(rng.Start),
			EndTime:      aws.Int64(rng.End),
			Limit:        aws.Int32(limit),
			NextToken:    next,
			Interleaved:  aws.Bool(true),
		}
		if pattern != "" {
			input.FilterPattern = aws.String(pattern)
		}
		out, err := s.logs.FilterLogEvents(ctx, input)
		if err != nil {
			return nil, errs.WithGroup(logGroup, errs.Remotef("filter log events: %v", err))
		}
		for _, e := range out.Events {
			records = append(records, models.LogRecord{
				LogGroup:  logGroup,
				LogStream: aws.ToString(e.LogStreamName),
				Timestamp: aws.ToInt64(e.Timestamp),
				Message:   aws.ToString(e.Message),
				Order:     len(records),
			})
		}
		if int32(len(records)) >= limit {
			records = records[:limit]
			break
		}
		if out.NextToken == nil || (next != nil && aws.ToString(out.NextToken) == aws.ToString(next)) {
			break
		}
		next = out.NextToken
	}
	return records, nil
}

// QuoteFilterPattern quotes a literal search term for the CloudWatch filter
// syntax, which otherwise treats special characters as token separators.
func QuoteFilterPattern(term string) string {
	if len(term) >= 2 && term[0] == '"' && term[len(term)-1] == '"' {
		return term
	}
	return `"` + term + `"`
}

// VolumeMetrics reports hourly ingest volume for one group.
type VolumeMetrics struct {
	LogGroup     string        `json:"logGroup"`
	TotalBytes   float64       `json:"totalBytes"`
	TotalEvents  float64       `json:"totalEvents"`
	BytesByHour  []MetricPoint `json:"bytesByHour"`
	EventsByHour []MetricPoint `json:"eventsByHour"`
}

// VolumeMetrics sums IncomingBytes and IncomingLogEvents over the range in
// one-hour buckets.
func (s *Service) VolumeMetrics(ctx context.Context, logGroup string, rng timerange.Range) (*VolumeMetrics, error) {
	bytesPoints, err := s.metricSums(ctx, logGroup, "IncomingBytes", rng)
	if err != nil {
		return nil, err
	}
	eventPoints, err := s.metricSums(ctx, logGroup, "IncomingLogEvents", rng)
	if err != nil {
		return nil, err
	}

	vm := &VolumeMetrics{
		LogGroup:     logGroup,
		BytesByHour:  bytesPoints,
		EventsByHour: eventPoints,
	}
	for _, p := range bytesPoints {
		vm.TotalBytes += p.Value
	}
	for _, p := range eventPoints {
		vm.TotalEvents += p.Value
	}
	return vm, nil
}

func (s *Service) metricSums(ctx context.Context, logGroup, metricName string, rng timerange.Range) ([]MetricPoint, error) {
	if s.metrics == nil {
		return nil, errs.Internalf("metrics client not configured")
	}
	out, err := s.metrics.GetMetricStatistics(ctx, &cloudwatch.GetMetricStatisticsInput{
		Namespace:  aws.String("AWS/Logs"),
		MetricName: aws.String(metricName),
		Dimensions: []cwtypes.Dimension{
			{Name: aws.String("LogGroupName"), Value: aws.String(logGroup)},
		},
		StartTime:  aws.Time(rng.StartTime()),
		EndTime:    aws.Time(rng.EndTime()),
		Period:     aws.Int32(constants.MetricPeriodSeconds),
		Statistics: []cwtypes.Statistic{cwtypes.StatisticSum},
	})
	if err != nil {
		return nil, errs.WithGroup(logGroup, errs.Remotef("get %s statistics: %v", metricName, err))
	}

	points := make([]MetricPoint, 0, len(out.Datapoints))
	for _, dp := range out.Datapoints {
		points = append(points, MetricPoint{
			Timestamp: dp.Timestamp.UTC().Format(time.RFC3339),
			Value:     aws.ToFloat64(dp.Sum),
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Timestamp < points[j].Timestamp })
	return points, nil
}
