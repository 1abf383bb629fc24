package discovery

import (
	"context"
	"testing"

	"cloudwatch-mcp/internal/errs"
	"cloudwatch-mcp/internal/testutil"
	"cloudwatch-mcp/internal/timerange"

	"github.com/aws/aws-sdk-go-v2/aws"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
)

func testRange() timerange.Range {
	return timerange.Range{Start: 0, End: 1_000_000}
}

func TestListGroups(t *testing.T) {
	fake := &testutil.Fake{
		LogGroups: []types.LogGroup{
			{LogGroupName: aws.String("/app/api"), StoredBytes: aws.Int64(1024)},
			{LogGroupName: aws.String("/app/web")},
			{LogGroupName: aws.String("/infra/dns")},
		},
	}
	svc := NewService(fake, nil)

	list, err := svc.ListGroups(context.Background(), "/app", 50, "")
	if err != nil {
		t.Fatalf("ListGroups: %v", err)
	}
	if len(list.LogGroups) != 2 {
		t.Fatalf("got %d groups, want 2 with prefix", len(list.LogGroups))
	}
	if list.LogGroups[0].Name != "/app/api" || list.LogGroups[0].StoredBytes != 1024 {
		t.Errorf("first group = %+v", list.LogGroups[0])
	}

	paged, err := svc.ListGroups(context.Background(), "", 2, "")
	if err != nil {
		t.Fatalf("ListGroups: %v", err)
	}
	if len(paged.LogGroups) != 2 || paged.NextToken == "" {
		t.Errorf("paged = %d groups, token %q", len(paged.LogGroups), paged.NextToken)
	}
}

func TestDescribeGroup(t *testing.T) {
	fake := &testutil.Fake{
		LogGroups: []types.LogGroup{
			{
				LogGroupName:      aws.String("/app/api"),
				RetentionInDays:   aws.Int32(30),
				MetricFilterCount: aws.Int32(2),
			},
		},
		Datapoints: map[string][]cwtypes.Datapoint{
			"IncomingBytes": {{Timestamp: aws.Time(timerange.Range{}.StartTime()), Sum: aws.Float64(2048)}},
		},
	}
	svc := NewService(fake, fake)

	details, err := svc.DescribeGroup(context.Background(), "/app/api", testRange())
	if err != nil {
		t.Fatalf("DescribeGroup: %v", err)
	}
	if details.RetentionPolicy != "30 days" {
		t.Errorf("retention = %q", details.RetentionPolicy)
	}
	if len(details.DailyIncomingBytes) != 1 || details.DailyIncomingBytes[0].Value != 2048 {
		t.Errorf("incoming bytes = %+v", details.DailyIncomingBytes)
	}
}

func TestDescribeGroupNotFound(t *testing.T) {
	fake := &testutil.Fake{
		LogGroups: []types.LogGroup{
			{LogGroupName: aws.String("/app/api-staging")},
		},
	}
	svc := NewService(fake, fake)

	// Prefix matches a different group; exact-name check must reject it.
	_, err := svc.DescribeGroup(context.Background(), "/app/api", testRange())
	if !errs.IsKind(err, errs.Validation) {
		t.Errorf("kind = %v, want ValidationError", errs.KindOf(err))
	}
}

func TestFetchFilteredPagination(t *testing.T) {
	fake := &testutil.Fake{
		FilteredEvents: map[string][]types.FilteredLogEvent{
			"/app/api": {
				testutil.Event("web-1", 100, "error one"),
				testutil.Event("web-1", 200, "error two"),
				testutil.Event("web-2", 300, "error three"),
				testutil.Event("web-2", 400, "error four"),
				testutil.Event("web-1", 500, "error five"),
			},
		},
		PageSize: 2,
	}
	svc := NewService(fake, nil)

	records, err := svc.FetchFiltered(context.Background(), "/app/api", `"error"`, testRange(), 10)
	if err != nil {
		t.Fatalf("FetchFiltered: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("got %d records across pages, want 5", len(records))
	}
	for i, rec := range records {
		if rec.Order != i {
			t.Errorf("records[%d].Order = %d", i, rec.Order)
		}
	}
}

func TestFetchFilteredHonorsLimit(t *testing.T) {
	fake := &testutil.Fake{
		FilteredEvents: map[string][]types.FilteredLogEvent{
			"/app/api": {
				testutil.Event("web-1", 100, "a"),
				testutil.Event("web-1", 200, "b"),
				testutil.Event("web-1", 300, "c"),
			},
		},
	}
	svc := NewService(fake, nil)

	records, err := svc.FetchFiltered(context.Background(), "/app/api", "", testRange(), 2)
	if err != nil {
		t.Fatalf("FetchFiltered: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("got %d records, want limit of 2", len(records))
	}
}

func TestFetchFilteredAppliesRange(t *testing.T) {
	fake := &testutil.Fake{
		FilteredEvents: map[string][]types.FilteredLogEvent{
			"/app/api": {
				testutil.Event("web-1", 50, "too early"),
				testutil.Event("web-1", 500, "in range"),
				testutil.Event("web-1", 2_000_000, "too late"),
			},
		},
	}
	svc := NewService(fake, nil)

	records, err := svc.FetchFiltered(context.Background(), "/app/api", "", timerange.Range{Start: 100, End: 1_000}, 10)
	if err != nil {
		t.Fatalf("FetchFiltered: %v", err)
	}
	if len(records) != 1 || records[0].Message != "in range" {
		t.Errorf("records = %+v", records)
	}
}

func TestRecentSample(t *testing.T) {
	fake := &testutil.Fake{
		LogStreams: map[string][]types.LogStream{
			"/app/api": {
				{LogStreamName: aws.String("web-2")},
				{LogStreamName: aws.String("web-1")},
			},
		},
		StreamEvents: map[string][]types.OutputLogEvent{
			"/app/api/web-2": {
				{Timestamp: aws.Int64(100), Message: aws.String("latest activity")},
			},
		},
	}
	svc := NewService(fake, nil)

	sample, err := svc.RecentSample(context.Background(), "/app/api", 10)
	if err != nil {
		t.Fatalf("RecentSample: %v", err)
	}
	if sample.LogStream != "web-2" {
		t.Errorf("stream = %q, want the most recent", sample.LogStream)
	}
	if len(sample.Events) != 1 || sample.Events[0].Message != "latest activity" {
		t.Errorf("events = %+v", sample.Events)
	}
}

func TestRecentSampleEmptyGroup(t *testing.T) {
	svc := NewService(&testutil.Fake{}, nil)

	sample, err := svc.RecentSample(context.Background(), "/app/idle", 10)
	if err != nil {
		t.Fatalf("RecentSample: %v", err)
	}
	if len(sample.Events) != 0 {
		t.Errorf("events = %+v, want empty sample", sample.Events)
	}
}

func TestQuoteFilterPattern(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"req-42", `"req-42"`},
		{`"quoted"`, `"quoted"`},
		{"GET /api", `"GET /api"`},
	}
	for _, tt := range tests {
		if got := QuoteFilterPattern(tt.in); got != tt.want {
			t.Errorf("QuoteFilterPattern(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
