package main

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"

	"cloudwatch-mcp/internal/analysis"
	"cloudwatch-mcp/internal/discovery"
	"cloudwatch-mcp/internal/models"
	"cloudwatch-mcp/internal/testutil"
)

func fakeBackend(now int64) *testutil.Fake {
	return &testutil.Fake{
		LogGroups: []types.LogGroup{
			{LogGroupName: aws.String("/app/api"), StoredBytes: aws.Int64(1024), CreationTime: aws.Int64(now)},
			{LogGroupName: aws.String("/app/worker")},
		},
		LogStreams: map[string][]types.LogStream{
			"/app/api": {{LogStreamName: aws.String("web-1"), LastEventTimestamp: aws.Int64(now)}},
		},
		StreamEvents: map[string][]types.OutputLogEvent{
			"/app/api/web-1": {
				{Timestamp: aws.Int64(now - 2_000), Message: aws.String(`{"level":"info","msg":"started"}`)},
				{Timestamp: aws.Int64(now - 1_000), Message: aws.String(`{"level":"error","msg":"boom"}`)},
			},
		},
		FilteredEvents: map[string][]types.FilteredLogEvent{
			"/app/api": {
				testutil.Event("web-1", now-2_000, "ERROR upstream timeout"),
				testutil.Event("web-1", now-1_000, "healthy heartbeat"),
			},
		},
		Datapoints: map[string][]cwtypes.Datapoint{
			"IncomingBytes":     {{Timestamp: aws.Time(time.UnixMilli(now).UTC()), Sum: aws.Float64(2048)}},
			"IncomingLogEvents": {{Timestamp: aws.Time(time.UnixMilli(now).UTC()), Sum: aws.Float64(7)}},
		},
	}
}

func TestResourcePayloadGroupsAndStreams(t *testing.T) {
	ctx := context.Background()
	fake := fakeBackend(time.Now().UnixMilli())
	svc := discovery.NewService(fake, fake)

	payload, err := resourcePayload(ctx, svc, "")
	if err != nil {
		t.Fatalf("list groups: %v", err)
	}
	list, ok := payload.(*discovery.GroupList)
	if !ok || len(list.LogGroups) != 2 {
		t.Fatalf("payload = %+v", payload)
	}

	payload, err = resourcePayload(ctx, svc, "filter//app/api")
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if list := payload.(*discovery.GroupList); len(list.LogGroups) != 1 || list.LogGroups[0].Name != "/app/api" {
		t.Errorf("filtered = %+v", list.LogGroups)
	}

	payload, err = resourcePayload(ctx, svc, "/app/api/streams")
	if err != nil {
		t.Fatalf("streams: %v", err)
	}
	streams := payload.([]discovery.StreamInfo)
	if len(streams) != 1 || streams[0].Name != "web-1" {
		t.Errorf("streams = %+v", streams)
	}

	payload, err = resourcePayload(ctx, svc, "/app/api/streams/web-1")
	if err != nil {
		t.Fatalf("stream events: %v", err)
	}
	if records := payload.([]models.LogRecord); len(records) != 2 || records[0].LogGroup != "/app/api" {
		t.Errorf("events = %+v", records)
	}
}

func TestResourcePayloadSample(t *testing.T) {
	fake := fakeBackend(time.Now().UnixMilli())
	svc := discovery.NewService(fake, fake)

	payload, err := resourcePayload(context.Background(), svc, "/app/api/sample")
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	sample := payload.(*discovery.Sample)
	if sample.LogStream != "web-1" || len(sample.Events) != 2 {
		t.Errorf("sample = %+v", sample)
	}
}

func TestResourcePayloadRecentErrors(t *testing.T) {
	fake := fakeBackend(time.Now().UnixMilli())
	svc := discovery.NewService(fake, fake)

	payload, err := resourcePayload(context.Background(), svc, "/app/api/recent-errors")
	if err != nil {
		t.Fatalf("recent errors: %v", err)
	}
	view := payload.(map[string]any)
	if view["logGroup"] != "/app/api" {
		t.Errorf("logGroup = %v", view["logGroup"])
	}
	if view["errorCount"] != 1 {
		t.Errorf("errorCount = %v, want 1 (heartbeat excluded)", view["errorCount"])
	}
}

func TestResourcePayloadMetrics(t *testing.T) {
	fake := fakeBackend(time.Now().UnixMilli())
	svc := discovery.NewService(fake, fake)

	payload, err := resourcePayload(context.Background(), svc, "/app/api/metrics")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	vm := payload.(*discovery.VolumeMetrics)
	if vm.TotalBytes != 2048 || vm.TotalEvents != 7 {
		t.Errorf("metrics = %+v", vm)
	}
}

func TestResourcePayloadStructure(t *testing.T) {
	fake := fakeBackend(time.Now().UnixMilli())
	svc := discovery.NewService(fake, fake)

	payload, err := resourcePayload(context.Background(), svc, "/app/api/structure")
	if err != nil {
		t.Fatalf("structure: %v", err)
	}
	view := payload.(map[string]any)
	report := view["structure"].(*analysis.StructureReport)
	if report.Format != analysis.FormatJSON {
		t.Errorf("format = %v, want json", report.Format)
	}
	if view["logStream"] != "web-1" {
		t.Errorf("logStream = %v", view["logStream"])
	}
}

func TestResourcePayloadDescribeGroup(t *testing.T) {
	fake := fakeBackend(time.Now().UnixMilli())
	svc := discovery.NewService(fake, fake)

	payload, err := resourcePayload(context.Background(), svc, "/app/api")
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	details := payload.(*discovery.GroupDetails)
	if details.Name != "/app/api" || len(details.DailyIncomingBytes) != 1 {
		t.Errorf("details = %+v", details)
	}
}

func TestResourcePathRejectsForeignScheme(t *testing.T) {
	if _, err := resourcePath("files://etc/passwd"); err == nil {
		t.Fatal("expected an error for a foreign scheme")
	}
	rest, err := resourcePath(resourceScheme + "/%2Fapp%2Fapi/streams")
	if err != nil {
		t.Fatalf("resourcePath: %v", err)
	}
	if rest != "/app/api/streams" {
		t.Errorf("rest = %q", rest)
	}
}
