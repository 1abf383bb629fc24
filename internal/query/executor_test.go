package query

import (
	"context"
	"testing"
	"time"

	"cloudwatch-mcp/internal/errs"
	"cloudwatch-mcp/internal/testutil"
	"cloudwatch-mcp/internal/timerange"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"go.uber.org/zap"
)

func testExecutor(fake *testutil.Fake) *Executor {
	e := New(fake, zap.NewNop())
	e.PollInterval = time.Millisecond
	e.MaxWait = 250 * time.Millisecond
	return e
}

func testRange() timerange.Range {
	end := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC).UnixMilli()
	return timerange.Range{Start: end - 3_600_000, End: end}
}

func TestRunCompletes(t *testing.T) {
	fake := &testutil.Fake{
		Default: &testutil.QueryScript{
			Statuses: []types.QueryStatus{types.QueryStatusRunning, types.QueryStatusComplete},
			Rows: [][]types.ResultField{
				testutil.Row("@timestamp", "2025-06-01 11:30:00.000", "@message", "hello"),
				testutil.Row("@timestamp", "2025-06-01 11:31:00.000", "@message", "world"),
			},
			Stats: &types.QueryStatistics{RecordsMatched: 2, RecordsScanned: 10},
		},
	}
	e := testExecutor(fake)

	rs, err := e.Run(context.Background(), []string{"/app/api"}, "fields @timestamp, @message", testRange())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rs.Results) != 2 {
		t.Fatalf("got %d rows, want 2", len(rs.Results))
	}
	if rs.Results[0]["@message"] != "hello" {
		t.Errorf("first row = %v", rs.Results[0])
	}
	if rs.Statistics == nil || rs.Statistics.RecordsMatched != 2 {
		t.Errorf("statistics = %+v", rs.Statistics)
	}
}

func TestRunValidatesInput(t *testing.T) {
	e := testExecutor(&testutil.Fake{})

	_, err := e.Run(context.Background(), nil, "fields @message", testRange())
	if !errs.IsKind(err, errs.Validation) {
		t.Errorf("empty groups: kind = %v, want ValidationError", errs.KindOf(err))
	}

	_, err = e.Run(context.Background(), []string{"/app/api"}, "   ", testRange())
	if !errs.IsKind(err, errs.Validation) {
		t.Errorf("blank query: kind = %v, want ValidationError", errs.KindOf(err))
	}
}

func TestRunTimesOutAndStopsQuery(t *testing.T) {
	// Empty status script keeps the query Running forever.
	fake := &testutil.Fake{Default: &testutil.QueryScript{}}
	e := testExecutor(fake)
	e.MaxWait = 20 * time.Millisecond

	_, err := e.Run(context.Background(), []string{"/app/api"}, "fields @message", testRange())
	if !errs.IsKind(err, errs.Timeout) {
		t.Fatalf("kind = %v, want TimeoutError", errs.KindOf(err))
	}
	if stopped := fake.StoppedQueries(); len(stopped) != 1 {
		t.Errorf("StopQuery called %d times, want 1", len(stopped))
	}
}

func TestRunRetriesTransientPollErrors(t *testing.T) {
	fake := &testutil.Fake{
		Default: &testutil.QueryScript{
			PollErrs: []error{testutil.ThrottlingErr(), testutil.ThrottlingErr()},
			Statuses: []types.QueryStatus{types.QueryStatusComplete},
			Rows:     [][]types.ResultField{testutil.Row("@message", "made it")},
		},
	}
	e := testExecutor(fake)

	rs, err := e.Run(context.Background(), []string{"/app/api"}, "fields @message", testRange())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rs.Results) != 1 || rs.Results[0]["@message"] != "made it" {
		t.Errorf("results = %v", rs.Results)
	}
}

func TestRunFailsFastOnNonTransientPollError(t *testing.T) {
	fake := &testutil.Fake{
		Default: &testutil.QueryScript{
			PollErrs: []error{testutil.AccessDeniedErr()},
			Statuses: []types.QueryStatus{types.QueryStatusComplete},
		},
	}
	e := testExecutor(fake)

	_, err := e.Run(context.Background(), []string{"/app/api"}, "fields @message", testRange())
	if !errs.IsKind(err, errs.RemoteService) {
		t.Errorf("kind = %v, want RemoteServiceError", errs.KindOf(err))
	}
}

func TestRunReportsBackendFailure(t *testing.T) {
	for _, status := range []types.QueryStatus{
		types.QueryStatusFailed,
		types.QueryStatusCancelled,
		types.QueryStatusTimeout,
	} {
		t.Run(string(status), func(t *testing.T) {
			fake := &testutil.Fake{
				Default: &testutil.QueryScript{Statuses: []types.QueryStatus{status}},
			}
			e := testExecutor(fake)

			_, err := e.Run(context.Background(), []string{"/app/api"}, "fields @message", testRange())
			if !errs.IsKind(err, errs.RemoteService) {
				t.Errorf("kind = %v, want RemoteServiceError", errs.KindOf(err))
			}
		})
	}
}

func TestRunCancelledContext(t *testing.T) {
	fake := &testutil.Fake{Default: &testutil.QueryScript{}}
	e := testExecutor(fake)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	job, err := e.Submit(context.Background(), []string{"/app/api"}, "fields @message", testRange())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := e.AwaitCompletion(ctx, job); err == nil {
		t.Fatal("expected cancellation error")
	}
	if job.State != StateCancelled {
		t.Errorf("state = %v, want Cancelled", job.State)
	}
}
