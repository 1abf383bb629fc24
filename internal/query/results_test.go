package query

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"

	"cloudwatch-mcp/internal/testutil"
)

func TestParseInsightsTime(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"2025-06-01 11:30:00.000", true},
		{"2025-06-01T11:30:00Z", true},
		{"", false},
		{"not a time", false},
	}
	for _, tt := range tests {
		if _, ok := ParseInsightsTime(tt.in); ok != tt.ok {
			t.Errorf("ParseInsightsTime(%q) ok = %v, want %v", tt.in, ok, tt.ok)
		}
	}

	ms, ok := ParseInsightsTime("2025-06-01 00:00:00.000")
	if !ok || ms != 1748736000000 {
		t.Errorf("ms = %d, ok = %v", ms, ok)
	}
}

func TestSortByTimestamp(t *testing.T) {
	rs := &ResultSet{Results: []map[string]string{
		{"@timestamp": "2025-06-01 11:32:00.000", "@message": "c"},
		{"@timestamp": "2025-06-01 11:30:00.000", "@message": "a"},
		{"@timestamp": "2025-06-01 11:31:00.000", "@message": "b"},
	}}
	rs.SortByTimestamp()

	got := ""
	for _, row := range rs.Results {
		got += row["@message"]
	}
	if got != "abc" {
		t.Errorf("order = %q, want abc", got)
	}
}

func TestRecords(t *testing.T) {
	out := &cloudwatchlogs.GetQueryResultsOutput{
		Status: types.QueryStatusComplete,
		Results: [][]types.ResultField{
			testutil.Row(
				"@timestamp", "2025-06-01 11:30:00.000",
				"@message", "hello",
				"@logStream", "web-1",
				"@ptr", "opaque",
				"level", "info",
			),
		},
	}
	rs := newResultSet(out)
	records := rs.Records("/app/api")
	if len(records) != 1 {
		t.Fatalf("got %d records", len(records))
	}
	rec := records[0]
	if rec.LogGroup != "/app/api" || rec.Message != "hello" || rec.LogStream != "web-1" {
		t.Errorf("record = %+v", rec)
	}
	if rec.Timestamp == 0 {
		t.Error("timestamp not parsed")
	}
	if rec.Fields["level"] != "info" {
		t.Errorf("fields = %v", rec.Fields)
	}
	if _, ok := rec.Fields["@ptr"]; ok {
		t.Error("@ptr must not surface as a field")
	}
}
