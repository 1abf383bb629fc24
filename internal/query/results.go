package query

import (
	"sort"
	"time"

	"cloudwatch-mcp/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
)

// insightsTimeLayout is how CloudWatch Logs Insights renders @timestamp.
const insightsTimeLayout = "2006-01-02 15:04:05.000"

// Statistics summarizes how much data the backend scanned for a query.
type Statistics struct {
	BytesScanned   float64 `json:"bytesScanned"`
	RecordsMatched float64 `json:"recordsMatched"`
	RecordsScanned float64 `json:"recordsScanned"`
}

// ResultSet holds one completed query's rows. Each row maps result field
// names (e.g. @timestamp, @message) to their string values, mirroring the
// backend's field/value pairs.
type ResultSet struct {
	Status     string              `json:"status"`
	Statistics *Statistics         `json:"statistics,omitempty"`
	Results    []map[string]string `json:"results"`
}

func newResultSet(out *cloudwatchlogs.GetQueryResultsOutput) *ResultSet {
	rs := &ResultSet{
		Status:  string(out.Status),
		Results: make([]map[string]string, 0, len(out.Results)),
	}
	if out.Statistics != nil {
		rs.Statistics = &Statistics{
			BytesScanned:   out.Statistics.BytesScanned,
			RecordsMatched: out.Statistics.RecordsMatched,
			RecordsScanned: out.Statistics.RecordsScanned,
		}
	}
	for _, row := range out.Results {
		m := make(map[string]string, len(row))
		for _, f := range row {
			m[aws.ToString(f.Field)] = aws.ToString(f.Value)
		}
		rs.Results = append(rs.Results, m)
	}
	return rs
}

// SortByTimestamp reorders rows by their @timestamp ascending. Rows without
// a parsable timestamp sort first in their original order.
func (rs *ResultSet) SortByTimestamp() {
	sort.SliceStable(rs.Results, func(i, j int) bool {
		ti, _ := ParseInsightsTime(rs.Results[i]["@timestamp"])
		tj, _ := ParseInsightsTime(rs.Results[j]["@timestamp"])
		return ti < tj
	})
}

// ParseInsightsTime parses an Insights @timestamp value into epoch
// milliseconds.
func ParseInsightsTime(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	t, err := time.Parse(insightsTimeLayout, s)
	if err != nil {
		// Some result fields carry RFC 3339 instead.
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return 0, false
		}
	}
	return t.UnixMilli(), true
}

// Records converts the rows into LogRecords for the given group. The
// well-known Insights fields map onto the record; everything else becomes an
// extracted field. Row order is preserved as the record order.
func (rs *ResultSet) Records(logGroup string) []models.LogRecord {
	records := make([]models.LogRecord, 0, len(rs.Results))
	for i, row := range rs.Results {
		rec := models.LogRecord{
			LogGroup: logGroup,
			Order:    i,
			Fields:   make(map[string]string),
		}
		for field, value := range row {
			switch field {
			case "@timestamp":
				if ms, ok := ParseInsightsTime(value); ok {
					rec.Timestamp = ms
				}
			case "@message":
				rec.Message = value
			case "@logStream":
				rec.LogStream = value
			case "@ptr":
				// Result pointer, not useful to callers.
			default:
				rec.Fields[field] = value
			}
		}
		if len(rec.Fields) == 0 {
			rec.Fields = nil
		}
		records = append(records, rec)
	}
	return records
}
