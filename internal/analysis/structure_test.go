package analysis

import (
	"testing"

	"cloudwatch-mcp/internal/models"
)

func msgs(messages ...string) []models.LogRecord {
	records := make([]models.LogRecord, len(messages))
	for i, m := range messages {
		records[i] = models.LogRecord{Message: m, Order: i}
	}
	return records
}

func TestAnalyzeStructureJSON(t *testing.T) {
	report := AnalyzeStructure(msgs(
		`{"level":"info","msg":"started","requestId":"a1"}`,
		`{"level":"error","msg":"boom","requestId":"a2"}`,
		`{"level":"info","msg":"done"}`,
	), 2)

	if report.Format != FormatJSON {
		t.Fatalf("format = %v, want json", report.Format)
	}
	if report.SampleSize != 3 {
		t.Errorf("sampleSize = %d", report.SampleSize)
	}
	if len(report.SampleMessages) != 2 {
		t.Errorf("sampleMessages = %d, want 2", len(report.SampleMessages))
	}

	counts := map[string]int{}
	for _, f := range report.CommonFields {
		counts[f.Name] = f.Count
	}
	if counts["level"] != 3 || counts["msg"] != 3 || counts["requestId"] != 2 {
		t.Errorf("field counts = %v", counts)
	}
	// level and msg tie at 3, so names break the tie alphabetically.
	if report.CommonFields[0].Name != "level" {
		t.Errorf("first field = %q, want level", report.CommonFields[0].Name)
	}
}

func TestAnalyzeStructureDelimited(t *testing.T) {
	report := AnalyzeStructure(msgs(
		"method=GET path=/api/orders status=200",
		"method=POST path=/api/orders status=500",
	), 5)

	if report.Format != FormatDelimited {
		t.Fatalf("format = %v, want delimited", report.Format)
	}
	counts := map[string]int{}
	for _, f := range report.CommonFields {
		counts[f.Name] = f.Count
	}
	if counts["method"] != 2 || counts["status"] != 2 {
		t.Errorf("field counts = %v", counts)
	}
}

func TestAnalyzeStructureFreeform(t *testing.T) {
	report := AnalyzeStructure(msgs(
		"INFO: starting worker",
		"something happened",
		"worker stopped",
	), 5)

	// A lone "key: value" pair reads as prose, not a delimited record.
	if report.Format != FormatFreeform {
		t.Fatalf("format = %v, want freeform", report.Format)
	}
}

func TestAnalyzeStructureMajorityWins(t *testing.T) {
	report := AnalyzeStructure(msgs(
		`{"a":1}`,
		`{"b":2}`,
		"plain text here",
	), 5)
	if report.Format != FormatJSON {
		t.Errorf("format = %v, want json majority", report.Format)
	}
	if report.FormatCounts[FormatJSON] != 2 || report.FormatCounts[FormatFreeform] != 1 {
		t.Errorf("formatCounts = %v", report.FormatCounts)
	}
}

func TestAnalyzeStructureTieBreaks(t *testing.T) {
	tests := []struct {
		name    string
		records []models.LogRecord
		want    Format
	}{
		{"json over freeform", msgs(`{"a":1}`, "plain prose here"), FormatJSON},
		{"delimited over freeform", msgs("k=v x=y", "plain prose here"), FormatDelimited},
		{"json over delimited", msgs(`{"a":1}`, "k=v x=y"), FormatJSON},
		{"freeform only when outvoted", msgs("plain", "more prose", "k=v x=y"), FormatFreeform},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if report := AnalyzeStructure(tt.records, 0); report.Format != tt.want {
				t.Errorf("format = %v, want %v", report.Format, tt.want)
			}
		})
	}
}

func TestAnalyzeStructureEmpty(t *testing.T) {
	report := AnalyzeStructure(nil, 5)
	if report.Format != FormatFreeform || report.SampleSize != 0 {
		t.Errorf("report = %+v", report)
	}
	if report.CommonFields == nil || report.SampleMessages == nil {
		t.Error("empty report must carry empty slices, not nil")
	}
}
