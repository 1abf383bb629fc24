package analysis

import (
	"testing"

	"cloudwatch-mcp/internal/models"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"iso timestamp",
			"2025-06-01T11:30:00Z connection refused",
			"<timestamp> connection refused",
		},
		{
			"space separated timestamp with millis",
			"failed at 2025-06-01 11:30:00.123",
			"failed at <timestamp>",
		},
		{
			"uuid",
			"request 6f1c2a4e-9b7d-4a2c-8f3e-1d2c3b4a5e6f rejected",
			"request <uuid> rejected",
		},
		{
			"hex literal",
			"segfault at 0xDEADBEEF",
			"segfault at <hex>",
		},
		{
			"long hex word",
			"checksum deadbeef01 mismatch",
			"checksum <hex> mismatch",
		},
		{
			"numbers",
			"Error 404 fetching /order/829",
			"Error <num> fetching /order/<num>",
		},
		{
			"short alphanumeric id",
			"Error 404 at 2024-01-01T00:00:00Z for user abc123",
			"Error <num> at <timestamp> for user <num>",
		},
		{
			"whitespace collapse",
			"  too   many \t spaces ",
			"too many spaces",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"2025-06-01T11:30:00Z request 6f1c2a4e-9b7d-4a2c-8f3e-1d2c3b4a5e6f hit 0xFF at /order/829",
		"Error 500 from upstream",
		"session abc123 expired",
		"plain text without anything volatile",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}

func TestDetectPatternsGroupsEquivalentMessages(t *testing.T) {
	records := []models.LogRecord{
		{Timestamp: 1_000, Message: "Error 404 fetching /order/829"},
		{Timestamp: 2_000, Message: "Error 404 fetching /order/17"},
		{Timestamp: 3_000, Message: "Error 500 from upstream"},
	}
	patterns := DetectPatterns(records, nil, 0)
	if len(patterns) != 2 {
		t.Fatalf("got %d patterns, want 2", len(patterns))
	}
	top := patterns[0]
	if top.Template != "Error <num> fetching /order/<num>" {
		t.Errorf("top template = %q", top.Template)
	}
	if top.Count != 2 {
		t.Errorf("top count = %d, want 2", top.Count)
	}
	if top.FirstSeen >= top.LastSeen {
		t.Errorf("window = [%s, %s]", top.FirstSeen, top.LastSeen)
	}
	if top.Example != "Error 404 fetching /order/829" {
		t.Errorf("example = %q", top.Example)
	}
}

func TestDetectPatternsCollapsesShortIDs(t *testing.T) {
	records := []models.LogRecord{
		{Timestamp: 1_000, Message: "Error 404 at 2024-01-01T00:00:00Z for user abc123"},
		{Timestamp: 2_000, Message: "Error 404 at 2024-01-01T00:05:00Z for user def456"},
	}
	patterns := DetectPatterns(records, nil, 0)
	if len(patterns) != 1 {
		t.Fatalf("got %d patterns, want 1", len(patterns))
	}
	if patterns[0].Count != 2 {
		t.Errorf("count = %d, want 2", patterns[0].Count)
	}
	if patterns[0].Template != "Error <num> at <timestamp> for user <num>" {
		t.Errorf("template = %q", patterns[0].Template)
	}
}

func TestDetectPatternsFiltersByMarker(t *testing.T) {
	records := []models.LogRecord{
		{Timestamp: 1_000, Message: "ERROR something broke"},
		{Timestamp: 2_000, Message: "Exception in handler"},
		{Timestamp: 3_000, Message: "request failed with 502"},
		{Timestamp: 4_000, Message: "Traceback (most recent call last)"},
		{Timestamp: 5_000, Message: "healthy heartbeat"},
	}
	patterns := DetectPatterns(records, nil, 0)
	total := 0
	for _, p := range patterns {
		total += p.Count
	}
	if total != 4 {
		t.Errorf("matched %d records, want 4 (heartbeat excluded)", total)
	}

	custom := DetectPatterns(records, []string{"heartbeat"}, 0)
	if len(custom) != 1 || custom[0].Count != 1 {
		t.Errorf("custom markers = %+v", custom)
	}
}

func TestDetectPatternsMaxPatterns(t *testing.T) {
	var records []models.LogRecord
	for i := 0; i < 5; i++ {
		records = append(records, models.LogRecord{Timestamp: int64(i), Message: "error: disk full"})
	}
	records = append(records, models.LogRecord{Timestamp: 10, Message: "error: single oddity"})

	patterns := DetectPatterns(records, nil, 1)
	if len(patterns) != 1 {
		t.Fatalf("got %d patterns, want 1", len(patterns))
	}
	if patterns[0].Count != 5 {
		t.Errorf("kept count = %d, want the most frequent (5)", patterns[0].Count)
	}
}

func TestDetectPatternsEmptyInput(t *testing.T) {
	if got := DetectPatterns(nil, nil, 0); len(got) != 0 {
		t.Errorf("got %d patterns from no records", len(got))
	}
}
