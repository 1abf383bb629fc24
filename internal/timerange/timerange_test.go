package timerange

import (
	"testing"
	"time"

	"cloudwatch-mcp/internal/errs"
)

func TestResolveRelative(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		hours float64
		want  int64 // expected start offset in ms before now
	}{
		{"one hour", 1, 3_600_000},
		{"default day", 24, 86_400_000},
		{"fractional", 0.5, 1_800_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng, err := Resolve(tt.hours, "", "", now)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if rng.End != now.UnixMilli() {
				t.Errorf("end = %d, want %d", rng.End, now.UnixMilli())
			}
			if got := rng.End - rng.Start; got != tt.want {
				t.Errorf("window = %dms, want %dms", got, tt.want)
			}
			if rng.Start >= rng.End {
				t.Errorf("start %d not before end %d", rng.Start, rng.End)
			}
		})
	}
}

func TestResolveAbsolute(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	rng, err := Resolve(0, "2025-05-01T00:00:00Z", "2025-05-02T00:00:00Z", now)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantStart := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	if rng.Start != wantStart {
		t.Errorf("start = %d, want %d", rng.Start, wantStart)
	}
	if rng.End-rng.Start != 86_400_000 {
		t.Errorf("window = %dms, want one day", rng.End-rng.Start)
	}
}

func TestResolveAbsoluteOverridesHours(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	rng, err := Resolve(500, "2025-05-01T00:00:00Z", "2025-05-01T01:00:00Z", now)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if rng.End-rng.Start != 3_600_000 {
		t.Errorf("window = %dms, want the absolute hour, not 500 hours", rng.End-rng.Start)
	}
}

func TestResolveValidation(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		hours float64
		start string
		end   string
	}{
		{"zero hours", 0, "", ""},
		{"negative hours", -2, "", ""},
		{"only start", 0, "2025-05-01T00:00:00Z", ""},
		{"only end", 0, "", "2025-05-01T00:00:00Z"},
		{"start equals end", 0, "2025-05-01T00:00:00Z", "2025-05-01T00:00:00Z"},
		{"start after end", 0, "2025-05-02T00:00:00Z", "2025-05-01T00:00:00Z"},
		{"garbage start", 0, "yesterday", "2025-05-01T00:00:00Z"},
		{"garbage end", 0, "2025-05-01T00:00:00Z", "tomorrow"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.hours, tt.start, tt.end, now)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !errs.IsKind(err, errs.Validation) {
				t.Errorf("kind = %v, want ValidationError", errs.KindOf(err))
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	rng := Range{
		Start: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC).UnixMilli(),
		End:   time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC).UnixMilli(),
	}
	d := rng.Describe()
	if d["start"] != "2025-05-01T00:00:00Z" {
		t.Errorf("start = %q", d["start"])
	}
	if d["end"] != "2025-05-02T00:00:00Z" {
		t.Errorf("end = %q", d["end"])
	}
}
