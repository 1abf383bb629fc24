// Package timerange normalizes relative and absolute time windows into a
// canonical [start, end) epoch-millisecond range.
package timerange

import (
	"time"

	"cloudwatch-mcp/internal/errs"
	"cloudwatch-mcp/internal/models"
)

// Range is a half-open [Start, End) window in epoch milliseconds.
// Start < End always holds for ranges produced by Resolve.
type Range struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// StartTime returns the range start as a time.Time in UTC.
func (r Range) StartTime() time.Time { return time.UnixMilli(r.Start).UTC() }

// EndTime returns the range end as a time.Time in UTC.
func (r Range) EndTime() time.Time { return time.UnixMilli(r.End).UTC() }

// Describe renders the range for tool responses.
func (r Range) Describe() map[string]string {
	return map[string]string{
		"start": models.FormatTimestamp(r.Start),
		"end":   models.FormatTimestamp(r.End),
	}
}

// Resolve computes the query window from either an absolute pair of RFC 3339
// endpoints or a relative lookback in hours. Supplying only one endpoint is
// rejected: a caller must give a fully bounded range or a relative offset.
func Resolve(hours float64, startTime, endTime string, now time.Time) (Range, error) {
	switch {
	case startTime != "" && endTime != "":
		start, err := time.Parse(time.RFC3339, startTime)
		if err != nil {
			return Range{}, errs.Validationf("invalid start_time %q: %v", startTime, err)
		}
		end, err := time.Parse(time.RFC3339, endTime)
		if err != nil {
			return Range{}, errs.Validationf("invalid end_time %q: %v", endTime, err)
		}
		if !start.Before(end) {
			return Range{}, errs.Validationf("start_time %q must be before end_time %q", startTime, endTime)
		}
		return Range{Start: start.UnixMilli(), End: end.UnixMilli()}, nil

	case startTime != "" || endTime != "":
		return Range{}, errs.Validationf("start_time and end_time must be provided together")

	default:
		if hours <= 0 {
			return Range{}, errs.Validationf("hours must be positive, got %v", hours)
		}
		end := now.UnixMilli()
		start := end - int64(hours*float64(time.Hour/time.Millisecond))
		return Range{Start: start, End: end}, nil
	}
}
