package analysis

import (
	"context"
	"strconv"

	"cloudwatch-mcp/internal/errs"
	"cloudwatch-mcp/internal/query"
	"cloudwatch-mcp/internal/timerange"
)

// ActivitySummary aggregates a group's event volume over a window.
type ActivitySummary struct {
	LogGroup        string            `json:"logGroup"`
	TimeRange       map[string]string `json:"timeRange"`
	TotalEvents     int64             `json:"totalEvents"`
	DistinctStreams int64             `json:"distinctStreams"`
	HourlyCounts    []HourlyCount     `json:"hourlyCounts"`
}

// HourlyCount is one hour bucket of event volume.
type HourlyCount struct {
	Hour  string `json:"hour"`
	Count int64  `json:"count"`
}

const (
	totalsQuery = `stats count(*) as total, count_distinct(@logStream) as streams`
	hourlyQuery = `stats count(*) as count by bin(1h) as hour | sort hour asc`
)

// Summarizer runs the activity-summary queries through an Insights executor.
type Summarizer struct {
	exec *query.Executor
}

// NewSummarizer creates a Summarizer over the given executor.
func NewSummarizer(exec *query.Executor) *Summarizer {
	return &Summarizer{exec: exec}
}

// Summarize runs two Insights queries against the group, one for the totals
// and one for the hourly distribution, and folds them into one summary.
func (s *Summarizer) Summarize(ctx context.Context, logGroup string, rng timerange.Range) (*ActivitySummary, error) {
	if logGroup == "" {
		return nil, errs.Validationf("no log group specified")
	}

	summary := &ActivitySummary{
		LogGroup:     logGroup,
		TimeRange:    rng.Describe(),
		HourlyCounts: []HourlyCount{},
	}

	totals, err := s.exec.Run(ctx, []string{logGroup}, totalsQuery, rng)
	if err != nil {
		return nil, errs.WithGroup(logGroup, err)
	}
	if len(totals.Results) > 0 {
		row := totals.Results[0]
		summary.TotalEvents = parseCount(row["total"])
		summary.DistinctStreams = parseCount(row["streams"])
	}

	hourly, err := s.exec.Run(ctx, []string{logGroup}, hourlyQuery, rng)
	if err != nil {
		return nil, errs.WithGroup(logGroup, err)
	}
	for _, row := range hourly.Results {
		summary.HourlyCounts = append(summary.HourlyCounts, HourlyCount{
			Hour:  row["hour"],
			Count: parseCount(row["count"]),
		})
	}
	return summary, nil
}

// parseCount reads an Insights numeric field, which arrives as a string and
// may carry a fractional part.
func parseCount(s string) int64 {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}
