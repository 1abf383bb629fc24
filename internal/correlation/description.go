package correlation

// CorrelateLogsDescription provides the description for the correlate_logs
// tool
const CorrelateLogsDescription = `Correlate logs across multiple CloudWatch log groups by a shared token such as a request ID, trace ID, or transaction ID.

Each group is searched for the term concurrently, and the matches are merged into a single timeline ordered by timestamp. Ties within the same millisecond order by log group name, so the output is deterministic. A failing group is reported in the errors map without discarding matches from the healthy groups.

Parameters:
- log_group_names: (Required) At least 2 distinct log groups to correlate across
- search_term: (Required) The token to match. A plain value is matched literally; a "key: value" form is matched as a JSON field condition against structured logs
- hours: (Optional) Number of hours to look back from now. Default: 24
- start_time / end_time: (Optional) RFC 3339 timestamps bounding the window; both must be provided together and take precedence over hours
- region / profile: (Optional) AWS overrides for this call

Returns the merged timeline, per-group match counts, and per-group errors.`
