package search

// SearchLogsDescription provides the description for the search_logs tool
const SearchLogsDescription = `Search logs in a single CloudWatch log group using Logs Insights query syntax.

The query runs asynchronously on the backend; this tool submits it, polls to completion, and returns the result rows.

Parameters:
- log_group_name: (Required) The log group to search
- query: (Required) CloudWatch Logs Insights query, e.g. "fields @timestamp, @message | filter @message like /timeout/ | limit 50"
- hours: (Optional) Number of hours to look back from now. Default: 24
- start_time / end_time: (Optional) RFC 3339 timestamps bounding the search window; both must be provided together and take precedence over hours
- region / profile: (Optional) AWS overrides for this call

Returns result rows as field/value objects plus query statistics (bytes scanned, records matched).`

// SearchLogsMultiDescription provides the description for the
// search_logs_multi tool
const SearchLogsMultiDescription = `Search several CloudWatch log groups with one Logs Insights query, fanning out one backend query per group.

Groups are queried concurrently up to max_concurrency; the rest queue and start as slots free. A failing group never aborts its siblings: the response contains a result or an error for every requested group. The call only fails outright when every group failed.

Parameters:
- log_group_names: (Required) Log groups to search
- query: (Required) CloudWatch Logs Insights query
- hours: (Optional) Number of hours to look back from now. Default: 24
- start_time / end_time: (Optional) RFC 3339 window; both together, takes precedence over hours
- max_concurrency: (Optional) Simultaneous in-flight queries. Default: server setting
- sort_by_time: (Optional) Re-sort each group's rows by @timestamp ascending instead of keeping backend order
- region / profile: (Optional) AWS overrides for this call

Returns a per-group results map and a per-group errors map.`

// FilterLogEventsDescription provides the description for the
// filter_log_events tool
const FilterLogEventsDescription = `Filter log events by pattern across all streams of a log group using CloudWatch filter syntax.

This is the direct event-fetch path: no query job, just matching raw events in time order. Optionally evaluates a JMESPath expression against the matched events (each message decoded as JSON when possible) and returns the first non-empty value, which is useful for pulling a request ID or similar token out of the matches.

Parameters:
- log_group_name: (Required) The log group to filter
- filter_pattern: (Required) CloudWatch Logs filter pattern; quote terms containing special characters, e.g. "\"GET /api\""
- hours: (Optional) Number of hours to look back from now. Default: 24
- start_time / end_time: (Optional) RFC 3339 window; both together, takes precedence over hours
- limit: (Optional) Maximum events to return. Default: 100
- extract: (Optional) JMESPath expression, e.g. "requestId" or "error.code"
- region / profile: (Optional) AWS overrides for this call`
