package analysis

// SummarizeLogActivityDescription provides the description for the
// summarize_log_activity tool
const SummarizeLogActivityDescription = `Summarize activity in a CloudWatch log group: total events, distinct streams, and an hourly event-count distribution.

Runs two Logs Insights aggregation queries on the backend, so no raw events cross the wire.

Parameters:
- log_group_name: (Required) The log group to summarize
- hours: (Optional) Number of hours to look back from now. Default: 24
- start_time / end_time: (Optional) RFC 3339 timestamps bounding the window; both must be provided together and take precedence over hours
- region / profile: (Optional) AWS overrides for this call`

// FindErrorPatternsDescription provides the description for the
// find_error_patterns tool
const FindErrorPatternsDescription = `Find recurring error patterns in a CloudWatch log group.

Matching records are normalized: timestamps, UUIDs, hex identifiers, and numbers are replaced by placeholders so repeated occurrences of the same failure collapse onto one template. For example "Error 404 fetching /order/829" and "Error 404 fetching /order/17" count as one pattern. Templates are returned most frequent first with their occurrence window and a raw example.

Parameters:
- log_group_name: (Required) The log group to scan
- hours: (Optional) Number of hours to look back from now. Default: 24
- start_time / end_time: (Optional) RFC 3339 window; both together, takes precedence over hours
- markers: (Optional) Substrings that flag a record as an error, matched case-insensitively. Default: error, exception, fail, traceback
- max_patterns: (Optional) Maximum templates to return. Default: 20
- region / profile: (Optional) AWS overrides for this call`

// AnalyzeLogStructureDescription provides the description for the
// analyze_log_structure tool
const AnalyzeLogStructureDescription = `Analyze the structure of a log group's messages from a sample of its most recent records.

Classifies each sampled message as json, delimited (key=value or key: value pairs), or freeform, reports the majority format, and lists the most common field names with how often they appear.

Parameters:
- log_group_name: (Required) The log group to analyze
- sample_size: (Optional) Number of recent records to sample. Default: 50
- region / profile: (Optional) AWS overrides for this call`
