package discovery

// ListLogGroupsDescription provides the description for the list_log_groups
// tool
const ListLogGroupsDescription = `List CloudWatch log groups in the account, optionally filtered by name prefix.

Parameters:
- prefix: (Optional) Only return groups whose name starts with this prefix
- limit: (Optional) Maximum groups to return. Default: 50
- next_token: (Optional) Pagination token from a previous call
- region / profile: (Optional) AWS overrides for this call

Returns group names, ARNs, stored bytes, creation times, and a nextToken when more groups exist.`

// DescribeLogGroupDescription provides the description for the
// describe_log_group tool
const DescribeLogGroupDescription = `Describe one CloudWatch log group in detail: retention policy, stored bytes, metric filter count, KMS key, and hourly incoming-bytes datapoints for the last 24 hours.

Parameters:
- log_group_name: (Required) The exact log group name
- region / profile: (Optional) AWS overrides for this call`

// ListLogStreamsDescription provides the description for the
// list_log_streams tool
const ListLogStreamsDescription = `List the streams of a CloudWatch log group, most recently active first.

Parameters:
- log_group_name: (Required) The log group whose streams to list
- limit: (Optional) Maximum streams to return. Default: 20
- region / profile: (Optional) AWS overrides for this call`

// GetLogEventsDescription provides the description for the get_log_events
// tool
const GetLogEventsDescription = `Get the most recent events from one stream of a CloudWatch log group.

Parameters:
- log_group_name: (Required) The log group containing the stream
- log_stream_name: (Required) The stream to read
- limit: (Optional) Maximum events to return. Default: 100
- region / profile: (Optional) AWS overrides for this call`

// GetLogSampleDescription provides the description for the get_log_sample
// tool
const GetLogSampleDescription = `Get a sample of recent events from a CloudWatch log group's most recently active stream. Useful for a quick look at what the group's messages look like. A group with no streams returns an empty sample.

Parameters:
- log_group_name: (Required) The log group to sample
- limit: (Optional) Maximum events to sample. Default: 10
- region / profile: (Optional) AWS overrides for this call`

// GetRecentErrorsDescription provides the description for the
// get_recent_errors tool
const GetRecentErrorsDescription = `Get recent error events from a CloudWatch log group, matching common error markers (error, exception, fail, traceback) across all of its streams.

Parameters:
- log_group_name: (Required) The log group to scan
- hours: (Optional) Number of hours to look back from now. Default: 24
- start_time / end_time: (Optional) RFC 3339 window; both together, takes precedence over hours
- limit: (Optional) Maximum events to return. Default: 100
- region / profile: (Optional) AWS overrides for this call`

// GetLogMetricsDescription provides the description for the get_log_metrics
// tool
const GetLogMetricsDescription = `Get ingest-volume metrics for a CloudWatch log group: IncomingBytes and IncomingLogEvents summed per hour over the window, plus window totals.

Parameters:
- log_group_name: (Required) The log group whose metrics to fetch
- hours: (Optional) Number of hours to look back from now. Default: 24
- start_time / end_time: (Optional) RFC 3339 window; both together, takes precedence over hours
- region / profile: (Optional) AWS overrides for this call`
