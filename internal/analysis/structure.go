// Package analysis derives structure, error patterns, and activity summaries
// from raw log records without shipping them anywhere.
package analysis

import (
	"encoding/json"
	"regexp"
	"sort"

	"cloudwatch-mcp/internal/models"
)

// Format classifies the dominant shape of a group's log messages.
type Format string

const (
	FormatJSON      Format = "json"
	FormatDelimited Format = "delimited"
	FormatFreeform  Format = "freeform"
)

// StructureReport describes the message shape of a record sample.
type StructureReport struct {
	Format         Format         `json:"format"`
	SampleSize     int            `json:"sampleSize"`
	FormatCounts   map[Format]int `json:"formatCounts"`
	CommonFields   []FieldCount   `json:"commonFields"`
	SampleMessages []string       `json:"sampleMessages"`
}

// FieldCount is one field name with the number of sampled records carrying it.
type FieldCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// kvPair matches "key=value" and "key: value" tokens inside a message. The
// value may be quoted or a bare word.
var kvPair = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_.-]*)\s*([=:])\s*("[^"]*"|\S+)`)

// AnalyzeStructure inspects a sample of records and reports the majority
// message format plus field frequency. An empty sample yields a freeform
// report with zero counts rather than an error.
func AnalyzeStructure(records []models.LogRecord, sampleMessages int) *StructureReport {
	report := &StructureReport{
		Format:       FormatFreeform,
		SampleSize:   len(records),
		FormatCounts: map[Format]int{},
	}
	if len(records) == 0 {
		report.CommonFields = []FieldCount{}
		report.SampleMessages = []string{}
		return report
	}

	fields := map[string]int{}
	for _, rec := range records {
		format, keys := classifyMessage(rec.Message)
		report.FormatCounts[format]++
		for _, k := range keys {
			fields[k]++
		}
	}

	// Majority wins; on a tied count the more structured format takes it,
	// json over delimited over freeform.
	for _, f := range []Format{FormatDelimited, FormatJSON} {
		if report.FormatCounts[f] >= report.FormatCounts[report.Format] {
			report.Format = f
		}
	}

	report.CommonFields = make([]FieldCount, 0, len(fields))
	for name, count := range fields {
		report.CommonFields = append(report.CommonFields, FieldCount{Name: name, Count: count})
	}
	sort.Slice(report.CommonFields, func(i, j int) bool {
		a, b := report.CommonFields[i], report.CommonFields[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Name < b.Name
	})

	n := sampleMessages
	if n > len(records) {
		n = len(records)
	}
	report.SampleMessages = make([]string, 0, n)
	for _, rec := range records[:n] {
		report.SampleMessages = append(report.SampleMessages, rec.Message)
	}
	return report
}

// classifyMessage decides the format of one message and returns the field
// names it carries. A lone "key: value" pair is too weak a signal to call a
// message delimited, since plain prose like "INFO: starting" matches too;
// "=" separators count on their own.
func classifyMessage(msg string) (Format, []string) {
	var obj map[string]json.RawMessage
	if json.Unmarshal([]byte(msg), &obj) == nil && len(obj) > 0 {
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		return FormatJSON, keys
	}

	pairs := kvPair.FindAllStringSubmatch(msg, -1)
	equals := 0
	for _, p := range pairs {
		if p[2] == "=" {
			equals++
		}
	}
	if equals >= 1 || len(pairs) >= 2 {
		keys := make([]string, 0, len(pairs))
		for _, p := range pairs {
			keys = append(keys, p[1])
		}
		return FormatDelimited, keys
	}
	return FormatFreeform, nil
}
