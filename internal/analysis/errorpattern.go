package analysis

import (
	"regexp"
	"sort"
	"strings"

	"cloudwatch-mcp/internal/constants"
	"cloudwatch-mcp/internal/models"
)

// DefaultErrorMarkers are the substrings that flag a record as an error when
// the caller supplies none. Matching is case-insensitive.
var DefaultErrorMarkers = []string{"error", "exception", "fail", "traceback"}

// Pattern is one normalized error template and its occurrence window.
type Pattern struct {
	Template  string `json:"template"`
	Count     int    `json:"count"`
	FirstSeen string `json:"firstSeen"`
	LastSeen  string `json:"lastSeen"`
	Example   string `json:"example"`
}

var (
	timestampRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:[.,]\d+)?(?:Z|[+-]\d{2}:?\d{2})?`)
	uuidRe      = regexp.MustCompile(`\b[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}\b`)
	hexRe       = regexp.MustCompile(`\b(?:0[xX][0-9a-fA-F]+|[0-9a-fA-F]{8,})\b`)
	// numRe swallows any token carrying a digit, not just bare digit runs,
	// so short request ids like abc123 and def456 land on one template.
	numRe   = regexp.MustCompile(`[A-Za-z0-9]*\d[A-Za-z0-9]*`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// Normalize strips the volatile parts of an error message so repeated
// occurrences collapse onto one template. Placeholders contain no digits or
// hex characters, which makes the function idempotent. Replacement order
// matters: timestamps before numbers and ids, UUIDs before hex runs.
func Normalize(msg string) string {
	msg = timestampRe.ReplaceAllString(msg, "<timestamp>")
	msg = uuidRe.ReplaceAllString(msg, "<uuid>")
	msg = hexRe.ReplaceAllString(msg, "<hex>")
	msg = numRe.ReplaceAllString(msg, "<num>")
	return strings.TrimSpace(spaceRe.ReplaceAllString(msg, " "))
}

// MatchesError reports whether the message contains any marker,
// case-insensitively.
func MatchesError(msg string, markers []string) bool {
	lower := strings.ToLower(msg)
	for _, m := range markers {
		if strings.Contains(lower, strings.ToLower(m)) {
			return true
		}
	}
	return false
}

// DetectPatterns groups error records by normalized template and returns the
// most frequent ones. Output order is count descending, then most recently
// seen, then template, so equal inputs always produce equal output.
func DetectPatterns(records []models.LogRecord, markers []string, maxPatterns int) []Pattern {
	if len(markers) == 0 {
		markers = DefaultErrorMarkers
	}
	if maxPatterns <= 0 {
		maxPatterns = constants.DefaultMaxPatterns
	}

	type bucket struct {
		count     int
		firstSeen int64
		lastSeen  int64
		example   string
	}
	buckets := map[string]*bucket{}
	for _, rec := range records {
		if !MatchesError(rec.Message, markers) {
			continue
		}
		tmpl := Normalize(rec.Message)
		b, ok := buckets[tmpl]
		if !ok {
			buckets[tmpl] = &bucket{count: 1, firstSeen: rec.Timestamp, lastSeen: rec.Timestamp, example: rec.Message}
			continue
		}
		b.count++
		if rec.Timestamp < b.firstSeen {
			b.firstSeen = rec.Timestamp
		}
		if rec.Timestamp > b.lastSeen {
			b.lastSeen = rec.Timestamp
		}
	}

	patterns := make([]Pattern, 0, len(buckets))
	for tmpl, b := range buckets {
		patterns = append(patterns, Pattern{
			Template:  tmpl,
			Count:     b.count,
			FirstSeen: models.FormatTimestamp(b.firstSeen),
			LastSeen:  models.FormatTimestamp(b.lastSeen),
			Example:   b.example,
		})
	}
	sort.Slice(patterns, func(i, j int) bool {
		a, b := patterns[i], patterns[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.LastSeen != b.LastSeen {
			return a.LastSeen > b.LastSeen
		}
		return a.Template < b.Template
	})
	if len(patterns) > maxPatterns {
		patterns = patterns[:maxPatterns]
	}
	return patterns
}
