package utils

import (
	"encoding/json"
	"fmt"
	"reflect"

	"cloudwatch-mcp/internal/models"

	"github.com/jmespath/go-jmespath"
)

// ExtractFirstValue evaluates the given JMESPath expression against each
// record's message (decoded as JSON if possible; otherwise wrapped as
// {"message": raw}) and returns the first non-empty string representation
// found. Array results use the first element only.
// Returns (value, true, nil) on success; ("", false, nil) if not found.
func ExtractFirstValue(records []models.LogRecord, expr string) (string, bool, error) {
	for _, rec := range records {
		if rec.Message == "" {
			continue
		}
		var input any
		var decoded any
		if err := json.Unmarshal([]byte(rec.Message), &decoded); err == nil {
			input = decoded
		} else {
			input = map[string]any{"message": rec.Message}
		}

		res, err := jmespath.Search(expr, input)
		if err != nil {
			return "", false, fmt.Errorf("jmespath search failed: %w", err)
		}
		if isEmpty(res) {
			continue
		}
		rv := reflect.ValueOf(res)
		if rv.IsValid() && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) {
			if rv.Len() == 0 {
				continue
			}
			res = rv.Index(0).Interface()
			if isEmpty(res) {
				continue
			}
		}
		switch v := res.(type) {
		case string:
			if v == "" {
				continue
			}
			return v, true, nil
		default:
			b, err := json.Marshal(v)
			if err != nil {
				return "", false, fmt.Errorf("marshal result failed: %w", err)
			}
			if len(b) == 0 || string(b) == "null" || string(b) == "[]" || string(b) == "{}" {
				continue
			}
			return string(b), true, nil
		}
	}
	return "", false, nil
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	}
	return false
}
