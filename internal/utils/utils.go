// Package utils carries the small helpers shared by every tool handler.
package utils

import (
	"encoding/json"
	"fmt"
	"time"

	"cloudwatch-mcp/internal/constants"
	"cloudwatch-mcp/internal/errs"
	"cloudwatch-mcp/internal/timerange"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ResolveRange applies the default lookback before delegating to the time
// range resolver. Handlers call this with their raw arguments.
func ResolveRange(hours float64, startTime, endTime string) (timerange.Range, error) {
	if hours == 0 && startTime == "" && endTime == "" {
		hours = constants.DefaultLookbackHours
	}
	return timerange.Resolve(hours, startTime, endTime, time.Now())
}

// JSONResult marshals v into a text content tool result.
func JSONResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil
}

// ErrorResult renders err as the structured error envelope every tool
// returns instead of raising a fault across the protocol boundary.
func ErrorResult(err error) *mcp.CallToolResult {
	env := errs.ToEnvelope(err)
	data, mErr := json.MarshalIndent(env, "", "  ")
	if mErr != nil {
		data = []byte(fmt.Sprintf(`{"errorKind":%q,"message":%q}`, env.ErrorKind, env.Message))
	}
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}
}
