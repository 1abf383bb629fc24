package utils

import (
	"encoding/json"
	"testing"

	"cloudwatch-mcp/internal/errs"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

func TestErrorResultEnvelope(t *testing.T) {
	result := ErrorResult(errs.WithGroup("/app/api", errs.Timeoutf("query q-1 did not complete within 30s")))
	require.True(t, result.IsError)
	require.Len(t, result.Content, 1)

	text := result.Content[0].(*mcp.TextContent).Text
	var env errs.Envelope
	require.NoError(t, json.Unmarshal([]byte(text), &env))
	require.Equal(t, "TimeoutError", env.ErrorKind)
	require.Equal(t, "/app/api", env.LogGroup)
	require.Contains(t, env.Message, "did not complete")
}

func TestJSONResult(t *testing.T) {
	result, err := JSONResult(map[string]any{"count": 3})
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := result.Content[0].(*mcp.TextContent).Text
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	require.EqualValues(t, 3, out["count"])
}

func TestResolveRangeDefaultsLookback(t *testing.T) {
	rng, err := ResolveRange(0, "", "")
	require.NoError(t, err)
	window := rng.End - rng.Start
	require.EqualValues(t, 24*3_600_000, window)
}

func TestResolveRangeRejectsSingleEndpoint(t *testing.T) {
	_, err := ResolveRange(0, "2025-05-01T00:00:00Z", "")
	require.Error(t, err)
	require.True(t, errs.IsKind(err, errs.Validation))
}
