package testutil

import (
	"encoding/json"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

// TextContent extracts the text payload of a tool result.
func TextContent(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	tc, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return tc.Text
}

// DecodeJSON unmarshals a tool result's text payload into a generic map.
func DecodeJSON(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(TextContent(t, result)), &out))
	return out
}

// ThrottlingErr builds the transient backend error the retry paths look for.
func ThrottlingErr() error {
	return &smithy.GenericAPIError{Code: "ThrottlingException", Message: "rate exceeded"}
}

// AccessDeniedErr builds a non-transient backend error.
func AccessDeniedErr() error {
	return &smithy.GenericAPIError{Code: "AccessDeniedException", Message: "not authorized"}
}
