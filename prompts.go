package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// promptDef defines a prompt's metadata and its message builder.
type promptDef struct {
	prompt *mcp.Prompt
	build  func(args map[string]string) string
}

var promptDefs = []promptDef{
	{
		prompt: &mcp.Prompt{
			Name:        "list_cloudwatch_log_groups",
			Title:       "List CloudWatch Log Groups",
			Description: "Survey the account's CloudWatch log groups, optionally narrowed to a name prefix, and summarize what each one likely contains.",
			Arguments: []*mcp.PromptArgument{
				{Name: "prefix", Description: "Only consider log groups whose name starts with this prefix", Required: false},
			},
		},
		build: func(args map[string]string) string {
			var b strings.Builder
			b.WriteString("List the available CloudWatch log groups")
			if prefix := args["prefix"]; prefix != "" {
				fmt.Fprintf(&b, " with the prefix %q", prefix)
			}
			b.WriteString(" using the list_log_groups tool.\n\n")
			b.WriteString("For each group, note its name, retention, and stored bytes, ")
			b.WriteString("and suggest what kind of service or workload it belongs to based on its naming convention.")
			return b.String()
		},
	},
	{
		prompt: &mcp.Prompt{
			Name:        "analyze_cloudwatch_logs",
			Title:       "Analyze CloudWatch Logs",
			Description: "Guide an investigation of one log group: structure, recent errors, recurring error patterns, and activity volume.",
			Arguments: []*mcp.PromptArgument{
				{Name: "log_group_name", Description: "The log group to analyze", Required: true},
			},
		},
		build: func(args map[string]string) string {
			group := args["log_group_name"]
			var b strings.Builder
			fmt.Fprintf(&b, "Analyze the CloudWatch log group %q:\n\n", group)
			b.WriteString("1. Use analyze_log_structure to determine the message format and common fields.\n")
			b.WriteString("2. Use get_recent_errors to pull recent error events.\n")
			b.WriteString("3. Use find_error_patterns to identify recurring failures and when they started.\n")
			b.WriteString("4. Use summarize_log_activity to see how event volume is distributed over time.\n\n")
			b.WriteString("Summarize the health of the service behind this log group, call out the most ")
			b.WriteString("frequent error patterns with their first and last occurrence, and recommend ")
			b.WriteString("follow-up search_logs queries for anything that needs a closer look.")
			return b.String()
		},
	},
}

// registerAllPrompts registers the investigation prompts with the MCP server.
func registerAllPrompts(server *mcp.Server) {
	for _, def := range promptDefs {
		server.AddPrompt(def.prompt, makePromptHandler(def))
	}
}

// makePromptHandler returns a PromptHandler closure for the given prompt
// definition.
func makePromptHandler(def promptDef) mcp.PromptHandler {
	return func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		for _, arg := range def.prompt.Arguments {
			if arg.Required && req.Params.Arguments[arg.Name] == "" {
				return nil, fmt.Errorf("missing required argument %q", arg.Name)
			}
		}
		return &mcp.GetPromptResult{
			Description: def.prompt.Description,
			Messages: []*mcp.PromptMessage{
				{
					Role:    mcp.Role("user"),
					Content: &mcp.TextContent{Text: def.build(req.Params.Arguments)},
				},
			},
		}, nil
	}
}
