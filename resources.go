package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"cloudwatch-mcp/internal/analysis"
	"cloudwatch-mcp/internal/client"
	"cloudwatch-mcp/internal/constants"
	"cloudwatch-mcp/internal/discovery"
	"cloudwatch-mcp/internal/utils"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

const resourceScheme = "logs://groups"

// registerAllResources registers the browsable logs:// resource tree.
func registerAllResources(server *mcp.Server, p *client.Provider, log *zap.Logger) {
	r := &resources{provider: p, log: log}

	server.AddResource(&mcp.Resource{
		URI:         resourceScheme,
		Name:        "CloudWatch Log Groups",
		Description: "All CloudWatch log groups in the account",
		MIMEType:    "application/json",
	}, r.read)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: resourceScheme + "/filter/{prefix}",
		Name:        "Filtered Log Groups",
		Description: "Log groups whose name starts with the given prefix",
		MIMEType:    "application/json",
	}, r.read)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: resourceScheme + "/{logGroupName}",
		Name:        "Log Group Details",
		Description: "Retention, size, and ingest volume of one log group",
		MIMEType:    "application/json",
	}, r.read)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: resourceScheme + "/{logGroupName}/streams",
		Name:        "Log Group Streams",
		Description: "Most recently active streams of one log group",
		MIMEType:    "application/json",
	}, r.read)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: resourceScheme + "/{logGroupName}/streams/{logStreamName}",
		Name:        "Log Stream Events",
		Description: "Most recent events of one log stream",
		MIMEType:    "application/json",
	}, r.read)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: resourceScheme + "/{logGroupName}/sample",
		Name:        "Log Sample",
		Description: "Recent events from the group's most recently active stream",
		MIMEType:    "application/json",
	}, r.read)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: resourceScheme + "/{logGroupName}/recent-errors",
		Name:        "Recent Errors",
		Description: "Error events from the last 24 hours of one log group",
		MIMEType:    "application/json",
	}, r.read)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: resourceScheme + "/{logGroupName}/metrics",
		Name:        "Log Volume Metrics",
		Description: "Hourly incoming bytes and events over the last 24 hours",
		MIMEType:    "application/json",
	}, r.read)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: resourceScheme + "/{logGroupName}/structure",
		Name:        "Log Structure",
		Description: "Message format analysis of a recent record sample",
		MIMEType:    "application/json",
	}, r.read)
}

type resources struct {
	provider *client.Provider
	log      *zap.Logger
}

func (r *resources) read(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	rest, err := resourcePath(uri)
	if err != nil {
		return nil, err
	}
	r.log.Debug("resource read", zap.String("uri", uri))

	logs, err := r.provider.Logs(ctx, "", "")
	if err != nil {
		return nil, fmt.Errorf("aws client: %w", err)
	}
	metrics, err := r.provider.Metrics(ctx, "", "")
	if err != nil {
		return nil, fmt.Errorf("aws client: %w", err)
	}

	payload, err := resourcePayload(ctx, discovery.NewService(logs, metrics), rest)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{URI: uri, MIMEType: "application/json", Text: string(data)},
		},
	}, nil
}

// resourcePayload dispatches on the URI shape. Log group names may contain
// slashes, so the known suffixes are split off first and whatever remains is
// the group.
func resourcePayload(ctx context.Context, svc *discovery.Service, rest string) (any, error) {
	switch {
	case rest == "":
		return svc.ListGroups(ctx, "", constants.DefaultGroupLimit, "")
	case strings.HasPrefix(rest, "filter/"):
		return svc.ListGroups(ctx, strings.TrimPrefix(rest, "filter/"), constants.DefaultGroupLimit, "")
	case strings.HasSuffix(rest, "/streams"):
		return svc.ListStreams(ctx, strings.TrimSuffix(rest, "/streams"), constants.DefaultStreamLimit)
	case strings.Contains(rest, "/streams/"):
		i := strings.LastIndex(rest, "/streams/")
		return svc.StreamEvents(ctx, rest[:i], rest[i+len("/streams/"):], constants.DefaultEventLimit)
	case strings.HasSuffix(rest, "/sample"):
		return svc.RecentSample(ctx, strings.TrimSuffix(rest, "/sample"), constants.DefaultSampleSize)
	case strings.HasSuffix(rest, "/recent-errors"):
		group := strings.TrimSuffix(rest, "/recent-errors")
		rng, err := utils.ResolveRange(constants.DefaultLookbackHours, "", "")
		if err != nil {
			return nil, err
		}
		records, err := svc.FetchFiltered(ctx, group, discovery.ErrorFilterPattern, rng, constants.DefaultEventLimit)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"logGroup":   group,
			"timeRange":  rng.Describe(),
			"errorCount": len(records),
			"errors":     records,
		}, nil
	case strings.HasSuffix(rest, "/metrics"):
		rng, err := utils.ResolveRange(constants.DefaultLookbackHours, "", "")
		if err != nil {
			return nil, err
		}
		return svc.VolumeMetrics(ctx, strings.TrimSuffix(rest, "/metrics"), rng)
	case strings.HasSuffix(rest, "/structure"):
		group := strings.TrimSuffix(rest, "/structure")
		sample, err := svc.RecentSample(ctx, group, constants.DefaultSampleSize)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"logGroup":  group,
			"logStream": sample.LogStream,
			"structure": analysis.AnalyzeStructure(sample.Events, 5),
		}, nil
	default:
		rng, err := utils.ResolveRange(constants.DefaultLookbackHours, "", "")
		if err != nil {
			return nil, err
		}
		return svc.DescribeGroup(ctx, rest, rng)
	}
}

// resourcePath strips the scheme prefix and decodes percent escapes.
func resourcePath(uri string) (string, error) {
	if !strings.HasPrefix(uri, resourceScheme) {
		return "", fmt.Errorf("unsupported resource URI %q", uri)
	}
	rest := strings.TrimPrefix(strings.TrimPrefix(uri, resourceScheme), "/")
	return url.PathUnescape(rest)
}
