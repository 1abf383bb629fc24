// An MCP server implementation for CloudWatch Logs that enables AI agents
// to discover, search, and analyze log data.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"cloudwatch-mcp/internal/client"
	"cloudwatch-mcp/internal/constants"
	"cloudwatch-mcp/internal/models"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/peterbourgon/ff/v3"
	"go.uber.org/zap"
)

func main() {
	cfg, err := setupConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	provider := client.NewProvider(cfg)
	server := mcp.NewServer(&mcp.Implementation{
		Name:    constants.ServerName,
		Version: Version,
	}, nil)

	registerAllTools(server, provider, cfg, logger)
	registerAllPrompts(server)
	registerAllResources(server, provider, logger)

	if cfg.HTTPMode {
		if err := NewHTTPServer(server, cfg, logger).Start(); err != nil {
			logger.Fatal("http server", zap.Error(err))
		}
		return
	}

	// stdout carries the protocol in stdio mode; zap's production config
	// already logs to stderr.
	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// Version information
var (
	Version   = "dev"     // Set by goreleaser
	CommitSHA = "unknown" // Set by goreleaser
	BuildTime = "unknown" // Set by goreleaser
)

// setupConfig initializes and parses the configuration
func setupConfig() (models.Config, error) {
	fs := flag.NewFlagSet(constants.ServerName, flag.ExitOnError)

	var cfg models.Config
	fs.StringVar(&cfg.Region, "region", os.Getenv("AWS_REGION"), "AWS region")
	fs.StringVar(&cfg.Profile, "profile", os.Getenv("AWS_PROFILE"), "AWS shared config profile")
	fs.Float64Var(&cfg.RequestRateLimit, "rate", constants.DefaultRateLimit, "AWS requests per second limit")
	fs.IntVar(&cfg.RequestRateBurst, "burst", constants.DefaultRateBurst, "AWS request burst capacity")
	fs.IntVar(&cfg.MaxConcurrency, "max-concurrency", constants.DefaultMaxConcurrency, "Maximum concurrent backend queries per tool call")
	fs.DurationVar(&cfg.PollInterval, "poll-interval", constants.DefaultPollInterval, "Base delay between query status checks")
	fs.DurationVar(&cfg.MaxWait, "max-wait", constants.DefaultMaxWait, "Maximum wait for a query to complete")
	fs.BoolVar(&cfg.HTTPMode, "http", false, "Serve over HTTP instead of stdio")
	fs.StringVar(&cfg.Host, "host", constants.DefaultHost, "HTTP listen host")
	fs.StringVar(&cfg.Port, "port", constants.DefaultPort, "HTTP listen port")

	var configFile string
	fs.StringVar(&configFile, "config", "", "config file path")

	err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("CW_MCP"),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
	)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if cfg.RequestRateLimit <= 0 {
		return cfg, fmt.Errorf("rate must be positive, got %v", cfg.RequestRateLimit)
	}
	if cfg.MaxConcurrency < 1 {
		return cfg, fmt.Errorf("max-concurrency must be at least 1, got %d", cfg.MaxConcurrency)
	}
	if cfg.PollInterval <= 0 || cfg.MaxWait <= 0 {
		return cfg, fmt.Errorf("poll-interval and max-wait must be positive")
	}
	if cfg.PollInterval > cfg.MaxWait {
		return cfg, fmt.Errorf("poll-interval %v exceeds max-wait %v", cfg.PollInterval, cfg.MaxWait)
	}
	return cfg, nil
}
