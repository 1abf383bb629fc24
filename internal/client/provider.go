package client

import (
	"context"
	"sync"

	"cloudwatch-mcp/internal/models"

	"golang.org/x/time/rate"
)

// Provider hands out AWS clients for a (profile, region) pair, caching them
// so per-call credential overrides don't rebuild the SDK config every time.
// Session overrides are explicit arguments on every lookup rather than
// ambient process state.
type Provider struct {
	cfg     models.Config
	limiter *rate.Limiter

	mu    sync.Mutex
	cache map[string]clientPair
}

type clientPair struct {
	logs    LogsAPI
	metrics MetricsAPI
}

// NewProvider creates a Provider. All clients it returns share one rate
// limiter sized from cfg.
func NewProvider(cfg models.Config) *Provider {
	return &Provider{
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestRateLimit), cfg.RequestRateBurst),
		cache:   make(map[string]clientPair),
	}
}

// Logs returns a rate-limited CloudWatch Logs client for the given overrides,
// falling back to the configured defaults when either is empty.
func (p *Provider) Logs(ctx context.Context, profile, region string) (LogsAPI, error) {
	pair, err := p.get(ctx, profile, region)
	if err != nil {
		return nil, err
	}
	return pair.logs, nil
}

// Metrics returns a rate-limited CloudWatch metrics client for the given
// overrides.
func (p *Provider) Metrics(ctx context.Context, profile, region string) (MetricsAPI, error) {
	pair, err := p.get(ctx, profile, region)
	if err != nil {
		return nil, err
	}
	return pair.metrics, nil
}

func (p *Provider) get(ctx context.Context, profile, region string) (clientPair, error) {
	if profile == "" {
		profile = p.cfg.Profile
	}
	if region == "" {
		region = p.cfg.Region
	}
	key := profile + "\x00" + region

	p.mu.Lock()
	defer p.mu.Unlock()
	if pair, ok := p.cache[key]; ok {
		return pair, nil
	}

	logs, metrics, err := New(ctx, region, profile)
	if err != nil {
		return clientPair{}, err
	}
	pair := clientPair{
		logs:    ThrottleLogs(logs, p.limiter),
		metrics: ThrottleMetrics(metrics, p.limiter),
	}
	p.cache[key] = pair
	return pair, nil
}
