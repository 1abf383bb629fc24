// Package search fans Insights queries out across log groups and exposes
// the search and filter tools.
package search

import (
	"context"
	"sync"

	"cloudwatch-mcp/internal/errs"
	"cloudwatch-mcp/internal/query"
	"cloudwatch-mcp/internal/timerange"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Searcher runs one query per log group with bounded concurrency and
// aggregates the outcomes under partial-failure semantics.
type Searcher struct {
	exec *query.Executor
	log  *zap.Logger

	// MaxConcurrency caps simultaneous in-flight queries; additional groups
	// queue in submission order and start as slots free.
	MaxConcurrency int64
}

// NewSearcher creates a Searcher over the given executor.
func NewSearcher(exec *query.Executor, log *zap.Logger, maxConcurrency int) *Searcher {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &Searcher{exec: exec, log: log, MaxConcurrency: int64(maxConcurrency)}
}

// Result is the aggregate outcome of a multi-group search. Every requested
// group appears in exactly one of the two maps.
type Result struct {
	Results map[string]*query.ResultSet `json:"results"`
	Errors  map[string]*errs.Envelope   `json:"errors,omitempty"`
}

// Search runs queryText against every group. One group failing never aborts
// its siblings; the call itself fails only when the group set is empty or
// every group failed.
func (s *Searcher) Search(ctx context.Context, logGroups []string, queryText string, rng timerange.Range, sortByTime bool) (*Result, error) {
	groups := dedupe(logGroups)
	if len(groups) == 0 {
		return nil, errs.Validationf("no log groups specified")
	}

	res := &Result{
		Results: make(map[string]*query.ResultSet, len(groups)),
		Errors:  make(map[string]*errs.Envelope),
	}
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = semaphore.NewWeighted(s.MaxConcurrency)
	)

	for i, group := range groups {
		// Acquiring before spawn keeps start order FIFO. Once the aggregate
		// deadline hits, every still-queued group becomes a timeout error
		// instead of blocking the response.
		if err := sem.Acquire(ctx, 1); err != nil {
			for _, pending := range groups[i:] {
				res.Errors[pending] = errs.ToEnvelope(errs.WithGroup(pending,
					errs.Timeoutf("aggregate deadline exceeded before query started")))
			}
			break
		}
		wg.Add(1)
		go func(group string) {
			defer wg.Done()
			defer sem.Release(1)
			rs, err := s.exec.Run(ctx, []string{group}, queryText, rng)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.log.Debug("group search failed", zap.String("logGroup", group), zap.Error(err))
				res.Errors[group] = errs.ToEnvelope(errs.WithGroup(group, err))
				return
			}
			if sortByTime {
				rs.SortByTimestamp()
			}
			res.Results[group] = rs
		}(group)
	}
	wg.Wait()

	if len(res.Results) == 0 {
		return nil, errs.Remotef("all %d log groups failed", len(groups))
	}
	if len(res.Errors) == 0 {
		res.Errors = nil
	}
	return res, nil
}

// dedupe drops repeated group names while keeping first-seen order.
func dedupe(groups []string) []string {
	seen := make(map[string]struct{}, len(groups))
	out := groups[:0:0]
	for _, g := range groups {
		if g == "" {
			continue
		}
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}
