// Package correlation finds records sharing a token (request ID, transaction
// ID, ...) across log groups and merges them into one timeline.
package correlation

import (
	"container/heap"
	"context"
	"regexp"
	"sort"
	"sync"

	"cloudwatch-mcp/internal/constants"
	"cloudwatch-mcp/internal/discovery"
	"cloudwatch-mcp/internal/errs"
	"cloudwatch-mcp/internal/models"
	"cloudwatch-mcp/internal/timerange"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Fetcher is the record-fetch collaborator: everything that can return
// time-ordered records matching a filter. discovery.Service implements it.
type Fetcher interface {
	FetchFiltered(ctx context.Context, logGroup, pattern string, rng timerange.Range, limit int32) ([]models.LogRecord, error)
}

// Engine correlates records across log groups.
type Engine struct {
	fetch Fetcher
	log   *zap.Logger

	MaxConcurrency int64
	Limit          int32
}

// NewEngine creates an Engine over the given fetcher.
func NewEngine(fetch Fetcher, log *zap.Logger, maxConcurrency int) *Engine {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &Engine{
		fetch:          fetch,
		log:            log,
		MaxConcurrency: int64(maxConcurrency),
		Limit:          constants.DefaultEventLimit,
	}
}

// Result is a correlated, globally ordered view of matching records.
type Result struct {
	Token          string
	Range          timerange.Range
	Matches        []models.LogRecord
	GroupCounts    map[string]int
	PerGroupErrors map[string]*errs.Envelope
}

// fieldQuery matches tokens shaped like "key: value", which are treated as
// structured field conditions instead of literal substrings.
var fieldQuery = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_.]*)\s*:\s*(\S.*)$`)

// tokenFilter converts a correlation token into a CloudWatch filter pattern:
// a JSON field condition for "key: value" tokens, a quoted literal otherwise.
func tokenFilter(token string) string {
	if m := fieldQuery.FindStringSubmatch(token); m != nil {
		return `{ $.` + m[1] + ` = "` + m[2] + `" }`
	}
	return discovery.QuoteFilterPattern(token)
}

// Correlate searches every group for the token and merges the per-group
// matches into one sequence ordered by (timestamp, logGroup, fetch order).
// Per-group failures are reported alongside the matches from healthy groups.
func (e *Engine) Correlate(ctx context.Context, logGroups []string, token string, rng timerange.Range) (*Result, error) {
	groups := distinct(logGroups)
	if len(groups) < 2 {
		return nil, errs.Validationf("correlation requires at least 2 distinct log groups, got %d", len(groups))
	}
	if token == "" {
		return nil, errs.Validationf("no search term specified")
	}

	pattern := tokenFilter(token)
	perGroup := make([][]models.LogRecord, len(groups))
	res := &Result{
		Token:          token,
		Range:          rng,
		GroupCounts:    make(map[string]int, len(groups)),
		PerGroupErrors: make(map[string]*errs.Envelope),
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = semaphore.NewWeighted(e.MaxConcurrency)
	)
	for i, group := range groups {
		if err := sem.Acquire(ctx, 1); err != nil {
			mu.Lock()
			for _, pending := range groups[i:] {
				res.PerGroupErrors[pending] = errs.ToEnvelope(errs.WithGroup(pending,
					errs.Timeoutf("aggregate deadline exceeded before fetch started")))
			}
			mu.Unlock()
			break
		}
		wg.Add(1)
		go func(i int, group string) {
			defer wg.Done()
			defer sem.Release(1)
			records, err := e.fetch.FetchFiltered(ctx, group, pattern, rng, e.Limit)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				e.log.Debug("group fetch failed", zap.String("logGroup", group), zap.Error(err))
				res.PerGroupErrors[group] = errs.ToEnvelope(errs.WithGroup(group, err))
				return
			}
			// Backend order is already chronological; the stable sort
			// re-establishes it defensively while preserving fetch order
			// for equal timestamps.
			sort.SliceStable(records, func(a, b int) bool {
				return records[a].Timestamp < records[b].Timestamp
			})
			perGroup[i] = records
			res.GroupCounts[group] = len(records)
		}(i, group)
	}
	wg.Wait()

	if len(res.PerGroupErrors) == len(groups) {
		return nil, errs.Remotef("all %d log groups failed", len(groups))
	}

	matches, err := mergeOrdered(perGroup)
	if err != nil {
		return nil, err
	}
	res.Matches = matches
	if len(res.PerGroupErrors) == 0 {
		res.PerGroupErrors = nil
	}
	return res, nil
}

// mergeOrdered k-way merges per-group record lists, each already sorted by
// timestamp, into one sequence keyed (timestamp, logGroup, order). The
// tie-break makes the output deterministic when groups log within the same
// millisecond.
func mergeOrdered(lists [][]models.LogRecord) ([]models.LogRecord, error) {
	h := make(mergeHeap, 0, len(lists))
	total := 0
	for src, list := range lists {
		total += len(list)
		if len(list) > 0 {
			h = append(h, mergeItem{rec: list[0], src: src, next: 1})
		}
	}
	heap.Init(&h)

	merged := make([]models.LogRecord, 0, total)
	for h.Len() > 0 {
		item := heap.Pop(&h).(mergeItem)
		if n := len(merged); n > 0 && merged[n-1].Timestamp > item.rec.Timestamp {
			return nil, errs.Internalf("merge received unsorted input for %s", item.rec.LogGroup)
		}
		merged = append(merged, item.rec)
		if item.next < len(lists[item.src]) {
			heap.Push(&h, mergeItem{rec: lists[item.src][item.next], src: item.src, next: item.next + 1})
		}
	}
	return merged, nil
}

type mergeItem struct {
	rec  models.LogRecord
	src  int
	next int
}

type mergeHeap []mergeItem

func (h mergeHeap) Len() int { return len(h) }

func (h mergeHeap) Less(i, j int) bool {
	a, b := h[i].rec, h[j].rec
	if a.Timestamp != b.Timestamp {
		return a.Timestamp < b.Timestamp
	}
	if a.LogGroup != b.LogGroup {
		return a.LogGroup < b.LogGroup
	}
	return a.Order < b.Order
}

func (h mergeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *mergeHeap) Push(x any) { *h = append(*h, x.(mergeItem)) }

func (h *mergeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// distinct drops duplicates and empty names, keeping first-seen order.
func distinct(groups []string) []string {
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
