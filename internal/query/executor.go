// Package query drives CloudWatch Logs Insights queries through their
// submit -> poll -> complete lifecycle.
package query

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"cloudwatch-mcp/internal/client"
	"cloudwatch-mcp/internal/constants"
	"cloudwatch-mcp/internal/errs"
	"cloudwatch-mcp/internal/models"
	"cloudwatch-mcp/internal/timerange"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

// State tracks a job through its lifecycle. Transitions are monotonic:
// Submitted -> Polling -> one of the terminal states.
type State string

const (
	StateSubmitted State = "Submitted"
	StatePolling   State = "Polling"
	StateComplete  State = "Complete"
	StateFailed    State = "Failed"
	StateTimedOut  State = "TimedOut"
	StateCancelled State = "Cancelled"
)

// Job is a handle to one backend-executed Insights query. A Job belongs to
// the Executor call chain that created it and is never shared across
// concurrent polls.
type Job struct {
	ID          string
	LogGroups   []string
	QueryText   string
	Range       timerange.Range
	State       State
	SubmittedAt time.Time
}

// Executor submits Insights queries and polls them to completion under a
// time budget. The zero value is not usable; use New.
type Executor struct {
	api client.LogsAPI
	log *zap.Logger

	// PollInterval is the base delay between status checks, jittered
	// +/-20% per tick.
	PollInterval time.Duration
	// MaxWait bounds the whole submit-to-terminal wait.
	MaxWait time.Duration
	// MaxTries bounds backoff retries of a transient poll failure.
	MaxTries uint
	// Limit caps result rows requested from the backend.
	Limit int32
}

// New creates an Executor with the default polling budget.
func New(api client.LogsAPI, log *zap.Logger) *Executor {
	return &Executor{
		api:          api,
		log:          log,
		PollInterval: constants.DefaultPollInterval,
		MaxWait:      constants.DefaultMaxWait,
		MaxTries:     constants.MaxTransientRetries,
		Limit:        constants.DefaultQueryLimit,
	}
}

// NewFromConfig creates an Executor with the polling budget taken from the
// server configuration.
func NewFromConfig(api client.LogsAPI, cfg models.Config, log *zap.Logger) *Executor {
	e := New(api, log)
	if cfg.PollInterval > 0 {
		e.PollInterval = cfg.PollInterval
	}
	if cfg.MaxWait > 0 {
		e.MaxWait = cfg.MaxWait
	}
	return e
}

// Submit starts an Insights query over the given log groups and window.
func (e *Executor) Submit(ctx context.Context, logGroups []string, queryText string, rng timerange.Range) (*Job, error) {
	if len(logGroups) == 0 {
		return nil, errs.Validationf("no log groups specified")
	}
	if strings.TrimSpace(queryText) == "" {
		return nil, errs.Validationf("empty query")
	}

	// StartQuery takes epoch seconds; the millisecond range is truncated
	// down which can only widen the window by under a second.
	out, err := e.api.StartQuery(ctx, &cloudwatchlogs.StartQueryInput{
		LogGroupNames: logGroups,
		QueryString:   aws.String(queryText),
		StartTime:     aws.Int64(rng.Start / 1000),
		EndTime:       aws.Int64(rng.End / 1000),
		Limit:         aws.Int32(e.Limit),
	})
	if err != nil {
		return nil, errs.Remotef("start query on %s: %v", strings.Join(logGroups, ", "), err)
	}

	job := &Job{
		ID:          aws.ToString(out.QueryId),
		LogGroups:   logGroups,
		QueryText:   queryText,
		Range:       rng,
		State:       StateSubmitted,
		SubmittedAt: time.Now(),
	}
	e.log.Debug("query submitted",
		zap.String("queryId", job.ID),
		zap.Strings("logGroups", logGroups))
	return job, nil
}

// AwaitCompletion polls the job until the backend reports a terminal status,
// the executor's MaxWait elapses, or ctx is cancelled. On timeout or
// cancellation a best-effort StopQuery is issued; the remote query is not
// guaranteed to stop (see DESIGN.md).
func (e *Executor) AwaitCompletion(ctx context.Context, job *Job) (*ResultSet, error) {
	job.State = StatePolling
	budget := time.NewTimer(e.MaxWait - time.Since(job.SubmittedAt))
	defer budget.Stop()

	for {
		tick := time.NewTimer(jitter(e.PollInterval))
		select {
		case <-ctx.Done():
			tick.Stop()
			job.State = StateCancelled
			e.stopQuery(job)
			return nil, ctx.Err()
		case <-budget.C:
			tick.Stop()
			job.State = StateTimedOut
			e.stopQuery(job)
			return nil, errs.Timeoutf("query %s did not complete within %s", job.ID, e.MaxWait)
		case <-tick.C:
		}

		out, err := e.poll(ctx, job)
		if err != nil {
			if ctx.Err() != nil {
				job.State = StateCancelled
				e.stopQuery(job)
				return nil, ctx.Err()
			}
			job.State = StateFailed
			return nil, errs.Remotef("poll query %s: %v", job.ID, err)
		}

		switch out.Status {
		case types.QueryStatusComplete:
			job.State = StateComplete
			return newResultSet(out), nil
		case types.QueryStatusFailed, types.QueryStatusCancelled, types.QueryStatusTimeout:
			job.State = StateFailed
			return nil, errs.Remotef("query %s ended with backend status %s", job.ID, out.Status)
		default:
			// Scheduled, Running, Unknown: keep polling.
		}
	}
}

// Run is the submit-and-wait convenience used by every caller that doesn't
// need the intermediate Job handle.
func (e *Executor) Run(ctx context.Context, logGroups []string, queryText string, rng timerange.Range) (*ResultSet, error) {
	job, err := e.Submit(ctx, logGroups, queryText, rng)
	if err != nil {
		return nil, err
	}
	return e.AwaitCompletion(ctx, job)
}

// poll fetches the query status once, retrying transient backend errors with
// exponential backoff up to MaxTries attempts. Non-transient errors fail
// immediately.
func (e *Executor) poll(ctx context.Context, job *Job) (*cloudwatchlogs.GetQueryResultsOutput, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond

	return backoff.Retry(ctx, func() (*cloudwatchlogs.GetQueryResultsOutput, error) {
		out, err := e.api.GetQueryResults(ctx, &cloudwatchlogs.GetQueryResultsInput{
			QueryId: aws.String(job.ID),
		})
		if err != nil {
			if errs.IsTransient(err) {
				e.log.Warn("transient poll error, backing off",
					zap.String("queryId", job.ID), zap.Error(err))
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}
		return out, nil
	}, backoff.WithBackOff(bo), backoff.WithMaxTries(e.MaxTries))
}

// stopQuery asks the backend to cancel the job. Fire and forget: failures are
// logged and the orphaned query is left to the backend's own timeout.
func (e *Executor) stopQuery(job *Job) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := e.api.StopQuery(ctx, &cloudwatchlogs.StopQueryInput{QueryId: aws.String(job.ID)}); err != nil {
		e.log.Warn("stop query failed, remote query may keep running",
			zap.String("queryId", job.ID), zap.Error(err))
	}
}

// jitter spreads the poll interval by +/-20% so concurrent jobs don't hit
// the backend in lockstep.
func jitter(d time.Duration) time.Duration {
	return time.Duration(float64(d) * (0.8 + 0.4*rand.Float64()))
}
